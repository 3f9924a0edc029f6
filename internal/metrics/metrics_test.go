package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExported(t *testing.T) {
	gin.SetMode(gin.TestMode)

	before := testutil.ToFloat64(AdEvents.WithLabelValues("click"))
	AdEvents.WithLabelValues("click").Inc()
	if got := testutil.ToFloat64(AdEvents.WithLabelValues("click")); got != before+1 {
		t.Fatalf("expected click counter to increase, got %v", got)
	}

	router := gin.New()
	router.GET("/metrics", Handler())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "sachpatra_ad_events_total") {
		t.Fatalf("expected ad events metric in output")
	}
}
