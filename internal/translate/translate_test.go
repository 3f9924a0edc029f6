package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sachpatra/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu    sync.Mutex
	calls int
	fail  bool
	fn    func(text string) string
}

func (p *stubProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.fail {
		return "", errors.New("network down")
	}
	if p.fn != nil {
		return p.fn(text), nil
	}
	return "[en] " + text, nil
}

func (p *stubProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestInLanguage(t *testing.T) {
	assert.True(t, InLanguage("भारत की खबर", "hi"))
	assert.False(t, InLanguage("India news", "hi"))
	assert.True(t, InLanguage("India wins the match!", "en"))
	assert.False(t, InLanguage("भारत wins", "en"))
	assert.False(t, InLanguage("anything", "fr"))
}

func TestTextSkipsProviderWhenAlreadyInTarget(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(provider, nil)

	res := svc.Text(context.Background(), "Prime Minister visits Pune", "en", "hi")
	assert.Equal(t, "Prime Minister visits Pune", res.Text)
	assert.Equal(t, SourcePassthrough, res.Source)

	res = svc.Text(context.Background(), "एक खबर", "hi", "hi")
	assert.Equal(t, SourcePassthrough, res.Source)
	assert.Zero(t, provider.count())
}

func TestTextUsesProvider(t *testing.T) {
	provider := &stubProvider{}
	res := NewService(provider, nil).Text(context.Background(), "नमस्ते", "en", "hi")
	assert.Equal(t, "[en] नमस्ते", res.Text)
	assert.Equal(t, SourceProvider, res.Source)
	assert.NoError(t, res.Err)
}

func TestTextFallsBackToDictionary(t *testing.T) {
	svc := NewService(&stubProvider{fail: true}, nil)

	res := svc.Text(context.Background(), "मुख्यमंत्री और मंत्री", "en", "hi")
	assert.Equal(t, "Chief Minister And Minister", res.Text)
	assert.Equal(t, SourceDictionary, res.Source)
	assert.Error(t, res.Err)
	assert.False(t, res.Failed())

	res = svc.Text(context.Background(), "the GOVERNMENT said", "hi", "en")
	assert.Equal(t, "the सरकार कहा", res.Text)
}

func TestTextUnchangedWhenNothingHelps(t *testing.T) {
	res := NewService(&stubProvider{fail: true}, nil).Text(context.Background(), "ज़ुबैर", "en", "hi")
	assert.Equal(t, "ज़ुबैर", res.Text)
	assert.True(t, res.Failed())

	res = NewService(nil, nil).Text(context.Background(), "ज़ुबैर", "en", "hi")
	assert.ErrorIs(t, res.Err, ErrNoProvider)
}

func TestDictionaryPrefersLongerPhrases(t *testing.T) {
	d := newDictionary([][2]string{{"मंत्री", "Minister"}, {"मुख्यमंत्री", "Chief Minister"}})
	assert.Equal(t, "Chief Minister", d.Translate("मुख्यमंत्री", "hi", "en"))
	assert.Equal(t, "मुख्यमंत्री", d.Translate("chief minister", "en", "hi"))
	assert.Equal(t, "Ministerial", d.Translate("Ministerial", "en", "hi"))
}

func newTestLayer(t *testing.T, provider Provider, size int) *Layer {
	t.Helper()
	layer, err := NewLayer(NewService(provider, nil), size, nil)
	require.NoError(t, err)
	return layer
}

func hindiArticle(id string) *db.Article {
	return &db.Article{
		ID:        id,
		Title:     "शीर्षक " + id,
		Excerpt:   "सार",
		Content:   "सामग्री",
		UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLayerNilArticle(t *testing.T) {
	layer := newTestLayer(t, &stubProvider{}, 4)
	assert.Nil(t, layer.Article(context.Background(), nil, "en"))
}

func TestLayerCachesSuccessfulTranslations(t *testing.T) {
	provider := &stubProvider{}
	layer := newTestLayer(t, provider, 4)
	article := hindiArticle("a1")

	first := layer.Article(context.Background(), article, "en")
	require.NotNil(t, first)
	assert.Equal(t, "[en] शीर्षक a1", first.Title)
	assert.Equal(t, "शीर्षक a1", article.Title, "input must not be mutated")
	assert.Equal(t, 3, provider.count())

	second := layer.Article(context.Background(), article, "en")
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 3, provider.count(), "cache hit must not call provider")

	edited := article.Clone()
	edited.UpdatedAt = edited.UpdatedAt.Add(time.Minute)
	layer.Article(context.Background(), edited, "en")
	assert.Equal(t, 6, provider.count(), "edited article must be retranslated")
}

func TestLayerCacheHitKeepsLiveCounters(t *testing.T) {
	provider := &stubProvider{}
	layer := newTestLayer(t, provider, 4)
	article := hindiArticle("c1")
	article.Views = 1

	first := layer.Article(context.Background(), article, "en")
	require.NotNil(t, first)
	assert.Equal(t, int64(1), first.Views)

	later := article.Clone()
	later.Views = 42
	later.CommentsCount = 7
	second := layer.Article(context.Background(), later, "en")
	assert.Equal(t, 3, provider.count(), "counter changes must not retranslate")
	assert.Equal(t, "[en] शीर्षक c1", second.Title)
	assert.Equal(t, int64(42), second.Views)
	assert.Equal(t, int64(7), second.CommentsCount)

	list := layer.Articles(context.Background(), []db.Article{*later}, "en")
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].Views)
	assert.Equal(t, int64(7), list[0].CommentsCount)
}

type ctxProvider struct{}

func (ctxProvider) Translate(ctx context.Context, text, _, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "[en] " + text, nil
}

func TestLayerTranslatesAfterCallerCancels(t *testing.T) {
	layer := newTestLayer(t, ctxProvider{}, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := layer.Article(ctx, hindiArticle("d1"), "en")
	assert.Equal(t, "[en] शीर्षक d1", out.Title)
	assert.Equal(t, 1, layer.Len())

	list := layer.Articles(ctx, []db.Article{*hindiArticle("d2")}, "en")
	require.Len(t, list, 1)
	assert.Equal(t, "[en] शीर्षक d2", list[0].Title)
}

func TestLayerDoesNotCacheFailures(t *testing.T) {
	provider := &stubProvider{fail: true}
	layer := newTestLayer(t, provider, 4)
	article := &db.Article{ID: "x", Title: "ज़ुबैर", UpdatedAt: time.Now()}

	out := layer.Article(context.Background(), article, "en")
	assert.Equal(t, "ज़ुबैर", out.Title)
	assert.Zero(t, layer.Len())

	layer.Article(context.Background(), article, "en")
	assert.Equal(t, 2, provider.count(), "failed translation is retried")
}

func TestLayerIsBounded(t *testing.T) {
	layer := newTestLayer(t, &stubProvider{}, 2)
	for _, id := range []string{"a", "b", "c"} {
		layer.Article(context.Background(), hindiArticle(id), "en")
	}
	assert.Equal(t, 2, layer.Len())
}

func TestLayerArticlesKeepsOrder(t *testing.T) {
	provider := &stubProvider{}
	layer := newTestLayer(t, provider, 8)
	list := []db.Article{*hindiArticle("b"), *hindiArticle("a")}

	out := layer.Articles(context.Background(), list, "en")
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "[en] शीर्षक b", out[0].Title)
	assert.Equal(t, "[en] शीर्षक a", out[1].Title)

	assert.Empty(t, layer.Articles(context.Background(), nil, "en"))
	assert.False(t, layer.IsTranslating("a", "en"))
}

func TestListKeyIgnoresOrder(t *testing.T) {
	a := []db.Article{{ID: "1"}, {ID: "2"}}
	b := []db.Article{{ID: "2"}, {ID: "1"}}
	assert.Equal(t, ListKey(a, "en"), ListKey(b, "en"))
	assert.NotEqual(t, ListKey(a, "en"), ListKey(a, "hi"))
}

func TestInvalidate(t *testing.T) {
	provider := &stubProvider{}
	layer := newTestLayer(t, provider, 4)
	article := hindiArticle("z")
	layer.Article(context.Background(), article, "en")
	layer.Invalidate("z")
	assert.Zero(t, layer.Len())
}

func TestGoogleProviderJoinsSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hi", r.URL.Query().Get("sl"))
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		w.Write([]byte(`[[["Hello. ","नमस्ते। ",null],["World","दुनिया",null]],null,"hi"]`))
	}))
	defer server.Close()

	provider := NewGoogleProvider(server.URL, time.Second)
	out, err := provider.Translate(context.Background(), "नमस्ते। दुनिया", "hi", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello. World", out)
}

func TestGoogleProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewGoogleProvider(server.URL, time.Second).Translate(context.Background(), "x", "hi", "en")
	assert.Error(t, err)
}
