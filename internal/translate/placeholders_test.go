package translate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectImageURLsRoundTrip(t *testing.T) {
	input := "पहला ![चित्र](https://cdn.example.com/a/very/long/path.jpg) और <img src=\"https://cdn.example.com/b.png\" alt=\"\">"
	prompt, images := protectImageURLs(input)

	require.Equal(t, 2, images.Count())
	assert.NotContains(t, prompt, "cdn.example.com")
	assert.Contains(t, prompt, "image://asset-1")
	assert.Contains(t, prompt, "image://asset-2")

	translated := strings.Replace(prompt, "पहला", "First", 1)
	translated = strings.Replace(translated, "और", "and", 1)
	assert.Equal(t,
		"First ![चित्र](https://cdn.example.com/a/very/long/path.jpg) and <img src=\"https://cdn.example.com/b.png\" alt=\"\">",
		images.Restore(translated),
	)
}

func TestRestoreUnwrapsAngleBrackets(t *testing.T) {
	_, images := protectImageURLs("![x](https://img.example.com/1.jpg)")
	assert.Equal(t, "![x](https://img.example.com/1.jpg)", images.Restore("![x](<image://asset-1>)"))
}

func TestRestoreManyTokens(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 11; i++ {
		fmt.Fprintf(&b, "![](https://img.example.com/%d.jpg)\n", i)
	}
	prompt, images := protectImageURLs(b.String())
	require.Equal(t, 11, images.Count())
	assert.Equal(t, b.String(), images.Restore(prompt))
}

func TestProtectWithoutImages(t *testing.T) {
	prompt, images := protectImageURLs("plain text")
	assert.Equal(t, "plain text", prompt)
	assert.Equal(t, 0, images.Count())
	assert.Equal(t, "plain text", images.Restore("plain text"))
}
