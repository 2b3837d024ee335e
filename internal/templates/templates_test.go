package templates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "EN", "de", " fr "} {
		b, err := Load(lang)
		require.NoError(t, err)
		assert.Equal(t, "en", b.Lang())
	}
	b, err := Load("RU")
	require.NoError(t, err)
	assert.Equal(t, "ru", b.Lang())
}

func TestBundlesShareKeys(t *testing.T) {
	keys := func(lang string) []string {
		raw, err := files.ReadFile("data/" + lang + ".json")
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(raw, &m))
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		return out
	}
	en := keys("en")
	for _, lang := range Languages {
		assert.ElementsMatch(t, en, keys(lang), lang)
	}
}

func TestRenderRateLimited(t *testing.T) {
	b, err := Load("en")
	require.NoError(t, err)

	msg, err := b.Render(KeyRateLimited, map[string]string{"RetryAfter": "7"})
	require.NoError(t, err)
	assert.Equal(t, "Rate limit exceeded, retry after 7 seconds", msg)

	msg, err = b.Render(KeyRateLimited, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "Rate limit exceeded", msg)
}

func TestRenderProvider(t *testing.T) {
	b, err := Load("en")
	require.NoError(t, err)

	msg, err := b.Render(KeyProvider, map[string]string{"Message": "No such customer", "Code": "resource_missing"})
	require.NoError(t, err)
	assert.Equal(t, "Stripe error: No such customer (code: resource_missing)", msg)
}

func TestRenderUnknownKey(t *testing.T) {
	b, err := Load("en")
	require.NoError(t, err)

	_, err = b.Render("nope", nil)
	assert.Error(t, err)
	assert.Equal(t, "fallback", Text(b, "nope", nil, "fallback"))
	assert.Equal(t, "fallback", Text(nil, KeyTimeout, nil, "fallback"))
}
