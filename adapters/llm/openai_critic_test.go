package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinKhant07/Thumbnail/internal/config"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

// fakeOpenAI answers every chat completion with the given message
// content and records the last raw request body.
func fakeOpenAI(t *testing.T, content string) (*httptest.Server, *[]byte) {
	t.Helper()
	var lastBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody = body
		resp := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &lastBody
}

func criticWith(t *testing.T, baseURL, language string) *openAICritic {
	t.Helper()
	var cfg config.Config
	cfg.OpenAI.APIKey = "test-key"
	cfg.OpenAI.BaseURL = baseURL
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.Critique.Language = language

	critic, err := NewOpenAICritic(cfg, logger.NewNop())
	require.NoError(t, err)
	return critic.(*openAICritic)
}

const goodContent = `{"engagementScore":81,"clarityScore":67,"colorScore":92,` +
	`"overallVerdict":"Eye-catching with slightly busy text.",` +
	`"suggestions":["Reduce the word count","Brighten the subject"]}`

func TestCritique_ParsesStructuredResult(t *testing.T) {
	srv, lastBody := fakeOpenAI(t, goodContent)
	critic := criticWith(t, srv.URL+"/v1", "")

	crit, err := critic.Critique(context.Background(), "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.Equal(t, 81, crit.EngagementScore)
	assert.Equal(t, 67, crit.ClarityScore)
	assert.Equal(t, 92, crit.ColorScore)
	assert.Equal(t, "Eye-catching with slightly busy text.", crit.OverallVerdict)
	assert.Len(t, crit.Suggestions, 2)

	// The image travels as a data URI content part.
	assert.Contains(t, string(*lastBody), "data:image/png;base64,aGVsbG8=")
	assert.NotContains(t, string(*lastBody), "Vietnamese")
}

func TestCritique_LanguageVariantChangesPromptOnly(t *testing.T) {
	srv, lastBody := fakeOpenAI(t, goodContent)
	critic := criticWith(t, srv.URL+"/v1", "Vietnamese")

	_, err := critic.Critique(context.Background(), "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.Contains(t, string(*lastBody), "Vietnamese")
}

func TestCritique_RejectsMalformedResults(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not json", "I think it looks great!"},
		{"score out of range", `{"engagementScore":140,"clarityScore":50,"colorScore":50,"overallVerdict":"ok","suggestions":["a","b"]}`},
		{"too few suggestions", `{"engagementScore":50,"clarityScore":50,"colorScore":50,"overallVerdict":"ok","suggestions":["a"]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := fakeOpenAI(t, tc.content)
			critic := criticWith(t, srv.URL+"/v1", "")

			_, err := critic.Critique(context.Background(), "data:image/png;base64,aGVsbG8=")
			assert.ErrorIs(t, err, thumbnail.ErrMalformedCritique)
		})
	}
}
