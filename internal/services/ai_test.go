package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func disabledEngine() *Engine {
	return NewEngine("", "test-model", zap.NewNop())
}

func serverEngine(baseURL string, timeout time.Duration) *Engine {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL
	return &Engine{
		client:  openai.NewClientWithConfig(cfg),
		model:   "test-model",
		enabled: true,
		timeout: timeout,
		logger:  zap.NewNop(),
	}
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": ` + jsonString(content) + `}, "finish_reason": "stop"}]
		}`))
	}))
}

func jsonString(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + replacer.Replace(s) + `"`
}

func TestDisabledEngineUsesFallbackTemplates(t *testing.T) {
	e := disabledEngine()
	ctx := context.Background()

	for rating := 1; rating <= 5; rating++ {
		for _, text := range []string{"", "solid experience overall"} {
			got := e.GenerateUserResponse(ctx, rating, text)
			assert.Equal(t, Fallback(KindUserAck, rating, text), got)
			assert.NotEmpty(t, got)
		}
	}

	assert.Equal(t, "1. Send thank you message\n2. Maintain current service quality\n3. Consider requesting testimonial",
		e.GenerateRecommendedActions(ctx, 5, "great", "Customer feedback: great"))
	assert.Equal(t, "1. Immediate follow-up required\n2. Investigate issues mentioned\n3. Offer resolution or compensation\n4. Prevent similar issues",
		e.GenerateRecommendedActions(ctx, 1, "bad", "Customer feedback: bad"))
}

func TestGenerateSummaryEmptySentinel(t *testing.T) {
	ctx := context.Background()

	// The sentinel applies regardless of configuration: the model must not
	// be consulted for empty input.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("model called for empty review text")
	}))
	defer srv.Close()

	assert.Equal(t, "No review text provided.", disabledEngine().GenerateSummary(ctx, ""))
	assert.Equal(t, "No review text provided.", serverEngine(srv.URL, time.Second).GenerateSummary(ctx, "   "))
}

func TestModelSuccessPassesCompletionThrough(t *testing.T) {
	srv := completionServer(t, "  We're so glad you enjoyed it!  ")
	defer srv.Close()

	e := serverEngine(srv.URL, 2*time.Second)
	got := e.GenerateUserResponse(context.Background(), 5, "Loved it")
	assert.Equal(t, "We're so glad you enjoyed it!", got)
}

func TestModelErrorStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom"}}`))
	}))
	defer srv.Close()

	e := serverEngine(srv.URL, 2*time.Second)
	got := e.GenerateUserResponse(context.Background(), 5, "Loved it")
	assert.Equal(t, Fallback(KindUserAck, 5, "Loved it"), got)
}

func TestMalformedResponseFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	e := serverEngine(srv.URL, 2*time.Second)
	got := e.GenerateRecommendedActions(context.Background(), 3, "mixed feelings", "Customer feedback: mixed feelings")
	assert.Equal(t, Fallback(KindActions, 3, "mixed feelings"), got)
}

func TestEmptyChoicesFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "test-model", "choices": []}`))
	}))
	defer srv.Close()

	e := serverEngine(srv.URL, 2*time.Second)
	got := e.GenerateSummary(context.Background(), "short and sweet")
	assert.Equal(t, "Customer feedback: short and sweet", got)
}

func TestModelTimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	e := serverEngine(srv.URL, 50*time.Millisecond)
	got := e.GenerateUserResponse(context.Background(), 2, "waited forever")
	assert.Equal(t, Fallback(KindUserAck, 2, "waited forever"), got)
}

func TestLongReviewTruncatedBeforeModelCall(t *testing.T) {
	long := strings.Repeat("x", 3000)

	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "test-model", "choices": [{"index": 0, "message": {"role": "assistant", "content": "Summary."}, "finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	e := serverEngine(srv.URL, 2*time.Second)
	got := e.GenerateSummary(context.Background(), long)
	assert.Equal(t, "Summary.", got)

	// Prompt carries at most 2000 review characters.
	assert.Contains(t, received, strings.Repeat("x", 2000))
	assert.NotContains(t, received, strings.Repeat("x", 2001))
}

func TestLongMultibyteReviewTruncatedByCharacters(t *testing.T) {
	long := strings.Repeat("é", 2500)

	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "test-model", "choices": [{"index": 0, "message": {"role": "assistant", "content": "Summary."}, "finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	e := serverEngine(srv.URL, 2*time.Second)
	got := e.GenerateSummary(context.Background(), long)
	assert.Equal(t, "Summary.", got)

	// 2000 characters kept, no rune torn at the cut.
	assert.Contains(t, received, strings.Repeat("é", 2000))
	assert.NotContains(t, received, strings.Repeat("é", 2001))
	assert.True(t, utf8.ValidString(received))
}

func TestNewEngineDisabledWithoutKey(t *testing.T) {
	e := NewEngine("   ", "test-model", zap.NewNop())
	assert.False(t, e.enabled)

	e = NewEngine("gsk_something", "test-model", zap.NewNop())
	assert.True(t, e.enabled)
}
