package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/mockinterview/internal/followup"
	"github.com/kfreiman/mockinterview/internal/generation"
	"github.com/kfreiman/mockinterview/internal/interview"
	"github.com/kfreiman/mockinterview/internal/retry"
)

// fakeAPI serves chat completions from a queue of responses
type fakeAPI struct {
	mu        sync.Mutex
	responses []fakeResponse
	requests  []openai.ChatCompletionRequest
}

type fakeResponse struct {
	status  int
	content string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.requests = append(f.requests, req)

	resp := fakeResponse{status: http.StatusOK, content: "{}"}
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.status != http.StatusOK {
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  req.Model,
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: resp.content},
			FinishReason: openai.FinishReasonStop,
		}},
	})
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, responses ...fakeResponse) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{responses: responses}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Retry:   retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, Backoff: retry.BackoffFixed},
	})
	return client, api
}

func ok(content string) fakeResponse {
	return fakeResponse{status: http.StatusOK, content: content}
}

func TestClient_Judge(t *testing.T) {
	ctx := context.Background()
	req := followup.Request{SystemPrompt: "system", Directive: followup.Directive}

	t.Run("decodes a follow-up verdict", func(t *testing.T) {
		client, api := newTestClient(t, ok(`{"need_followup": true, "followup_question": " Which index? ", "evaluation": "too vague"}`))

		verdict, err := client.Judge(ctx, req)

		require.NoError(t, err)
		assert.True(t, verdict.NeedFollowUp)
		assert.Equal(t, "Which index?", verdict.FollowUpQuestion)
		assert.Equal(t, "too vague", verdict.Evaluation)

		require.Len(t, api.requests, 1)
		sent := api.requests[0]
		assert.Equal(t, DefaultModel, sent.Model)
		require.NotNil(t, sent.ResponseFormat)
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, sent.ResponseFormat.Type)
		require.Len(t, sent.Messages, 2)
		assert.Equal(t, "system", sent.Messages[0].Content)
		assert.Equal(t, followup.Directive, sent.Messages[1].Content)
	})

	t.Run("retries server errors", func(t *testing.T) {
		client, api := newTestClient(t,
			fakeResponse{status: http.StatusServiceUnavailable},
			fakeResponse{status: http.StatusTooManyRequests},
			ok(`{"need_followup": false, "evaluation": "good"}`),
		)

		verdict, err := client.Judge(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "good", verdict.Evaluation)
		assert.Equal(t, 3, api.calls())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		client, api := newTestClient(t, fakeResponse{status: http.StatusUnauthorized})

		_, err := client.Judge(ctx, req)

		var jErr *followup.JudgementError
		require.ErrorAs(t, err, &jErr)
		assert.Equal(t, "transport", jErr.Cause)
		assert.ErrorIs(t, err, followup.ErrJudgementUnavailable)
		assert.Equal(t, 1, api.calls())
	})

	t.Run("malformed json is a parse failure", func(t *testing.T) {
		client, _ := newTestClient(t, ok(`not json`))

		_, err := client.Judge(ctx, req)

		var jErr *followup.JudgementError
		require.ErrorAs(t, err, &jErr)
		assert.Equal(t, "parse", jErr.Cause)
	})

	t.Run("missing need_followup is a parse failure", func(t *testing.T) {
		client, _ := newTestClient(t, ok(`{"evaluation": "fine"}`))

		_, err := client.Judge(ctx, req)

		var jErr *followup.JudgementError
		require.ErrorAs(t, err, &jErr)
		assert.Equal(t, "parse", jErr.Cause)
	})
}

func TestClient_GeneratePersonas(t *testing.T) {
	client, api := newTestClient(t, ok(`{"interviewers": [
		{"name": "Mina", "affiliation": "Platform", "position_experience": "Lead, 10y", "main_tasks": "infra", "description": "reliability"},
		{"name": "  ", "affiliation": "x"}
	]}`))

	personas, err := client.GeneratePersonas(context.Background(), generation.PersonaRequest{
		JobDescription: "Senior Go engineer",
		Max:            2,
		Feedback:       "include a manager",
	})

	require.NoError(t, err)
	require.Len(t, personas, 1)
	assert.Equal(t, "Mina", personas[0].Name)
	assert.Equal(t, "Lead, 10y", personas[0].PositionExperience)

	system := api.requests[0].Messages[0].Content
	assert.Contains(t, system, "Senior Go engineer")
	assert.Contains(t, system, "include a manager")
	assert.Contains(t, system, "Pick the top 2 interviewers personas.")
}

func TestClient_GenerateQuestions(t *testing.T) {
	client, api := newTestClient(t, ok(`{"interviewer_name": "someone else", "questions": [
		{"question": "How do you size a connection pool?", "purpose": "db depth"},
		{"question": "", "purpose": "dropped"}
	]}`))
	persona := interview.Persona{Name: "Mina", PositionExperience: "Lead", MainTasks: "infra", Description: "calm"}

	set, err := client.GenerateQuestions(context.Background(), generation.Request{
		Persona:    persona,
		Resume:     "5 years of Go",
		FocusAreas: []string{"kubernetes"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Mina", set.InterviewerName)
	require.Len(t, set.Questions, 1)
	assert.Equal(t, "db depth", set.Questions[0].Purpose)

	system := api.requests[0].Messages[0].Content
	assert.Contains(t, system, "Name: Mina")
	assert.Contains(t, system, "5 years of Go")
	assert.Contains(t, system, "- kubernetes")
}

func TestClient_Evaluate(t *testing.T) {
	client, api := newTestClient(t, ok("### Summary\nGood"))

	out, err := client.Evaluate(context.Background(), "<InterviewSessions/>")

	require.NoError(t, err)
	assert.Equal(t, "### Summary\nGood", out)
	sent := api.requests[0]
	assert.Equal(t, DefaultEvaluationModel, sent.Model)
	assert.Nil(t, sent.ResponseFormat)
	assert.Equal(t, "<InterviewSessions/>", sent.Messages[1].Content)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"request error 500", &openai.RequestError{HTTPStatusCode: 500}, true},
		{"parse error", &ParseError{Err: errors.New("eof")}, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"connection reset", errors.New("connection reset by peer"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
