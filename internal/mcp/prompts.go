package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/storage"
)

// MockInterviewPrompt guides a client through one interview with the tools
type MockInterviewPrompt struct {
	storageManager *storage.StorageManager
}

// NewMockInterviewPrompt creates a new mock interview prompt
func NewMockInterviewPrompt(storageManager *storage.StorageManager) *MockInterviewPrompt {
	return &MockInterviewPrompt{storageManager: storageManager}
}

// Handle implements the prompt handler interface
func (p *MockInterviewPrompt) Handle(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	resumeURI := args["resume_uri"]
	jdURI := args["jd_uri"]

	if err := p.check(resumeURI, storage.DocumentTypeResume); err != nil {
		return nil, err
	}
	if err := p.check(jdURI, storage.DocumentTypeJD); err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: "Run a mock interview for an ingested resume and job description",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: BuildMockInterviewPrompt(resumeURI, jdURI)},
			},
		},
	}, nil
}

func (p *MockInterviewPrompt) check(uri string, want storage.DocumentType) error {
	if uri == "" {
		return fmt.Errorf("%s_uri parameter is required", want)
	}
	docType, _, err := storage.ParseURI(uri)
	if err != nil || docType != want {
		return fmt.Errorf("invalid %s URI: must be %s:// format", want, want)
	}
	if !p.storageManager.DocumentExists(uri) {
		return fmt.Errorf("document not found: %s", uri)
	}
	return nil
}

// BuildMockInterviewPrompt describes the tool loop of one interview
func BuildMockInterviewPrompt(resumeURI, jdURI string) string {
	return fmt.Sprintf(`You are hosting a mock job interview for a candidate.

## Documents

- Resume: %s
- Job description: %s

## Steps

1. Call start_interview with resume_uri and jd_uri. Remember the session_id.
2. Show the candidate current_question.question_text, prefixed with the interviewer_name in brackets.
3. Wait for the candidate's answer, then call submit_answer with the session_id,
   the interviewer_index and question_index of the question shown, and the answer.
4. If submit_answer returns next_question, go back to step 2 with it.
5. When completed is true, call evaluate_interview and show the evaluation.

## Rules

- Never invent questions; only ask what the tools return.
- Never answer on the candidate's behalf.
- If a call fails with a stale turn, call current_question and continue from there.
`, resumeURI, jdURI)
}
