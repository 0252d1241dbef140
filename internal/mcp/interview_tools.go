package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/app"
	"github.com/kfreiman/mockinterview/internal/driver"
	"github.com/kfreiman/mockinterview/internal/interview"
)

// GeneratePersonasTool previews the interviewer panel for a job description
type GeneratePersonasTool struct {
	app    *app.App
	logger *slog.Logger
}

// NewGeneratePersonasTool creates a new generate personas tool
func NewGeneratePersonasTool(a *app.App) *GeneratePersonasTool {
	return &GeneratePersonasTool{app: a, logger: slog.Default()}
}

// WithLogger sets the logger for the tool
func (t *GeneratePersonasTool) WithLogger(logger *slog.Logger) *GeneratePersonasTool {
	t.logger = logger
	return t
}

// Call implements the MCP tool interface
func (t *GeneratePersonasTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		JDURI           string `json:"jd_uri"`
		MaxInterviewers int    `json:"max_interviewers"`
		Feedback        string `json:"feedback"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("jd_uri", args.JDURI); err != nil {
		return errorResult(err), nil
	}

	personas, err := t.app.Personas(ctx, args.JDURI, args.MaxInterviewers, args.Feedback)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to generate personas",
			"error", err,
			"jd_uri", args.JDURI,
			"operation", "generate_personas",
		)
		return errorResult(err), nil
	}
	return jsonResult(struct {
		Personas []interview.Persona `json:"personas"`
	}{personas})
}

// StartInterviewTool plans an interview and returns its first question
type StartInterviewTool struct {
	app    *app.App
	logger *slog.Logger
}

// NewStartInterviewTool creates a new start interview tool
func NewStartInterviewTool(a *app.App) *StartInterviewTool {
	return &StartInterviewTool{app: a, logger: slog.Default()}
}

// WithLogger sets the logger for the tool
func (t *StartInterviewTool) WithLogger(logger *slog.Logger) *StartInterviewTool {
	t.logger = logger
	return t
}

type startResponse struct {
	SessionID  string                  `json:"session_id"`
	Personas   []interview.Persona     `json:"personas"`
	FocusAreas []string                `json:"focus_areas,omitempty"`
	Question   *driver.CurrentQuestion `json:"current_question,omitempty"`
}

// Call implements the MCP tool interface
func (t *StartInterviewTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ResumeURI       string `json:"resume_uri"`
		JDURI           string `json:"jd_uri"`
		MaxInterviewers int    `json:"max_interviewers"`
		Feedback        string `json:"feedback"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("resume_uri", args.ResumeURI); err != nil {
		return errorResult(err), nil
	}
	if err := required("jd_uri", args.JDURI); err != nil {
		return errorResult(err), nil
	}

	started, err := t.app.Start(ctx, app.StartRequest{
		ResumeURI:       args.ResumeURI,
		JDURI:           args.JDURI,
		MaxInterviewers: args.MaxInterviewers,
		Feedback:        args.Feedback,
	})
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to start interview",
			"error", err,
			"resume_uri", args.ResumeURI,
			"jd_uri", args.JDURI,
			"operation", "start_interview",
		)
		return errorResult(err), nil
	}
	return jsonResult(startResponse{
		SessionID:  started.SessionID,
		Personas:   started.Personas,
		FocusAreas: started.FocusAreas,
		Question:   started.First,
	})
}

// CurrentQuestionTool returns the question the candidate should answer
type CurrentQuestionTool struct {
	sessions *driver.Manager
}

// NewCurrentQuestionTool creates a new current question tool
func NewCurrentQuestionTool(sessions *driver.Manager) *CurrentQuestionTool {
	return &CurrentQuestionTool{sessions: sessions}
}

type questionResponse struct {
	SessionID string                  `json:"session_id"`
	Completed bool                    `json:"completed"`
	Question  *driver.CurrentQuestion `json:"current_question,omitempty"`
}

// Call implements the MCP tool interface
func (t *CurrentQuestionTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("session_id", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	q, ok, err := t.sessions.CurrentQuestion(args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}
	resp := questionResponse{SessionID: args.SessionID, Completed: !ok}
	if ok {
		resp.Question = &q
	}
	return jsonResult(resp)
}

// SubmitAnswerTool records an answer and runs the follow-up decision
type SubmitAnswerTool struct {
	sessions *driver.Manager
	logger   *slog.Logger
}

// NewSubmitAnswerTool creates a new submit answer tool
func NewSubmitAnswerTool(sessions *driver.Manager) *SubmitAnswerTool {
	return &SubmitAnswerTool{sessions: sessions, logger: slog.Default()}
}

// WithLogger sets the logger for the tool
func (t *SubmitAnswerTool) WithLogger(logger *slog.Logger) *SubmitAnswerTool {
	t.logger = logger
	return t
}

type submitResponse struct {
	SessionID string                  `json:"session_id"`
	Applied   bool                    `json:"applied"`
	Outcome   string                  `json:"outcome"`
	Completed bool                    `json:"completed"`
	Next      *driver.CurrentQuestion `json:"next_question,omitempty"`
}

// Call implements the MCP tool interface
func (t *SubmitAnswerTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID        string `json:"session_id"`
		InterviewerIndex *int   `json:"interviewer_index"`
		QuestionIndex    *int   `json:"question_index"`
		Answer           string `json:"answer"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("session_id", args.SessionID); err != nil {
		return errorResult(err), nil
	}
	if args.InterviewerIndex == nil {
		return errorResult(&ValidationError{Field: "interviewer_index", Reason: "required parameter missing"}), nil
	}
	if args.QuestionIndex == nil {
		return errorResult(&ValidationError{Field: "question_index", Reason: "required parameter missing"}), nil
	}

	res, err := t.sessions.SubmitAnswer(ctx, args.SessionID, *args.InterviewerIndex, *args.QuestionIndex, args.Answer)
	if err != nil {
		t.logger.WarnContext(ctx, "answer rejected",
			"error", err,
			"session_id", args.SessionID,
			"operation", "submit_answer",
		)
		return errorResult(err), nil
	}
	return jsonResult(submitResponse{
		SessionID: args.SessionID,
		Applied:   res.Applied,
		Outcome:   res.Outcome.String(),
		Completed: res.Completed,
		Next:      res.Next,
	})
}
