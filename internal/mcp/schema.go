package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ServerInstructions contains the MCP server instructions for clients
const ServerInstructions = `Mock Interview Server

This server runs mock job interviews. A panel of generated interviewer personas
asks questions tailored to a resume and a job description, decides after every
answer whether to ask a follow-up, and evaluates the finished interview.

## Transport

This server uses streamable HTTP transport only. Connect via:
- POST /mcp  - Streamable HTTP transport

## Resources

- resume://[id]: An ingested resume (contact details redacted)
- jd://[id]: An ingested job description
- transcript://[session_id]: The transcript and evaluation of a finished interview
- storage://documents: Every stored document

## Workflow

1. ingest_document for the resume ({"path": "./resume.pdf", "type": "resume"})
2. ingest_document for the job description ({"path": "https://...", "type": "jd"})
3. start_interview with both URIs; it returns session_id and the first question
4. submit_answer for each question until completed is true
5. evaluate_interview to get the assessment

Answers must address the current question: pass the interviewer_index and
question_index returned with it. Follow-up questions are inserted right after
the question they probe, so indices of later questions shift by one.

## Tools

### ingest_document
Store a resume or job description from a file path, URL or raw text.
Parameters: path, type ("resume" or "jd")

### generate_personas
Preview the interviewer panel for a job description.
Parameters: jd_uri, max_interviewers (1-4), feedback

### analyze_gap
Rank the job description terms a resume covers and misses.
Parameters: resume_uri, jd_uri

### start_interview
Plan an interview and return its first question.
Parameters: resume_uri, jd_uri, max_interviewers (1-4), feedback

### current_question
Parameters: session_id

### submit_answer
Parameters: session_id, interviewer_index, question_index, answer

### export_transcript
Parameters: session_id, format ("json", "xml" or "markdown")

### evaluate_interview
Evaluate a completed interview and store its transcript.
Parameters: session_id

### list_documents
Parameters: type ("resume", "jd", "transcript" or empty)

### cleanup_storage
Remove documents older than a TTL.
Parameters: ttl (e.g. "24h", "7d" or hours as number)

## Prompts

### mock_interview
Instructions for hosting an interview with the tools above.
Arguments: resume_uri, jd_uri
`

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func intProp(description string, minimum, maximum int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"minimum":     minimum,
		"maximum":     maximum,
	}
}

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ToolDefinitions contains all MCP tool definitions
var ToolDefinitions = map[string]*mcp.Tool{
	"ingest_document": {
		Name:        "ingest_document",
		Description: "Ingest a resume or job description from a file path, URL or raw text. PDF, HTML, markdown and plain text are supported. Returns a resume:// or jd:// URI.",
		InputSchema: objectSchema([]string{"path"}, map[string]interface{}{
			"path": stringProp("File path, URL or raw text of the document"),
			"type": map[string]interface{}{
				"type":        "string",
				"description": "Document type: 'resume' or 'jd'",
				"enum":        []string{"resume", "jd"},
				"default":     "resume",
			},
		}),
	},
	"generate_personas": {
		Name:        "generate_personas",
		Description: "Generate the interviewer personas for an ingested job description without starting an interview.",
		InputSchema: objectSchema([]string{"jd_uri"}, map[string]interface{}{
			"jd_uri":           stringProp("URI of the ingested job description (jd://[id])"),
			"max_interviewers": intProp("Number of interviewers; server default when omitted", 1, 4),
			"feedback":         stringProp("Optional guidance for the panel, e.g. 'include a hiring manager'"),
		}),
	},
	"analyze_gap": {
		Name:        "analyze_gap",
		Description: "Compare an ingested resume against an ingested job description. Lists job description terms the resume covers and misses, ranked by BM25 score.",
		InputSchema: objectSchema([]string{"resume_uri", "jd_uri"}, map[string]interface{}{
			"resume_uri": stringProp("URI of the ingested resume (resume://[id])"),
			"jd_uri":     stringProp("URI of the ingested job description (jd://[id])"),
		}),
	},
	"start_interview": {
		Name:        "start_interview",
		Description: "Generate interviewers and their questions for a resume and a job description, start the session and return its first question.",
		InputSchema: objectSchema([]string{"resume_uri", "jd_uri"}, map[string]interface{}{
			"resume_uri":       stringProp("URI of the ingested resume (resume://[id])"),
			"jd_uri":           stringProp("URI of the ingested job description (jd://[id])"),
			"max_interviewers": intProp("Number of interviewers; server default when omitted", 1, 4),
			"feedback":         stringProp("Optional guidance for the panel"),
		}),
	},
	"current_question": {
		Name:        "current_question",
		Description: "Return the question the candidate should answer next, or completed=true when the interview is over.",
		InputSchema: objectSchema([]string{"session_id"}, map[string]interface{}{
			"session_id": stringProp("Interview session id"),
		}),
	},
	"submit_answer": {
		Name:        "submit_answer",
		Description: "Record the answer to the current question. The interviewer may insert a follow-up question. Returns the next question.",
		InputSchema: objectSchema([]string{"session_id", "interviewer_index", "question_index", "answer"}, map[string]interface{}{
			"session_id":        stringProp("Interview session id"),
			"interviewer_index": intProp("interviewer_index of the current question", 0, 3),
			"question_index": map[string]interface{}{
				"type":        "integer",
				"description": "question_index of the current question",
				"minimum":     0,
			},
			"answer": stringProp("The candidate's answer"),
		}),
	},
	"export_transcript": {
		Name:        "export_transcript",
		Description: "Export the questions and answers of a session so far.",
		InputSchema: objectSchema([]string{"session_id"}, map[string]interface{}{
			"session_id": stringProp("Interview session id"),
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Transcript format",
				"enum":        []string{"json", "xml", "markdown"},
				"default":     "json",
			},
		}),
	},
	"evaluate_interview": {
		Name:        "evaluate_interview",
		Description: "Evaluate a completed interview. The transcript and evaluation are stored as transcript://[session_id].",
		InputSchema: objectSchema([]string{"session_id"}, map[string]interface{}{
			"session_id": stringProp("Interview session id"),
		}),
	},
	"list_documents": {
		Name:        "list_documents",
		Description: "List stored resumes, job descriptions and transcripts by URI.",
		InputSchema: objectSchema(nil, map[string]interface{}{
			"type": map[string]interface{}{
				"type":        "string",
				"description": "Optional filter by document type",
				"enum":        []string{"resume", "jd", "transcript"},
			},
		}),
	},
	"cleanup_storage": {
		Name:        "cleanup_storage",
		Description: "Remove documents older than the specified TTL from storage.",
		InputSchema: objectSchema(nil, map[string]interface{}{
			"ttl": stringProp("Time to live (e.g. '24h', '7d' or hours as number). Uses the default TTL if not specified."),
		}),
	},
}

// PromptDefinitions contains the MCP prompt definitions
var PromptDefinitions = []*mcp.Prompt{
	{
		Name:        "mock_interview",
		Description: "Host a mock interview for an ingested resume and job description",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "resume_uri",
				Title:       "Resume URI",
				Description: "URI of the ingested resume (resume://[id])",
				Required:    true,
			},
			{
				Name:        "jd_uri",
				Title:       "Job Description URI",
				Description: "URI of the ingested job description (jd://[id])",
				Required:    true,
			},
		},
	},
}

// ResourceDefinitions contains the MCP resource definitions
var ResourceDefinitions = []*mcp.Resource{
	{
		URI:         documentsURI,
		Name:        "Stored Documents",
		Description: "List of every stored resume, job description and transcript",
		MIMEType:    "text/markdown",
	},
}

// ResourceTemplateDefinitions contains the MCP resource template definitions
var ResourceTemplateDefinitions = []*mcp.ResourceTemplate{
	{
		URITemplate: "resume://{id}",
		Name:        "Resume",
		Description: "An ingested resume",
		MIMEType:    "text/markdown",
	},
	{
		URITemplate: "jd://{id}",
		Name:        "Job Description",
		Description: "An ingested job description",
		MIMEType:    "text/markdown",
	},
	{
		URITemplate: "transcript://{id}",
		Name:        "Interview Transcript",
		Description: "Transcript and evaluation of a finished interview",
		MIMEType:    "text/markdown",
	},
}
