// Package evaluation renders interview transcripts and produces the final assessment.
package evaluation

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// Format selects a transcript rendering
type Format string

const (
	FormatJSON     Format = "json"
	FormatXML      Format = "xml"
	FormatMarkdown Format = "markdown"
)

const (
	noAnswer     = "No answer"
	noEvaluation = "No evaluation"
)

// UnsupportedFormatError reports an unknown transcript format
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported transcript format %q: must be json, xml or markdown", e.Format)
}

// Render renders entries in the requested format
func Render(entries []interview.TranscriptEntry, format Format) (string, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal transcript: %w", err)
		}
		return string(data), nil
	case FormatXML:
		return XML(entries)
	case FormatMarkdown:
		return Markdown(entries), nil
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
}

type xmlSessions struct {
	XMLName      xml.Name         `xml:"InterviewSessions"`
	Interviewers []xmlInterviewer `xml:"Interviewer"`
}

type xmlInterviewer struct {
	ID            int               `xml:"id,attr"`
	Name          string            `xml:"name,attr"`
	Conversations []xmlConversation `xml:"Conversation"`
}

type xmlConversation struct {
	Number     int     `xml:"Number"`
	Question   *string `xml:"Question"`
	FollowUp   *string `xml:"Follow-up"`
	Answer     string  `xml:"Answer"`
	Evaluation string  `xml:"Evaluation"`
}

// group splits entries into runs of the same interviewer
func group(entries []interview.TranscriptEntry) [][]interview.TranscriptEntry {
	var groups [][]interview.TranscriptEntry
	for i, e := range entries {
		if i == 0 || e.InterviewerIndex != entries[i-1].InterviewerIndex {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], e)
	}
	return groups
}

func answerText(e interview.TranscriptEntry) string {
	if !e.Answered || e.Answer == "" {
		return noAnswer
	}
	return e.Answer
}

func evaluationText(e interview.TranscriptEntry) string {
	if e.Purpose == "" {
		return noEvaluation
	}
	return e.Purpose
}

// XML serializes the transcript for the evaluation model. Interviewers and
// conversations are numbered from 1.
func XML(entries []interview.TranscriptEntry) (string, error) {
	doc := xmlSessions{}
	for i, run := range group(entries) {
		iv := xmlInterviewer{ID: i + 1, Name: run[0].Interviewer}
		for j, e := range run {
			question := e.Question
			c := xmlConversation{
				Number:     j + 1,
				Answer:     answerText(e),
				Evaluation: evaluationText(e),
			}
			if e.FollowUp {
				c.FollowUp = &question
			} else {
				c.Question = &question
			}
			iv.Conversations = append(iv.Conversations, c)
		}
		doc.Interviewers = append(doc.Interviewers, iv)
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript xml: %w", err)
	}
	return string(data), nil
}

// Markdown renders the conversation history for reading
func Markdown(entries []interview.TranscriptEntry) string {
	var b strings.Builder
	b.WriteString("#### Full conversation\n")
	for _, run := range group(entries) {
		fmt.Fprintf(&b, "\n### Interviewer: %s\n\n", run[0].Interviewer)
		for _, e := range run {
			label := "Question"
			if e.FollowUp {
				label = "Follow-up question"
			}
			fmt.Fprintf(&b, "**%s:** %s\n\n", label, e.Question)
			fmt.Fprintf(&b, "**Answer:** %s\n\n", answerText(e))
			fmt.Fprintf(&b, "**Evaluation:** %s\n\n", BreakBeforeNumbers(evaluationText(e)))
			b.WriteString("---\n")
		}
	}
	return b.String()
}

// BreakBeforeNumbers puts every run of digits on a new line unless it
// already starts one, so numbered lists in evaluations render as lists.
func BreakBeforeNumbers(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	for _, r := range s {
		if unicode.IsDigit(r) && !unicode.IsDigit(prev) && prev != '\n' {
			b.WriteByte('\n')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
