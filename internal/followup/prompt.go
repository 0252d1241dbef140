package followup

import (
	"fmt"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// Directive is the user turn sent alongside the judgement prompt
const Directive = "answer analysis and response"

// BuildPrompt creates the system prompt used to judge one answer. An empty
// language asks for the language of the question.
func BuildPrompt(persona *interview.Persona, question, answer, language string) string {
	var name, position string
	if persona != nil {
		name, position = persona.Name, persona.PositionExperience
	}
	if language == "" {
		language = "the language of the question"
	}

	return fmt.Sprintf(`You are %s, %s.

Current question: %s
Candidate's answer: %s

Analyze the answer based on the following criteria:
1. Completeness: Is the answer complete or missing important details?
2. Clarity: Is any part of the answer unclear or ambiguous?
3. Technical depth: Does the answer demonstrate sufficient technical understanding?
4. Relevance: Does the answer directly address the question?

If additional verification of the candidate's answer is needed, generate a follow-up question.
Ensure that the follow-up question is not the same as the current question and addresses different aspects that require further clarification or verification.

Follow-up questions are not needed if:
- The question is about a topic the candidate does not know or cannot answer.
- The candidate's response is insincere or not relevant to the question.
- The candidate's response is not technical or does not demonstrate sufficient technical understanding.

Respond with a JSON object:
{"need_followup": <true|false>, "followup_question": "<question, empty when not needed>", "evaluation": "<why a follow-up is needed, or the final assessment of the answer>"}

Write in a concise and clear manner, using simple and straightforward sentences in %s.`,
		name, position, question, answer, language)
}
