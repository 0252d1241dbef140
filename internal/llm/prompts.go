package llm

import (
	"fmt"
	"strings"

	"github.com/kfreiman/mockinterview/internal/interview"
)

const personaPrompt = `You are tasked with creating a set of Interviewer personas.

Follow these instructions carefully:
1. First, read the Job Description(JD) provided by the user.
%s

2. Examine any editorial feedback that has been optionally provided to guide creation of the Interviewer personas:
%s

3. Determine the most important aspects of the JD and the most relevant concerns of the interviewee and / or feedback above.

4. Pick the top %d interviewers personas.

5. Assign one Interviewer persona to each interviewer.

6. Write in a concise and clear manner, using simple and straightforward sentences in %s.

Respond with a JSON object of the form:
{"interviewers": [{"name": "", "affiliation": "", "position_experience": "", "main_tasks": "", "description": ""}]}`

const personaDirective = "Generate the interviewers personas."

const questionPrompt = `You are an interviewer with the following persona:
Name: %s
Position: %s
Main Tasks: %s

Your interview style and focus: %s

Please review the candidate's resume:
%s
%s
Based on your role, experience, and concerns as described in your persona, generate 2-3 relevant interview questions.
Write in a concise and clear manner, using simple and straightforward sentences in %s.

Respond with a JSON object of the form:
{"questions": [{"question": "", "purpose": ""}]}`

const questionDirective = "Generate relevant interview questions based on your persona and the candidate's resume."

const evaluatePrompt = `You are a professional interview evaluator specializing in preparing candidates for job interviews.
You will review a mock interview transcript and provide comprehensive feedback on the answers based on the following criteria:

1. Clarity of communication
2. Depth of subject knowledge
3. Relevance to the question asked
4. Professionalism and confidence in delivery
5. Memorable examples or anecdotes (if any)
6. Overall impression and areas for improvement

For each response offer detailed constructive feedback, focusing on how the candidate can enhance their performance. Use real-world examples and practical suggestions. Highlight strengths and weaknesses and give clear guidance on how to improve in each of the criteria listed above, plus any other insight that can help the candidate become stronger. If needed, suggest follow-up resources or exercises to practice.

Remember:

- Always respond in %s.
- Maintain a supportive and encouraging tone.
- Provide examples and specific suggestions for improvement whenever possible.
- Result format is markdown and largest heading is h3.

The transcript is given as XML by the user.`

// BuildPersonaPrompt renders the persona generation system prompt
func BuildPersonaPrompt(jobDescription, feedback string, max int, language string) string {
	return fmt.Sprintf(personaPrompt, jobDescription, feedback, max, language)
}

// BuildQuestionPrompt renders the question generation system prompt
func BuildQuestionPrompt(p interview.Persona, resume string, focusAreas []string, language string) string {
	focus := ""
	if len(focusAreas) > 0 {
		focus = "\nThe job asks for the following that the resume does not clearly show; probe them where relevant:\n- " +
			strings.Join(focusAreas, "\n- ") + "\n"
	}
	return fmt.Sprintf(questionPrompt, p.Name, p.PositionExperience, p.MainTasks, p.Description, resume, focus, language)
}

// BuildEvaluatePrompt renders the evaluator system prompt
func BuildEvaluatePrompt(language string) string {
	return fmt.Sprintf(evaluatePrompt, language)
}
