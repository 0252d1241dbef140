package interview

import "fmt"

// Status is the lifecycle state shared by interviewer sessions and interview sessions
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Persona describes one generated interviewer
type Persona struct {
	Name               string `json:"name"`
	Affiliation        string `json:"affiliation"`
	PositionExperience string `json:"position_experience"`
	MainTasks          string `json:"main_tasks"`
	Description        string `json:"description"`
}

// Summary renders the persona as a single line for prompts
func (p Persona) Summary() string {
	return fmt.Sprintf("Name: %s, Position: %s, Affiliation: %s, Main Tasks: %s, Description: %s",
		p.Name, p.PositionExperience, p.Affiliation, p.MainTasks, p.Description)
}

// Question is one generated question before it becomes a node
type Question struct {
	Text    string `json:"question"`
	Purpose string `json:"purpose"`
}
