package interview

// TranscriptEntry is one exported question/answer pair
type TranscriptEntry struct {
	InterviewerIndex int    `json:"interviewer_index"`
	Interviewer      string `json:"interviewer_name"`
	Question         string `json:"question_text"`
	Answer           string `json:"answer"`
	Answered         bool   `json:"answered"`
	Purpose          string `json:"evaluation_or_purpose"`
	FollowUp         bool   `json:"follow_up"`
}

// Transcript exports every node in interview order
func (s *Session) Transcript() []TranscriptEntry {
	entries := make([]TranscriptEntry, 0, s.NodeCount())
	for i, is := range s.interviewers {
		for _, n := range is.Nodes() {
			answer, answered := n.Answer()
			entries = append(entries, TranscriptEntry{
				InterviewerIndex: i,
				Interviewer:      is.Name(),
				Question:         n.Question(),
				Answer:           answer,
				Answered:         answered,
				Purpose:          n.Purpose(),
				FollowUp:         n.IsFollowUp(),
			})
		}
	}
	return entries
}
