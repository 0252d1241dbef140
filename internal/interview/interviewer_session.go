package interview

import "fmt"

// AppendIndex makes AddConversation append at the end of the session
const AppendIndex = -1

// InterviewerSession holds the ordered conversation of one interviewer
type InterviewerSession struct {
	interviewer *Persona
	chain       *chain
	current     *Node
	status      Status
}

// NewInterviewerSession builds a session whose nodes follow the question order
func NewInterviewerSession(persona *Persona, questions []Question) *InterviewerSession {
	s := &InterviewerSession{
		interviewer: persona,
		status:      StatusWaiting,
	}
	s.chain = &chain{owner: s}
	for _, q := range questions {
		s.chain.insert(len(s.chain.nodes), NewNode(q.Text, q.Purpose))
	}
	s.current = s.chain.at(0)
	return s
}

// Interviewer returns the persona conducting this session
func (s *InterviewerSession) Interviewer() *Persona { return s.interviewer }

// Name returns the interviewer's name
func (s *InterviewerSession) Name() string {
	if s.interviewer == nil {
		return ""
	}
	return s.interviewer.Name
}

// Len returns the number of nodes
func (s *InterviewerSession) Len() int { return len(s.chain.nodes) }

// Node returns the node at index i
func (s *InterviewerSession) Node(i int) (*Node, error) {
	n := s.chain.at(i)
	if n == nil {
		return nil, &IndexError{Kind: "question", Index: i, Len: s.Len()}
	}
	return n, nil
}

// Nodes returns the nodes in interview order
func (s *InterviewerSession) Nodes() []*Node {
	out := make([]*Node, len(s.chain.nodes))
	copy(out, s.chain.nodes)
	return out
}

// IndexOf returns the position of n in this session, -1 if it belongs elsewhere
func (s *InterviewerSession) IndexOf(n *Node) int {
	if n == nil || n.chain != s.chain {
		return -1
	}
	return n.pos
}

// Current returns the node being asked, nil once exhausted
func (s *InterviewerSession) Current() *Node { return s.current }

// Status returns the session status
func (s *InterviewerSession) Status() Status { return s.status }

// IsCompleted reports whether the session ran out of questions
func (s *InterviewerSession) IsCompleted() bool { return s.status == StatusCompleted }

// Start moves a waiting session into progress
func (s *InterviewerSession) Start() {
	if s.status == StatusWaiting {
		s.status = StatusInProgress
	}
}

// Complete marks the session completed
func (s *InterviewerSession) Complete() { s.status = StatusCompleted }

// AdvanceToNext moves the cursor forward or completes the session when there
// is nothing left to ask.
func (s *InterviewerSession) AdvanceToNext() {
	if s.current != nil && s.current.Next() != nil {
		s.current = s.current.Next()
		return
	}
	s.status = StatusCompleted
}

// AddConversation inserts n at index. A negative index or one at or past the
// end appends. The node is taken out of any chain it was part of.
func (s *InterviewerSession) AddConversation(n *Node, index int) {
	wasEmpty := s.Len() == 0
	if index < 0 || index >= s.Len() {
		index = s.Len()
	}
	s.chain.insert(index, n)
	if wasEmpty {
		s.current = n
	}
}

// CheckLinks verifies that link order and index order agree and that the
// chain terminates.
func (s *InterviewerSession) CheckLinks() error {
	for i, n := range s.chain.nodes {
		if n.chain != s.chain {
			return &CycleError{Interviewer: s.Name(), Position: i, Reason: "node belongs to another chain"}
		}
		if n.pos != i {
			return &CycleError{Interviewer: s.Name(), Position: i, Reason: fmt.Sprintf("node records position %d", n.pos)}
		}
	}
	if first := s.chain.at(0); first != nil && first.HasCycle() {
		return &CycleError{Interviewer: s.Name(), Position: 0, Reason: "next links loop"}
	}
	return nil
}
