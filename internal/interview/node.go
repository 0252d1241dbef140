package interview

import "slices"

// chain is the arena that owns a run of nodes; a node's successor is the
// element after it in the arena.
type chain struct {
	nodes []*Node
	owner *InterviewerSession
}

func (c *chain) at(i int) *Node {
	if i < 0 || i >= len(c.nodes) {
		return nil
	}
	return c.nodes[i]
}

func (c *chain) renumber(from int) {
	for i := from; i < len(c.nodes); i++ {
		c.nodes[i].pos = i
	}
}

// insert places n at index i, clamped to the arena length
func (c *chain) insert(i int, n *Node) {
	n.detach()
	if i < 0 || i > len(c.nodes) {
		i = len(c.nodes)
	}
	c.nodes = slices.Insert(c.nodes, i, n)
	n.chain = c
	c.renumber(i)
}

// remove unlinks the node at index i and returns it detached
func (c *chain) remove(i int) *Node {
	n := c.nodes[i]
	c.nodes = slices.Delete(c.nodes, i, i+1)
	c.renumber(i)
	if c.owner != nil && c.owner.current == n {
		c.owner.current = c.at(i)
	}
	n.chain, n.pos = nil, 0
	return n
}

// Node is a single question/answer unit of an interview
type Node struct {
	question      string
	intent        string
	evaluation    string
	answer        string
	answered      bool
	followUpCount int
	followUp      bool
	origin        *Node

	chain *chain
	pos   int
}

// NewNode creates a detached node
func NewNode(question, intent string) *Node {
	return &Node{question: question, intent: intent}
}

// NewFollowUpNode creates a detached follow-up to parent. It shares the
// origin of parent, which is the originally generated question.
func NewFollowUpNode(parent *Node, question, intent string) *Node {
	n := NewNode(question, intent)
	n.followUp = true
	if parent != nil {
		n.origin = parent.Origin()
	}
	return n
}

// Question returns the question text
func (n *Node) Question() string { return n.question }

// Intent returns the label describing why the question is asked
func (n *Node) Intent() string { return n.intent }

// Evaluation returns the final assessment, empty while unresolved
func (n *Node) Evaluation() string { return n.evaluation }

// SetEvaluation records the final assessment of the answer
func (n *Node) SetEvaluation(evaluation string) { n.evaluation = evaluation }

// Purpose returns the evaluation once present and the intent before that
func (n *Node) Purpose() string {
	if n.evaluation != "" {
		return n.evaluation
	}
	return n.intent
}

// Answer returns the recorded answer and whether one was recorded
func (n *Node) Answer() (string, bool) { return n.answer, n.answered }

// Answered reports whether an answer was recorded
func (n *Node) Answered() bool { return n.answered }

// RecordAnswer stores the answer; a node accepts exactly one answer
func (n *Node) RecordAnswer(answer string) error {
	if n.answered {
		return ErrAnswerRecorded
	}
	n.answer = answer
	n.answered = true
	return nil
}

// FollowUpCount returns how many follow-ups were generated off this node
func (n *Node) FollowUpCount() int { return n.followUpCount }

// RecordFollowUp increments the follow-up counter
func (n *Node) RecordFollowUp() { n.followUpCount++ }

// Origin returns the generated question this node descends from, n itself
// for generated questions.
func (n *Node) Origin() *Node {
	if n.origin == nil {
		return n
	}
	return n.origin
}

// IsFollowUp reports whether the node was generated as a follow-up
func (n *Node) IsFollowUp() bool { return n.followUp }

// Position returns the node's index within its chain, -1 when detached
func (n *Node) Position() int {
	if n.chain == nil {
		return -1
	}
	return n.pos
}

// Next returns the successor, nil at the end of the chain
func (n *Node) Next() *Node {
	if n.chain == nil {
		return nil
	}
	return n.chain.at(n.pos + 1)
}

// InsertAfter splices a new node between n and its current successor
func (n *Node) InsertAfter(question, intent string) *Node {
	if n.chain == nil {
		c := &chain{}
		c.insert(0, n)
	}
	inserted := NewNode(question, intent)
	n.chain.insert(n.pos+1, inserted)
	return inserted
}

// DeleteNext removes the successor of n; no-op without one
func (n *Node) DeleteNext() {
	if n.Next() == nil {
		return
	}
	n.chain.remove(n.pos + 1)
}

// HasCycle walks the chain from n with a slow and a fast cursor and reports
// whether they ever meet.
func (n *Node) HasCycle() bool {
	slow, fast := n, n.Next()
	for fast != nil && fast.Next() != nil {
		if slow == fast {
			return true
		}
		slow = slow.Next()
		fast = fast.Next().Next()
	}
	return false
}

// detach removes n from whatever chain currently holds it
func (n *Node) detach() {
	if n.chain == nil {
		return
	}
	if n.chain.at(n.pos) != n {
		n.chain, n.pos = nil, 0
		return
	}
	n.chain.remove(n.pos)
}
