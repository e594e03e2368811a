package semantic

// EventKind distinguishes the two marker kinds in an event stream; raw text
// runs are represented as plain strings alongside these markers.
type EventKind int

const (
	// Open marks the start of a node's span.
	Open EventKind = iota
	// Close marks the end of a node's span.
	Close
)

// Event is one element of a flattened stream: either an Open/Close marker
// for a node, or — when Node is nil — a raw text run carried in Text.
type Event struct {
	Kind EventKind
	Node *Node
	Text string
}

func openEvent(n *Node) Event  { return Event{Kind: Open, Node: n} }
func closeEvent(n *Node) Event { return Event{Kind: Close, Node: n} }
func textEvent(s string) Event { return Event{Text: s} }

// flattener linearizes a semantic tree into an event stream, splitting and
// reopening paragraphs around structural breaks per §4.5.
type flattener struct {
	events []Event
	pStack []*Node
}

// Flatten converts root's children into a linear event stream.
func Flatten(root *Node) []Event {
	f := &flattener{}
	for _, item := range root.Content {
		f.visit(item)
	}
	return f.events
}

func (f *flattener) top() *Node {
	if len(f.pStack) == 0 {
		return nil
	}
	return f.pStack[len(f.pStack)-1]
}

func (f *flattener) closeTop() {
	if p := f.top(); p != nil {
		f.events = append(f.events, closeEvent(p))
	}
}

func (f *flattener) reopenTop() {
	if p := f.top(); p != nil {
		f.events = append(f.events, openEvent(p))
	}
}

func (f *flattener) visit(item any) {
	if s, ok := item.(string); ok {
		f.events = append(f.events, textEvent(s))
		return
	}
	n := item.(*Node)

	switch {
	case n.Tag == TagP:
		f.closeTop()
		f.pStack = append(f.pStack, n)
		f.events = append(f.events, openEvent(n))
		for _, child := range n.Content {
			f.visit(child)
		}
		f.events = append(f.events, closeEvent(n))
		f.pStack = f.pStack[:len(f.pStack)-1]
		f.reopenTop()

	case structuralTags[n.Tag]:
		f.closeTop()
		f.events = append(f.events, openEvent(n))
		f.reopenTop()
		for _, child := range n.Content {
			f.visit(child)
		}
		f.closeTop()
		f.events = append(f.events, closeEvent(n))
		f.reopenTop()

	default:
		f.events = append(f.events, openEvent(n))
		for _, child := range n.Content {
			f.visit(child)
		}
		f.events = append(f.events, closeEvent(n))
	}
}
