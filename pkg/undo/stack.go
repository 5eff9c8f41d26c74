package undo

import "slices"

// DefaultLimit bounds the number of entries kept by [New] when limit <= 0.
const DefaultLimit = 256

type step struct {
	do   func()
	undo func()
}

// Entry is one undoable unit, possibly made of several recorded steps.
type Entry struct {
	Name  string
	steps []step
}

// Len returns the number of steps folded into the entry.
func (e *Entry) Len() int { return len(e.steps) }

// Stack is an undo/redo history. It is not safe for concurrent use.
type Stack struct {
	limit int
	undo  []*Entry
	redo  []*Entry

	open  *Entry
	depth int
}

// New returns an empty stack that keeps at most limit entries.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Record stores a change that has already been applied. Inside a
// Begin/Commit pair the step joins the open entry.
func (s *Stack) Record(name string, do, undo func()) {
	st := step{do: do, undo: undo}
	if s.open != nil {
		s.open.steps = append(s.open.steps, st)
		return
	}
	s.push(&Entry{Name: name, steps: []step{st}})
}

// Do applies do and records it.
func (s *Stack) Do(name string, do, undo func()) {
	do()
	s.Record(name, do, undo)
}

// Begin opens a group. Nested calls join the outermost group.
func (s *Stack) Begin(name string) {
	if s.depth == 0 {
		s.open = &Entry{Name: name}
	}
	s.depth++
}

// Commit closes the group opened by the matching Begin. The group is
// pushed as one entry when the outermost group closes and holds at least
// one step.
func (s *Stack) Commit() {
	if s.depth == 0 {
		return
	}
	s.depth--
	if s.depth > 0 {
		return
	}
	e := s.open
	s.open = nil
	if len(e.steps) > 0 {
		s.push(e)
	}
}

// Discard closes every open group, reverting the steps recorded in it.
func (s *Stack) Discard() {
	if s.open == nil {
		return
	}
	revert(s.open)
	s.open = nil
	s.depth = 0
}

// Grouping reports whether a group is open.
func (s *Stack) Grouping() bool { return s.depth > 0 }

func (s *Stack) push(e *Entry) {
	s.undo = append(s.undo, e)
	if over := len(s.undo) - s.limit; over > 0 {
		s.undo = slices.Delete(s.undo, 0, over)
	}
	s.redo = nil
}

// Undo reverts the most recent entry and returns its name.
func (s *Stack) Undo() (string, bool) {
	if len(s.undo) == 0 || s.open != nil {
		return "", false
	}
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	revert(e)
	s.redo = append(s.redo, e)
	return e.Name, true
}

// Redo reapplies the most recently undone entry and returns its name.
func (s *Stack) Redo() (string, bool) {
	if len(s.redo) == 0 || s.open != nil {
		return "", false
	}
	e := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	for _, st := range e.steps {
		st.do()
	}
	s.undo = append(s.undo, e)
	return e.Name, true
}

func revert(e *Entry) {
	for i := len(e.steps) - 1; i >= 0; i-- {
		e.steps[i].undo()
	}
}

// CanUndo reports whether Undo would do anything.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 && s.open == nil }

// CanRedo reports whether Redo would do anything.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 && s.open == nil }

// Len returns the number of undoable entries.
func (s *Stack) Len() int { return len(s.undo) }

// Peek returns the entry Undo would revert, or nil.
func (s *Stack) Peek() *Entry {
	if len(s.undo) == 0 {
		return nil
	}
	return s.undo[len(s.undo)-1]
}

// Names returns the undoable entry names, oldest first.
func (s *Stack) Names() []string {
	names := make([]string, len(s.undo))
	for i, e := range s.undo {
		names[i] = e.Name
	}
	return names
}

// Clear drops all history, including any open group.
func (s *Stack) Clear() {
	s.undo, s.redo = nil, nil
	s.open, s.depth = nil, 0
}
