package intexpr

import "github.com/edwingeng/deque"

// valueStack is the stack of resolved operands.
type valueStack struct {
	d deque.Deque
}

func newValueStack() valueStack {
	return valueStack{d: deque.NewDeque()}
}

func (s valueStack) push(v int64) {
	s.d.PushBack(v)
}

// pop removes the top value. ok is false if the stack is empty.
func (s valueStack) pop() (v int64, ok bool) {
	if s.d.Len() == 0 {
		return 0, false
	}
	return s.d.PopBack().(int64), true
}

func (s valueStack) len() int {
	return s.d.Len()
}

// opEntry is a pending operator or an open marker.
type opEntry struct {
	// op is one of Operators or OpenParen.
	op byte
	// col is the position of the operator in the input.
	col int
}

// opStack is the stack of pending operators and open markers.
type opStack struct {
	d deque.Deque
}

func newOpStack() opStack {
	return opStack{d: deque.NewDeque()}
}

func (s opStack) push(e opEntry) {
	s.d.PushBack(e)
}

func (s opStack) pop() opEntry {
	return s.d.PopBack().(opEntry)
}

// top returns the top entry without removing it. Must not be called on an
// empty stack.
func (s opStack) top() opEntry {
	return s.d.Back().(opEntry)
}

func (s opStack) empty() bool {
	return s.d.Len() == 0
}
