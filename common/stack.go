package common

// Stack is a generic LIFO container.
// Zero-value ready: var s common.Stack[string].
type Stack[T any] struct {
	items []T
}

func NewStack[T any]() *Stack[T] { return &Stack[T]{} }

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// PushReversed pushes vs so that vs[0] is popped first.
func (s *Stack[T]) PushReversed(vs []T) {
	for i := len(vs) - 1; i >= 0; i-- {
		s.items = append(s.items, vs[i])
	}
}

// Pop removes and returns the top element.
// The bool result is false when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	idx := len(s.items) - 1
	v := s.items[idx]
	// Avoid memory leak for large reference types
	s.items[idx] = zero
	s.items = s.items[:idx]
	return v, true
}

func (s *Stack[T]) Len() int { return len(s.items) }

func (s *Stack[T]) Empty() bool { return len(s.items) == 0 }
