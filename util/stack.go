package util

// Stack is a LIFO used for navigation trails. The zero value is ready to use.
type Stack[T any] []T

func (s *Stack[T]) Push(item T) {
	*s = append(*s, item)
}

// Pop removes the top item. An empty stack yields the zero value.
func (s *Stack[T]) Pop() (item T) {
	n := len(*s)
	if n == 0 {
		return
	}
	item, *s = (*s)[n-1], (*s)[:n-1]
	return
}

func (s *Stack[T]) Len() int {
	return len(*s)
}

func (s *Stack[T]) Clear() {
	*s = (*s)[:0]
}
