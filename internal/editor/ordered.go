package editor

// orderedList keeps items addressable by stable id while preserving the
// display order separately, so positions can change without touching ids.
type orderedList[T any] struct {
	order []string
	items map[string]*T
}

func newOrderedList[T any]() *orderedList[T] {
	return &orderedList[T]{items: make(map[string]*T)}
}

func (l *orderedList[T]) len() int {
	return len(l.order)
}

func (l *orderedList[T]) has(id string) bool {
	_, ok := l.items[id]
	return ok
}

func (l *orderedList[T]) at(i int) (*T, bool) {
	if i < 0 || i >= len(l.order) {
		return nil, false
	}
	return l.items[l.order[i]], true
}

func (l *orderedList[T]) idAt(i int) (string, bool) {
	if i < 0 || i >= len(l.order) {
		return "", false
	}
	return l.order[i], true
}

func (l *orderedList[T]) push(id string, item *T) {
	l.order = append(l.order, id)
	l.items[id] = item
}

func (l *orderedList[T]) removeAt(i int) bool {
	if i < 0 || i >= len(l.order) {
		return false
	}
	delete(l.items, l.order[i])
	l.order = append(l.order[:i:i], l.order[i+1:]...)
	return true
}

func (l *orderedList[T]) move(from, to int) bool {
	n := len(l.order)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	id := l.order[from]
	rest := append(l.order[:from:from], l.order[from+1:]...)
	moved := make([]string, 0, n)
	moved = append(moved, rest[:to]...)
	moved = append(moved, id)
	moved = append(moved, rest[to:]...)
	l.order = moved
	return true
}

func (l *orderedList[T]) each(fn func(id string, item *T)) {
	for _, id := range l.order {
		fn(id, l.items[id])
	}
}
