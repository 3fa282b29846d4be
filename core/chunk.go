package core

// Chunk splits items into consecutive groups of at most size elements.
// A non-positive size yields a single group.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	groups := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		items, groups = items[size:], append(groups, items[:size:size])
	}
	return append(groups, items)
}
