package feed

// Split bounds a displayed collection to a fixed head, deferring the rest
// to on-demand disclosure. The profile feed shows 3, the establishment
// page's other-reviews list shows 2. head ∪ tail, in order, is always the
// full input.
func Split[T any](items []T, head int) (top, truncated []T) {
	if head < 0 {
		head = 0
	}
	if head > len(items) {
		head = len(items)
	}
	return items[:head], items[head:]
}
