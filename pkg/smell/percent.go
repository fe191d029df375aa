package smell

// PercentOf returns the whole percentage of items for which pred holds,
// truncated toward zero. An empty slice is 0%.
func PercentOf[T any](items []T, pred func(T) bool) int {
	if len(items) == 0 {
		return 0
	}
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n * 100 / len(items)
}
