package utility

// Contains reports whether item is in slice.
func Contains[T comparable](slice []T, item T) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the first index of item in slice, or -1.
func IndexOf[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// OrderBy arranges items in the order their keys appear in keys. Items whose key is
// absent from keys are dropped; keys without an item are skipped.
func OrderBy[T any, K comparable](items []T, keys []K, key func(T) K) []T {
	byKey := make(map[K]T, len(items))
	for _, item := range items {
		byKey[key(item)] = item
	}
	out := make([]T, 0, len(items))
	for _, k := range keys {
		if item, ok := byKey[k]; ok {
			out = append(out, item)
		}
	}
	return out
}
