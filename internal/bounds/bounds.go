// Package bounds provides bounds-checked slice access.
package bounds

// At returns s[i] when i is in range, otherwise the zero value and false.
func At[E any](s []E, i int) (E, bool) {
	if !InRange(len(s), i) {
		var zero E
		return zero, false
	}
	return s[i], true
}

// InRange reports whether i is a valid index for a sequence of length n.
func InRange(n, i int) bool {
	return i >= 0 && i < n
}
