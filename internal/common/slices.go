package common

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// NonEmpty returns the elements of s that are not the zero value, in order.
func NonEmpty[S ~[]E, E comparable](s S) S {
	var zero E

	out := make(S, 0, len(s))

	for _, v := range s {
		if v != zero {
			out = append(out, v)
		}
	}

	return out
}
