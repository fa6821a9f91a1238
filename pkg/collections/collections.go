package collections

import "golang.org/x/exp/constraints"

// Number covers every type a Clamp bound can take.
type Number interface {
	constraints.Integer | constraints.Float
}

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}
	return result
}

// Clamp pins v to the inclusive range [lo, hi].
func Clamp[N Number](v, lo, hi N) N {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
