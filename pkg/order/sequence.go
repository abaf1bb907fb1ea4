package order

// twoWallOrders fixes the two-wall sequence per policy. With only two walls
// the outward middle phase is vacuous, so the middle-out entries are product
// choices rather than an instance of the general rule: outer-inner starts at
// the only interior wall, inner-outer prints the outer wall first.
var twoWallOrders = [...][2]int{
	InnerOuter:          {2, 1},
	OuterInner:          {1, 2},
	InnerOuterInner:     {2, 1},
	MiddleOutOuterInner: {2, 1},
	MiddleOutInnerOuter: {1, 2},
}

// Sequence returns the 1-based wall indices of one island in print order:
// index i refers to the wall at depth i-1. The result is a permutation of
// {1,...,wallCount}. Non-positive counts return nil and a single wall is
// always [1]; neither is an error.
//
// Sequence is pure and allocates exactly one slice.
func Sequence(wallCount int, policy Policy) []int {
	switch {
	case wallCount <= 0:
		return nil
	case wallCount == 1:
		return []int{1}
	case wallCount == 2:
		pair := twoWallOrders[policy]
		return []int{pair[0], pair[1]}
	}

	out := make([]int, 0, wallCount)
	switch policy {
	case InnerOuter:
		for i := wallCount; i >= 1; i-- {
			out = append(out, i)
		}
	case OuterInner:
		for i := 1; i <= wallCount; i++ {
			out = append(out, i)
		}
	case InnerOuterInner:
		out = append(out, 2, 1)
		for i := 3; i <= wallCount; i++ {
			out = append(out, i)
		}
	case MiddleOutOuterInner, MiddleOutInnerOuter:
		for i := 3; i <= wallCount; i++ {
			out = append(out, i)
		}
		if policy == MiddleOutOuterInner {
			out = append(out, 1, 2)
		} else {
			out = append(out, 2, 1)
		}
	}
	return out
}
