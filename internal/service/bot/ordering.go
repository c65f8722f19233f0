package bot

import "sync"

var orderCache sync.Map // width -> []int

// CenterFirstOrder returns columns from the middle outwards, right of centre first:
// width 8 gives 4,3,5,2,6,1,7,0. The returned slice is shared and must not be modified.
func CenterFirstOrder(width int) []int {
	if cached, ok := orderCache.Load(width); ok {
		return cached.([]int)
	}

	order := make([]int, 0, width)
	right := width / 2
	left := right - 1
	for len(order) < width {
		if right < width {
			order = append(order, right)
			right++
		}
		if left >= 0 && len(order) < width {
			order = append(order, left)
			left--
		}
	}

	actual, _ := orderCache.LoadOrStore(width, order)
	return actual.([]int)
}
