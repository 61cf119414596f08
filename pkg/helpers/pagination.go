package helpers

import (
	"math"
	"strconv"
)

// ParsePage reads a 1-indexed page number; anything missing, malformed or
// below 1 becomes 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset returns how many rows precede the given 1-indexed page. A page too
// large to address saturates at math.MaxInt, which lies past any result set.
func Offset(page, perPage int) int {
	if page < 1 || perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// TotalPages is ceil(total/perPage).
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
