package utils

import (
	"strconv"
)

// StringToUint converts a route param to uint, returns false on bad input
func StringToUint(s string) (uint, bool) {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(i), true
}
