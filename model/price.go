package model

import (
	"fmt"
	"math"
	"strings"
)

// ParsePrice reads the leading integer of a price string such as
// "100 VND". ok is false when the string does not start with a number
// or the number does not fit in an int64.
func ParsePrice(price string) (n int64, ok bool) {
	s := strings.TrimLeft(price, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		d := int64(s[digits] - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, false
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// FormatPrice is the stored form of a price amount.
func FormatPrice(amount int64) string {
	return fmt.Sprintf("%d VND", amount)
}
