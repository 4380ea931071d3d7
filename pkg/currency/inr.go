// Package currency formats rupee amounts for display.
package currency

import "strconv"

// FormatINR renders whole rupees with Indian digit grouping, e.g. ₹1,25,000.
func FormatINR(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	out := tail
	for len(head) > 2 {
		out = head[len(head)-2:] + "," + out
		head = head[:len(head)-2]
	}
	return sign + "₹" + head + "," + out
}
