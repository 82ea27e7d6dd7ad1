package composer

import (
	"strconv"
	"strings"
)

// MaxQuantityDigits bounds the quantity field, as the input box does.
const MaxQuantityDigits = 5

// SanitizeQuantity keeps the digits of text and parses them. An empty
// field means 1; a field of zeros yields 0, which StageLine rejects.
func SanitizeQuantity(text string) int {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == MaxQuantityDigits {
				break
			}
		}
	}
	digits := b.String()
	if digits == "" {
		return 1
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
