package validator

// Luhn validates payment card numbers with the Luhn mod-10 checksum.
type Luhn struct{}

// Name returns "luhn".
func (Luhn) Name() string { return "luhn" }

// Validate strips candidate to its digits and checks the Luhn checksum.
// Counting from the rightmost digit, digits at odd positions are summed as-is
// and digits at even positions are doubled with the two digits of any
// two-digit product added together. A candidate without digits is invalid.
func (Luhn) Validate(candidate string) bool {
	digits := make([]int, 0, len(candidate))
	for _, r := range candidate {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) == 0 {
		return false
	}

	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if (len(digits)-1-i)%2 == 1 {
			d *= 2
			d = d/10 + d%10
		}
		sum += d
	}
	return sum%10 == 0
}
