package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuhn_Validate(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"valid visa", "4539148803436467", true},
		{"last digit perturbed", "4539148803436468", false},
		{"valid mastercard", "5555555555554444", true},
		{"valid amex", "378282246310005", true},
		{"valid discover", "6011111111111117", true},
		{"valid diners", "30569309025904", true},
		{"separators are stripped", "4539 1488 0343 6467", true},
		{"dashes are stripped", "4539-1488-0343-6467", true},
		{"doubling folds two-digit products", "18", true},
		{"single zero", "0", true},
		{"no digits", "abcd", false},
		{"empty", "", false},
	}

	v := Luhn{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.candidate))
		})
	}
}

// Any single-digit change to a valid number must fail the checksum.
func TestLuhn_SingleDigitPerturbation(t *testing.T) {
	valid := []string{
		"4539148803436467",
		"5555555555554444",
		"4111111111111111",
		"6011000990139424",
	}

	v := Luhn{}
	for _, number := range valid {
		assert.True(t, v.Validate(number), number)
		for pos := 0; pos < len(number); pos++ {
			for delta := 1; delta <= 9; delta++ {
				b := []byte(number)
				b[pos] = byte('0' + (int(b[pos]-'0')+delta)%10)
				assert.False(t, v.Validate(string(b)), "%s perturbed at %d by %d", number, pos, delta)
			}
		}
	}
}
