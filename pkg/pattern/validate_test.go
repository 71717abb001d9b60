package pattern

import (
	"testing"

	"github.com/praetorian-inc/piihunter/pkg/types"
	"github.com/praetorian-inc/piihunter/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateSpec(t *testing.T) {
	assert.Error(t, ValidateSpec(nil))
	assert.Error(t, ValidateSpec(&Spec{Name: "x", Pattern: "x"}))
	assert.Error(t, ValidateSpec(&Spec{ID: types.Email, Pattern: "x"}))
	assert.Error(t, ValidateSpec(&Spec{ID: types.Email, Name: "x"}))
	assert.NoError(t, ValidateSpec(&Spec{ID: types.Email, Name: "x", Pattern: "x"}))
}

func TestCheckExamples(t *testing.T) {
	s := MustSpec(types.CreditCard, "Card", "1", `\b\d{16}\b`, validator.Luhn{})

	s.Examples = []string{"4539148803436467"}
	s.NegativeExamples = []string{"4539148803436468"}
	assert.NoError(t, CheckExamples(s))

	s.Examples = []string{"4539148803436468"}
	assert.ErrorContains(t, CheckExamples(s), "does not match")

	s.Examples = nil
	s.NegativeExamples = []string{"4539148803436467"}
	assert.ErrorContains(t, CheckExamples(s), "negative example")
}

func TestSpec_Accept(t *testing.T) {
	plain := MustSpec(types.Email, "Email", "2", `@`, nil)
	assert.True(t, plain.Accept("anything"))
	assert.Empty(t, plain.ValidatorName())

	card := MustSpec(types.CreditCard, "Card", "1", `\d+`, validator.Luhn{})
	assert.True(t, card.Accept("4539148803436467"))
	assert.False(t, card.Accept("4539148803436468"))
}

func TestNewSpec_BadPattern(t *testing.T) {
	_, err := NewSpec(types.Email, "Email", "2", `(?<`, nil)
	assert.Error(t, err)
	assert.Panics(t, func() { MustSpec(types.Email, "Email", "2", `(?<`, nil) })
}
