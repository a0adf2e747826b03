package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newTestChain() *Chain {
	v := validator.New()
	return NewChain("username", v).
		Require("empty").
		Add("length", "min=3,max=5").
		AddFunc("upper", func(value any) bool {
			s, _ := value.(string)
			return strings.ToLower(s) == s
		})
}

func TestChain_Validate(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantValid bool
		wantCodes []string
	}{
		{"valid", "abcd", true, nil},
		{"empty stops at gate", "", false, []string{"empty"}},
		{"too long", "abcdef", false, []string{"length"}},
		{"accumulates", "ABCDEF", false, []string{"length", "upper"}},
		{"single", "ABC", false, []string{"upper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestChain().Validate(tt.value)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantCodes, res.Codes)
		})
	}
}

func TestChain_StopOnFirstError(t *testing.T) {
	res := newTestChain().StopOnFirstError(true).Validate("ABCDEF")

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"length"}, res.Codes)
}

func TestChain_AddCompare(t *testing.T) {
	other := "secret99"
	c := NewChain("confirm", validator.New()).
		Require("empty").
		AddCompare("mismatch", "eqcsfield", func() any { return other })

	assert.True(t, c.Validate("secret99").Valid)
	assert.Equal(t, []string{"mismatch"}, c.Validate("secret98").Codes)

	other = "secret98"
	assert.True(t, c.Validate("secret98").Valid)
}

func TestChain_RequiredBool(t *testing.T) {
	c := NewChain("rules", validator.New()).Require("not_accepted")

	assert.True(t, c.Validate(true).Valid)
	assert.Equal(t, []string{"not_accepted"}, c.Validate(false).Codes)
}

func TestResult_HasCode(t *testing.T) {
	res := Result{Codes: []string{"a", "b"}}

	assert.True(t, res.HasCode("b"))
	assert.False(t, res.HasCode("c"))
}

func TestChain_String(t *testing.T) {
	c := newTestChain()

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "username", c.Name())
	assert.Equal(t, "Chain{name: username, rules: [empty length upper], stopOnFirstError: false}", c.String())
}
