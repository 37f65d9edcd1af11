package sanitize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "trims whitespace", in: "  Alice  ", want: "Alice"},
		{name: "strips angle brackets", in: "<script>alert(1)</script>", want: "scriptalert(1)/script"},
		{name: "brackets only", in: " <> ", want: ""},
		{name: "non-string number", in: 42.0, want: ""},
		{name: "nil", in: nil, want: ""},
		{name: "boolean", in: true, want: ""},
		{name: "inner whitespace kept", in: "a  b", want: "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.in))
		})
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@shop.example.com", "x+tag@d.io", "a@b.c.d"}
	invalid := []string{"", "bad-email", "a@b", "@b.co", "a@.co", "a b@c.co", "a@b@c.co", "a@b.", " a@b.co"}

	for _, s := range valid {
		assert.True(t, Email(s), "expected %q to be valid", s)
	}
	for _, s := range invalid {
		assert.False(t, Email(s), "expected %q to be invalid", s)
	}
}

func TestPresent(t *testing.T) {
	assert.True(t, Present("x"))
	assert.False(t, Present("   "))
	assert.False(t, Present("<>"))
	assert.False(t, Present(nil))
	assert.False(t, Present(12.0))
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		want      float64
		wantState NumberState
	}{
		{name: "nil", in: nil, wantState: NumberAbsent},
		{name: "empty string", in: "  ", wantState: NumberAbsent},
		{name: "float", in: 2.5, want: 2.5, wantState: NumberPresent},
		{name: "zero", in: 0.0, want: 0, wantState: NumberPresent},
		{name: "numeric string", in: " 12.75 ", want: 12.75, wantState: NumberPresent},
		{name: "json number", in: json.Number("3"), want: 3, wantState: NumberPresent},
		{name: "garbage string", in: "abc", wantState: NumberInvalid},
		{name: "boolean", in: true, wantState: NumberInvalid},
		{name: "object", in: map[string]any{}, wantState: NumberInvalid},
		{name: "NaN string", in: "NaN", wantState: NumberInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, state := Number(tt.in)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.want, got)
		})
	}
}
