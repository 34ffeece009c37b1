package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil input", in: nil, want: []string{}},
		{name: "keeps first occurrence order", in: []string{"b", "a", "b", "c", "a"}, want: []string{"b", "a", "c"}},
		{name: "trims and drops blanks", in: []string{"  renew permit ", "", "   ", "renew permit"}, want: []string{"renew permit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Flatten([]string{"a"}, nil, []string{"b", "c"}))
	assert.Empty(t, Flatten())
}
