package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_EmptyAllowsEveryone(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())

	assert.True(t, c.Allows("anyone@anywhere.org"))
	assert.True(t, c.Allows("not-an-address"))
}

func TestChecker_Allows(t *testing.T) {
	c := NewChecker([]string{" Example.com ", "@corp.io", ""}, zap.NewNop())

	tests := []struct {
		from string
		want bool
	}{
		{"user@example.com", true},
		{"USER@EXAMPLE.COM", true},
		{"<user@example.com>", true},
		{"user@mail.example.com", true},
		{"user@corp.io", true},
		{"user@notexample.com", false},
		{"user@other.org", false},
		{"user@", false},
		{"no-at-sign", false},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Allows(tt.from))
		})
	}
}
