package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"not found", NotFound("booking %s not found", "x"), KindNotFound},
		{"wrapped conflict", fmt.Errorf("hold: %w", Conflict("seat taken")), KindConflict},
		{"validation", Validation("age", "must be greater than 0"), KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "age: must be greater than 0", Validation("age", "must be greater than 0").Error())
	assert.Equal(t, "redis down: dial tcp", Internal("redis down", errors.New("dial tcp")).Error())
	assert.Equal(t, "InvalidState", (&Error{Kind: KindInvalidState}).Error())
}

func TestInternal_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("save booking", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsConflict(Conflict("x")))
	assert.False(t, IsNotFound(err))
}
