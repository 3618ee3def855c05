package common

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
		{"plain sentinel", ErrNotFound, KindNotFound},
		{"wrapped", fmt.Errorf("get recipe: %w", ErrServerFault), KindServerFault},
		{"storage", fmt.Errorf("set token: %w", ErrStorageUnavailable), KindStorageUnavailable},
		{"foreign error", errors.New("boom"), KindUnknown},
		{"invalid credentials wins over unauthorized",
			fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrUnauthorized), KindInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_Sentinel(t *testing.T) {
	assert.Same(t, ErrUnauthorized, KindUnauthorized.Sentinel())
	assert.Same(t, ErrUnknown, Kind("bogus").Sentinel())
}
