package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{fmt.Errorf("%w: invalid JSON", ErrMalformedTurn), KindProtocol},
		{ErrMissingContentLength, KindProtocol},
		{fmt.Errorf("read: %w", ErrBodyTooLarge), KindProtocol},
		{fmt.Errorf("%w: %w", ErrEngineFailed, errors.New("boom")), KindEngine},
		{ErrEnginePanic, KindEngine},
		{fmt.Errorf("%w: missing state", ErrInvalidTurnInput), KindEngine},
		{errors.New("disk full"), KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), "%v", tc.err)
	}
}
