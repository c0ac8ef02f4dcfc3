package errors

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailuresKeepKindAndCause(t *testing.T) {
	tests := map[string]struct {
		err   error
		kind  error
		cause error
		code  string
	}{
		"fetch": {
			err:   FetchFailure(ErrNotFound, "page-1"),
			kind:  ErrFetchFailure,
			cause: ErrNotFound,
			code:  CodeFetchFailure,
		},
		"generation": {
			err:   GenerationFailure(ErrRateLimited, "twitter", "mastodon"),
			kind:  ErrGenerationFailure,
			cause: ErrRateLimited,
			code:  CodeGenerationFailure,
		},
		"publish": {
			err:   PublishFailure(ErrAuthFailure, "mastodon"),
			kind:  ErrPublishFailure,
			cause: ErrAuthFailure,
			code:  CodePublishFailure,
		},
		"channel": {
			err:   ChannelFailure(ErrTimeout),
			kind:  ErrChannelFailure,
			cause: ErrTimeout,
			code:  CodeChannelFailure,
		},
		"search": {
			err:   SearchFailure(ErrRateLimited, "golang"),
			kind:  ErrSearchFailure,
			cause: ErrRateLimited,
			code:  CodeSearchFailure,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.True(t, errors.Is(tt.err, tt.cause))

			oopsErr, ok := oops.AsOops(tt.err)
			require.True(t, ok)
			assert.EqualValues(t, tt.code, oopsErr.Code())
		})
	}
}

func TestFailureWithoutCause(t *testing.T) {
	err := GenerationFailure(nil, "reply-1")

	assert.True(t, errors.Is(err, ErrGenerationFailure))
	assert.False(t, errors.Is(err, ErrMalformedResponse))
}

func TestLimitExceeded(t *testing.T) {
	err := LimitExceeded("twitter", 300, 280)

	assert.True(t, errors.Is(err, ErrLimitExceeded))
	assert.Contains(t, err.Error(), "300 > 280")
}
