package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	err := newError(CodeNotFound, "auth1")
	require.EqualError(t, err, "authority not found: auth1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrAlreadyExists)

	wrapped := fmt.Errorf("deactivate: %w", err)
	require.ErrorIs(t, wrapped, ErrNotFound)
	require.Equal(t, CodeNotFound, CodeOf(wrapped))

	require.EqualError(t, newError(CodeUnauthorized, ""), "caller is not the registry owner")
	require.Zero(t, CodeOf(errors.New("some error")))
	require.Zero(t, CodeOf(nil))
}

func TestCode_String(t *testing.T) {
	require.Equal(t, "UNAUTHORIZED", CodeUnauthorized.String())
	require.Equal(t, "ALREADY_EXISTS", CodeAlreadyExists.String())
	require.Equal(t, "NOT_FOUND", CodeNotFound.String())
	require.Equal(t, "UNKNOWN", Code(0).String())
	require.EqualValues(t, 1, CodeUnauthorized)
	require.EqualValues(t, 2, CodeAlreadyExists)
	require.EqualValues(t, 3, CodeNotFound)
}

func TestErrorFromMessage(t *testing.T) {
	for _, c := range []Code{CodeUnauthorized, CodeAlreadyExists, CodeNotFound} {
		msg := "at instruction 1234 (THROW): unhandled exception: \"" + c.message() + "\""
		err := ErrorFromMessage(msg)
		require.Error(t, err)
		require.Equal(t, c, CodeOf(err))
	}
	require.NoError(t, ErrorFromMessage("invalid owner"))
	require.NoError(t, ErrorFromMessage(""))
}
