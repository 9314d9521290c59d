package llserr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Error(t *testing.T) {
	testCases := []struct {
		name string
		err  Error
		want string
	}{
		{
			name: "explicit message wins",
			err:  New("grammar not found", ErrNotFound),
			want: "grammar not found",
		},
		{
			name: "empty message falls back to joined causes",
			err:  New("", ErrNotFound, ErrBadArgument),
			want: "not found: bad argument",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.want, tc.err.Error())
		})
	}
}

func Test_Error_Is(t *testing.T) {
	assert := assert.New(t)

	err := New("grammar not found", ErrNotFound)
	assert.True(errors.Is(err, ErrNotFound))
	assert.False(errors.Is(err, ErrBadArgument))
}

func Test_WrapStore(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("disk full")
	err := WrapStore("could not save grammar", cause)

	assert.True(errors.Is(err, ErrStore))
	assert.True(errors.Is(err, cause))
	assert.Equal("could not save grammar", err.Error())
}
