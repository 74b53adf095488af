package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	first := errors.New("first")
	second := errors.New("second")
	err := Combine(first, nil, second)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestRecoverSwallowsPanic(t *testing.T) {
	run := func() (ok bool) {
		defer Recover("test")
		panic("boom")
	}
	assert.False(t, run())
}

func TestNewErrorf(t *testing.T) {
	assert.EqualError(t, NewErrorf("post %d not found", 3), "post 3 not found")
}
