package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	// h = h*31 + c over the case-folded runes, wrapping at 32 bits.
	assert.Equal(t, "96354", Hash("abc"))
	assert.Equal(t, Hash("abc"), Hash("ABC"), "input is case-folded before hashing")
	assert.Equal(t, "0", Hash(""))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
}

func TestGate_CorrectPassword(t *testing.T) {
	g := New(Hash("alohomora"))

	require.NoError(t, g.Try("Alohomora"))
	assert.False(t, g.Locked())
	assert.Equal(t, MaxAttempts, g.Remaining())
}

func TestGate_WrongPasswordCountsDown(t *testing.T) {
	g := New(Hash("alohomora"))

	err := g.Try("caput draconis")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
	assert.Equal(t, 2, g.Remaining())

	// A correct password still works while attempts remain.
	require.NoError(t, g.Try("alohomora"))
}

func TestGate_LocksAfterThreeFailures(t *testing.T) {
	g := New(Hash("alohomora"))

	require.Error(t, g.Try("wrong"))
	require.Error(t, g.Try("still wrong"))

	err := g.Try("wrong again")
	assert.ErrorIs(t, err, ErrLocked)
	assert.True(t, g.Locked())
	assert.Zero(t, g.Remaining())

	// Even the correct password is rejected once locked.
	assert.ErrorIs(t, g.Try("alohomora"), ErrLocked)
}
