// Package gate implements the admin-panel soft lock.
//
// This is a UX deterrent, not authentication: the hash constant ships
// inside the client and the hash itself is trivially reversible by
// brute force. Anyone needing real access control must put an
// identity system in front of the admin surface instead.
package gate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxAttempts is how many wrong passwords a session tolerates before
// the gate locks.
const MaxAttempts = 3

// ErrLocked is returned once the attempt budget is exhausted. The
// gate stays locked for the rest of the session.
var ErrLocked = errors.New("too many failed attempts, access denied")

// Gate checks a shared secret against a stored hash, allowing a
// bounded number of tries per session.
type Gate struct {
	wantHash string
	attempts int
}

// New creates a gate expecting the given hash constant.
func New(wantHash string) *Gate {
	return &Gate{wantHash: wantHash}
}

// Hash runs the client-side shift-add hash over a case-folded input.
// The arithmetic wraps at 32 bits to keep the output identical to the
// constant produced by the original client.
func Hash(input string) string {
	var h int32
	for _, c := range strings.ToLower(input) {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 10)
}

// Try checks one password attempt. A wrong password reports how many
// attempts remain; once the budget is spent every further call
// returns ErrLocked.
func (g *Gate) Try(password string) error {
	if g.attempts >= MaxAttempts {
		return ErrLocked
	}
	if Hash(password) == g.wantHash {
		return nil
	}
	g.attempts++
	if g.attempts >= MaxAttempts {
		return ErrLocked
	}
	return fmt.Errorf("incorrect password, attempt %d/%d", g.attempts, MaxAttempts)
}

// Locked reports whether the gate has shut for this session.
func (g *Gate) Locked() bool {
	return g.attempts >= MaxAttempts
}

// Remaining returns how many attempts are left.
func (g *Gate) Remaining() int {
	if g.attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - g.attempts
}
