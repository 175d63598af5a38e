// Package codes generates team join codes and single-use invite codes.
//
// Uniqueness is enforced by the store's unique index; Generate retries a
// bounded number of times when an insert collides.
package codes

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/google/uuid"
)

// DefaultAttempts is used when the configured attempt count is not positive.
const DefaultAttempts = 5

// JoinCodeLength is the length of a team join code.
const JoinCodeLength = 6

// InviteCodeLength is the length of an invite code.
const InviteCodeLength = 12

// joinAlphabet omits 0/O and 1/I/L so codes can be read aloud.
const joinAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var (
	// ErrCollision is returned by an insert func when the code is taken.
	ErrCollision = errors.New("code already in use")

	// ErrExhausted is wrapped in the store error returned when every
	// attempt collided.
	ErrExhausted = errors.New("code generation attempts exhausted")
)

// JoinCode returns a random JoinCodeLength code over joinAlphabet.
func JoinCode() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 0; i < JoinCodeLength; i++ {
		b.WriteByte(joinAlphabet[int(u[i])%len(joinAlphabet)])
	}
	return b.String(), nil
}

// InviteCode returns a random InviteCodeLength uppercase hex code.
func InviteCode() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	hex := strings.ReplaceAll(u.String(), "-", "")
	return strings.ToUpper(hex[:InviteCodeLength]), nil
}

// Generate draws codes from gen and passes each to insert until one is
// accepted. insert reports a taken code with ErrCollision; any other error
// stops immediately. After attempts collisions it returns a store error
// wrapping ErrExhausted.
func Generate(ctx context.Context, attempts int, gen func() (string, error), insert func(ctx context.Context, code string) error) (string, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", apperr.Store("generate code", err)
		}
		code, err := gen()
		if err != nil {
			return "", apperr.Store("generate code", err)
		}
		err = insert(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrCollision) {
			return "", err
		}
	}
	return "", apperr.Store("generate code", ErrExhausted)
}
