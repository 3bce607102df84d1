package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
//
// COST TUNING RULE OF THUMB:
// Set cost so that hashing takes ~100–300ms on production hardware.
// Each +1 doubles the work. Tests use bcrypt.MinCost (4).
const DefaultCost = 10

// MaxPasswordBytes is bcrypt's input limit. Longer inputs would be
// silently truncated, so they are rejected instead.
const MaxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the plaintext does not
// match the hash.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so that the cost can be injected:
// production reads BCRYPT_COST, tests pass 4.
type PasswordService struct {
	cost int

	decoyOnce sync.Once
	decoyHash []byte
}

// NewPasswordService creates a PasswordService. A cost of zero selects
// DefaultCost; other values must lie within bcrypt's accepted range.
func NewPasswordService(cost int) (*PasswordService, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordService{cost: cost}, nil
}

// NewPasswordServiceForTest creates a PasswordService with the given cost
// without range checks. Use bcrypt.MinCost in tests of other packages.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is a self-contained string like:
//
//	$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
//
// It embeds salt and cost, so it's stored as-is.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// A mismatch is ErrPasswordMismatch; a malformed hash is a wrapped error.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// VerifyDecoy runs a full bcrypt comparison against a throwaway hash and
// always fails. Login calls it for unknown nicknames so that response time
// does not reveal whether the account exists.
func (p *PasswordService) VerifyDecoy(plaintext string) error {
	p.decoyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), p.cost)
		if err == nil {
			p.decoyHash = h
		}
	})
	if p.decoyHash != nil {
		_ = bcrypt.CompareHashAndPassword(p.decoyHash, []byte(plaintext))
	}
	return ErrPasswordMismatch
}
