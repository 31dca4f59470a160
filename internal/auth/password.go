package auth

import (
	"math/rand"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password for storage.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// CheckPassword compares a stored hash against a candidate.
func CheckPassword(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}

// PlaceholderPassword returns the throwaway credential set on a freshly
// provisioned agent. Not cryptographically secure; the agent is expected
// to reset it through the out-of-band invitation flow before first login.
func PlaceholderPassword() string {
	return strconv.Itoa(rand.Intn(1000000))
}
