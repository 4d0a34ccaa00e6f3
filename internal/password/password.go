// Package password wraps bcrypt behind the two operations the auth
// service needs: hashing a plaintext at registration and verifying one
// at login. The bcrypt encoding embeds salt and cost, so verification
// needs no state beyond the stored hash and Cost can be raised later
// without invalidating existing hashes.
package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor applied to new hashes.
const Cost = 12

// Hash derives a salted bcrypt hash from the plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed
// or truncated hash yields false, never an error.
func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
