package util

import "golang.org/x/crypto/bcrypt"

// Demo-mode accounts store a bcrypt hash in their session snapshot; cost 12
// keeps login under ~100ms while staying above the library default.
const bcryptCost = 12

// HashPassword hashes a plaintext password for a demo account
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
