package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor applied to stored account passwords.
const bcryptCost = 12

// HashPassword derives a bcrypt hash suitable for storing on a user or admin
// record.
func HashPassword(password string) (string, error) {
	hash, errHash := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errHash != nil {
		return "", errHash
	}
	return string(hash), nil
}

// CheckPassword reports whether a plaintext password matches a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
