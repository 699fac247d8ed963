package encrypter

import "golang.org/x/crypto/bcrypt"

// HashSecret hashes a shared secret with bcrypt at the default cost.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareSecret reports whether secret matches the bcrypt hash.
func CompareSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
