package auth

import "golang.org/x/crypto/bcrypt"

// Credentials is the fixed username/password table gating the app. The
// plaintext pairs are hashed once at construction so the login path always
// compares bcrypt hashes.
type Credentials struct {
	hashes map[string][]byte
}

// DefaultCredentials returns the two built-in accounts.
func DefaultCredentials() *Credentials {
	return NewCredentials(map[string]string{
		"admin": "123",
		"user1": "456",
	})
}

// NewCredentials hashes the given username/password pairs.
func NewCredentials(pairs map[string]string) *Credentials {
	hashes := make(map[string][]byte, len(pairs))
	for user, pass := range pairs {
		h, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			continue
		}
		hashes[user] = h
	}
	return &Credentials{hashes: hashes}
}

// Check reports whether the username/password pair matches an account.
func (c *Credentials) Check(username, password string) bool {
	hash, ok := c.hashes[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
