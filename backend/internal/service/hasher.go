package service

// Hasher one-way hashes delete passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type PostValidator interface {
	Text(text string) error
	Password(password string) error
}
