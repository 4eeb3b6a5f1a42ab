package store

import (
	"fmt"
	"math/rand/v2"
)

// Codes are 4-digit numeric strings. Generation retries against the store
// until an unused value is found; uniqueness is enforced here, not by the
// caller.

func randomCode() string {
	return fmt.Sprintf("%d", 1000+rand.IntN(9000))
}

func generateCode(exists func(string) (bool, error)) (string, error) {
	for {
		code := randomCode()
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

func (s *Store) userCodeExists(code string) (bool, error) {
	var taken bool
	err := s.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE code = $1)`, code).Scan(&taken)
	return taken, err
}

func (s *Store) groupCodeExists(code string) (bool, error) {
	var taken bool
	err := s.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM groups WHERE code = $1)`, code).Scan(&taken)
	return taken, err
}

// GenerateUserCode returns an unused 4-digit user code.
func (s *Store) GenerateUserCode() (string, error) {
	return generateCode(s.userCodeExists)
}

// GenerateGroupCode returns an unused 4-digit group code.
func (s *Store) GenerateGroupCode() (string, error) {
	return generateCode(s.groupCodeExists)
}
