package billing

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// TokenLength is the public token size in characters.
	TokenLength = 32
	// tokenAlphabet needs no URL escaping, so tokens drop straight into
	// the public link path.
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// PublicToken generates an opaque token for unauthenticated invoice
// access. Drawn from crypto/rand: the token is the only thing gating the
// document.
func PublicToken() (string, error) {
	alphabetLen := big.NewInt(int64(len(tokenAlphabet)))
	token := make([]byte, TokenLength)

	for i := range token {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate public token: %w", err)
		}
		token[i] = tokenAlphabet[n.Int64()]
	}

	return string(token), nil
}
