package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const secretBytes = 32

var errMalformedToken = errors.New("malformed invitation token")

// newSecret returns a hex encoded random secret and its bcrypt hash.
func newSecret() (secret, hash string, err error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(b)
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return secret, string(h), nil
}

// FormatToken builds the token handed to the invitee: "<id>.<secret>".
func FormatToken(id uuid.UUID, secret string) string {
	return id.String() + "." + secret
}

func ParseToken(token string) (uuid.UUID, string, error) {
	idPart, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || len(secret) != secretBytes*2 {
		return uuid.Nil, "", errMalformedToken
	}
	if _, err := hex.DecodeString(secret); err != nil {
		return uuid.Nil, "", errMalformedToken
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", errMalformedToken
	}
	return id, secret, nil
}

func secretMatches(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
