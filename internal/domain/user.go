package domain

import (
	"errors"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. Accounts are created on first
// successful Google sign-in; local login only looks up existing users.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	GoogleID  string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ErrInvalidUsername is returned by ValidateUsername for any string that
// does not satisfy the username rules.
var ErrInvalidUsername = errors.New("username must be 8-30 characters of letters, digits, spaces or apostrophes, without leading, trailing or doubled separators")

const (
	usernameMinLen = 8
	usernameMaxLen = 30
)

func isUsernameSeparator(r rune) bool {
	return r == '.' || r == '_'
}

// ValidateUsername enforces the account naming rules: 8-30 characters
// drawn from letters, digits, '.', '_', apostrophe and space, where '.'
// and '_' may not start or end the name and may not appear twice in a row.
func ValidateUsername(name string) error {
	runes := []rune(name)
	if len(runes) < usernameMinLen || len(runes) > usernameMaxLen {
		return ErrInvalidUsername
	}
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', unicode.IsDigit(r):
		case r == '\'' || r == ' ':
		case isUsernameSeparator(r):
			if i == 0 || i == len(runes)-1 {
				return ErrInvalidUsername
			}
			if isUsernameSeparator(runes[i-1]) {
				return ErrInvalidUsername
			}
		default:
			return ErrInvalidUsername
		}
	}
	return nil
}
