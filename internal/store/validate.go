package store

import (
	"errors"
	"net/mail"
	"net/url"
	"regexp"
)

var (
	// ErrURLInvalid is returned when a destination URL is not well-formed.
	ErrURLInvalid = errors.New("enter a valid url")

	// ErrUsernameInvalid is returned when a username is too short or not alphanumeric.
	ErrUsernameInvalid = errors.New("username must be at least 3 alphanumeric characters")

	// ErrEmailInvalid is returned when an email address is not well-formed.
	ErrEmailInvalid = errors.New("email is not valid")

	// ErrPasswordTooShort is returned when a password has fewer than 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)
)

// ValidateURL checks that raw is an absolute http or https URL with a host.
// It does NOT check uniqueness — that is handled at the database layer via
// the unique index on items.url.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrURLInvalid
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrURLInvalid
	}
	return nil
}

// ValidateUsername checks the username format used at registration.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// ValidateEmail checks that email parses as a single RFC 5322 address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}
