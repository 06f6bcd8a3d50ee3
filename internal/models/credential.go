package models

import (
	"errors"
	"strings"
)

// Credential identifies a pre-existing account in the storefront.
type Credential struct {
	Email    string
	Password string
}

var ErrIncompleteCredential = errors.New("credential requires both email and password")

// NewCredential normalises the email the way the storefront does on login.
func NewCredential(email, password string) (Credential, error) {
	c := Credential{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if c.Email == "" || c.Password == "" {
		return Credential{}, ErrIncompleteCredential
	}
	return c, nil
}

// String hides the password so credentials can be logged.
func (c Credential) String() string {
	return c.Email
}
