// Package auth builds the HTTP authentication header sent to the Fivetran API.
package auth

import (
	"encoding/base64"
	"errors"
	"sync"
)

// ErrMissingCredentials is returned when the API key or secret is empty.
var ErrMissingCredentials = errors.New("FIVETRAN_API_KEY and FIVETRAN_API_SECRET must be set")

// Credentials is the API key pair issued by Fivetran.
type Credentials struct {
	Key    string
	Secret string
}

// Complete reports whether both halves of the key pair are present.
func (c Credentials) Complete() bool {
	return c.Key != "" && c.Secret != ""
}

// BasicHeader returns the Authorization header value for c:
// "Basic " + base64(key:secret).
func BasicHeader(c Credentials) (string, error) {
	if !c.Complete() {
		return "", ErrMissingCredentials
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(c.Key + ":" + c.Secret))
	return "Basic " + encoded, nil
}

// Basic memoizes BasicHeader for the lifetime of the process.
// It is safe for concurrent use.
type Basic struct {
	header func() (string, error)
}

// NewBasic returns a Basic for the given credentials. The header is computed
// on first use and reused afterwards.
func NewBasic(c Credentials) *Basic {
	return &Basic{
		header: sync.OnceValues(func() (string, error) {
			return BasicHeader(c)
		}),
	}
}

// Header returns the memoized Authorization header value.
func (b *Basic) Header() (string, error) {
	return b.header()
}
