package config

import "github.com/bobmcallan/fivetran-mcp/internal/auth"

// Policy is the process-wide policy: the write switch and the API
// credentials. It is built once at startup and only exposes readers.
type Policy struct {
	allowWrites bool
	credentials auth.Credentials
}

// NewPolicy returns an immutable Policy.
func NewPolicy(allowWrites bool, credentials auth.Credentials) *Policy {
	return &Policy{allowWrites: allowWrites, credentials: credentials}
}

// Policy derives the process policy from the loaded configuration.
func (c *Config) Policy() *Policy {
	return NewPolicy(c.Fivetran.AllowWrites, auth.Credentials{
		Key:    c.Fivetran.APIKey,
		Secret: c.Fivetran.APISecret,
	})
}

// AllowWrites reports whether POST, PATCH and DELETE operations may run.
func (p *Policy) AllowWrites() bool {
	return p.allowWrites
}

// Credentials returns the API key pair.
func (p *Policy) Credentials() auth.Credentials {
	return p.credentials
}
