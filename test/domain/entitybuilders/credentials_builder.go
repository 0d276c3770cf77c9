//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// CredentialsBuilder helps create test credentials with a fluent interface.
type CredentialsBuilder struct {
	*testkit.BaseBuilder
	username string
	secret   string
}

// NewCredentialsBuilder creates a new credentials builder with sensible defaults.
func NewCredentialsBuilder() *CredentialsBuilder {
	return &CredentialsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		username:    "tester",
		secret:      "s3cret",
	}
}

// WithUsername sets the username.
func (b *CredentialsBuilder) WithUsername(username string) *CredentialsBuilder {
	b.username = username
	return b
}

// WithSecret sets the password or token.
func (b *CredentialsBuilder) WithSecret(secret string) *CredentialsBuilder {
	b.secret = secret
	return b
}

// Build creates the credentials (satisfies testkit.Builder interface).
func (b *CredentialsBuilder) Build() interface{} {
	return b.BuildCredentials()
}

// BuildCredentials creates the credentials with a concrete return type.
func (b *CredentialsBuilder) BuildCredentials() entities.Credentials {
	return entities.Credentials{
		Username: b.username,
		Secret:   b.secret,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *CredentialsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.username = "tester"
	b.secret = "s3cret"
	return b
}

// Clone creates a deep copy of the CredentialsBuilder.
func (b *CredentialsBuilder) Clone() testkit.Builder {
	return &CredentialsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		username:    b.username,
		secret:      b.secret,
	}
}
