// Package basicauth verifies HTTP basic-auth credentials for the policy step.
//
// A single username is configured. Its secret is either a bcrypt hash (preferred) or a
// plaintext password. Plaintext comparison exists for local development only and is
// reported as insecure by Credentials.Insecure so callers can warn at startup.
package basicauth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/awesome-computers/store-membership-api/internal/domain"
	"github.com/awesome-computers/store-membership-api/internal/platform/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Credentials is the configured credential pair.
type Credentials struct {
	Username string
	// Password is compared as plaintext when PasswordHash is empty.
	Password string
	// PasswordHash is a bcrypt hash of the password.
	PasswordHash string
}

// CredentialsFromConfig maps the basic auth config section onto Credentials.
func CredentialsFromConfig(c config.BasicAuthConfig) Credentials {
	return Credentials{
		Username:     c.Username,
		Password:     c.Password,
		PasswordHash: c.PasswordHash,
	}
}

// Insecure reports whether the password is held in plaintext.
func (c Credentials) Insecure() bool { return c.PasswordHash == "" }

type compiled struct {
	username [sha256.Size]byte
	password [sha256.Size]byte
	hash     []byte
}

// Verifier checks a username/password pair against the current credentials.
// Credentials can be replaced at runtime; it is safe for concurrent use.
type Verifier struct {
	cur atomic.Pointer[compiled]
}

func New(c Credentials) (*Verifier, error) {
	v := &Verifier{}
	if err := v.SetCredentials(c); err != nil {
		return nil, err
	}
	return v, nil
}

// SetCredentials validates and installs c. On error the previous credentials remain.
func (v *Verifier) SetCredentials(c Credentials) error {
	if c.Username == "" {
		return errors.New("basic auth username must not be empty")
	}
	cc := &compiled{username: sha256.Sum256([]byte(c.Username))}
	switch {
	case c.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(c.PasswordHash)); err != nil {
			return errors.Wrap(err, "basic auth password hash is not a bcrypt hash")
		}
		cc.hash = []byte(c.PasswordHash)
	case c.Password != "":
		cc.password = sha256.Sum256([]byte(c.Password))
	default:
		return errors.New("basic auth password or password hash must be set")
	}
	v.cur.Store(cc)
	return nil
}

// Verify returns the authenticated subject (the username) or ErrUnauthorized.
// The username match is exact and case-sensitive.
func (v *Verifier) Verify(ctx context.Context, username, password string) (domain.SubjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cc := v.cur.Load()
	if cc == nil {
		return "", ErrUnauthorized
	}

	userSum := sha256.Sum256([]byte(username))
	userOK := subtle.ConstantTimeCompare(userSum[:], cc.username[:]) == 1

	// The password is always checked so a wrong username costs the same as a wrong password.
	var passOK bool
	if cc.hash != nil {
		passOK = bcrypt.CompareHashAndPassword(cc.hash, []byte(password)) == nil
	} else {
		passSum := sha256.Sum256([]byte(password))
		passOK = subtle.ConstantTimeCompare(passSum[:], cc.password[:]) == 1
	}

	if !userOK || !passOK {
		return "", ErrUnauthorized
	}
	return domain.SubjectID(username), nil
}

// HashPassword returns a bcrypt hash of password suitable for PasswordHash.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(b), nil
}

// CheckPassword reports whether password matches a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
