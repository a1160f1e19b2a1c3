package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/otpauth/pkg/cryptox"
)

const codeDigestInfo = "code-digest"

// Codec issues and verifies the challenge and session tokens from a single
// shared secret. It holds no mutable state after construction.
type Codec struct {
	issuer    string
	signers   map[Purpose]*HS256Signer
	verifiers map[Purpose]*HS256Verifier
	digestKey []byte
	now       func() time.Time
}

type CodecOption func(*Codec)

// WithClock overrides the time source used for iat/exp and verification.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec derives one key per purpose from secret. A secret shorter than
// MinSecretSize is rejected.
func NewCodec(secret []byte, issuer string, opts ...CodecOption) (*Codec, error) {
	c := &Codec{
		issuer:    issuer,
		signers:   make(map[Purpose]*HS256Signer, 2),
		verifiers: make(map[Purpose]*HS256Verifier, 2),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, p := range []Purpose{PurposeChallenge, PurposeSession} {
		key, err := DeriveKey(secret, string(p))
		if err != nil {
			return nil, err
		}
		signer, err := NewSignerHS256(string(p), key)
		if err != nil {
			return nil, fmt.Errorf("jwtx: %s signer: %w", p, err)
		}
		c.signers[p] = signer
		c.verifiers[p] = NewVerifierHS256(key, issuer, p, c.Now)
	}

	digestKey, err := DeriveKey(secret, codeDigestInfo)
	if err != nil {
		return nil, err
	}
	c.digestKey = digestKey

	return c, nil
}

// Now is the codec's notion of the current time.
func (c *Codec) Now() time.Time { return c.now().UTC() }

// Issuer returns the iss claim stamped on every token.
func (c *Codec) Issuer() string { return c.issuer }

// Sign signs pre-built claims with the key for their purpose.
func (c *Codec) Sign(claims Claims) (string, error) {
	s, ok := c.signers[claims.Purpose]
	if !ok {
		return "", fmt.Errorf("jwtx: no signer for purpose %q", claims.Purpose)
	}
	return s.Sign(claims)
}

// IssueChallenge mints a challenge token committing to code for subject.
func (c *Codec) IssueChallenge(subject, jti, code string, ttl time.Duration) (string, Claims, error) {
	if jti == "" {
		return "", Claims{}, errors.New("jwtx: challenge jti is required")
	}

	claims := NewChallengeClaims(subject, jti, c.CodeDigest(jti, subject, code), ttl, c.issuer, c.Now())
	token, err := c.Sign(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// IssueSession mints a session token for subject.
func (c *Codec) IssueSession(subject string, ttl time.Duration) (string, Claims, error) {
	claims := NewSessionClaims(subject, ttl, c.issuer, c.Now())
	token, err := c.Sign(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// Verify checks token against the key for purpose.
func (c *Codec) Verify(purpose Purpose, token string) (Claims, error) {
	v, ok := c.verifiers[purpose]
	if !ok {
		return Claims{}, ErrPurpose
	}
	return v.Verify(token)
}

// Verifier exposes the verifier of one purpose, e.g. for the session gate.
func (c *Codec) Verifier(purpose Purpose) Verifier {
	return c.verifiers[purpose]
}

// CodeDigest commits to code, bound to the token id and subject so a digest
// lifted from one token is useless in another.
func (c *Codec) CodeDigest(jti, subject, code string) string {
	canonical, ok := cryptox.CanonicalCode(code)
	if !ok {
		canonical = code
	}
	return cryptox.DigestCode(c.digestKey, jti+"|"+subject, canonical)
}

// MatchCode reports whether code is the one committed to in claims. The
// comparison is numeric: surrounding whitespace and leading zeros are ignored,
// anything that is not a decimal number never matches.
func (c *Codec) MatchCode(claims Claims, code string) bool {
	canonical, ok := cryptox.CanonicalCode(code)
	if !ok || claims.CodeDigest == "" {
		return false
	}
	want := cryptox.DigestCode(c.digestKey, claims.ID+"|"+claims.Subject, canonical)
	return cryptox.EqualDigest(want, claims.CodeDigest)
}
