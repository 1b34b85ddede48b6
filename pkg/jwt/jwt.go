package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// JWT header constants required by RFC 7519
const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256"
)

// Header represents the JWT header as defined in RFC 7515
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// StandardClaims represents the registered JWT claims defined in RFC 7519 Section 4.1.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"` // Unix seconds
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid validates the temporal claims against the wall clock.
func (c StandardClaims) Valid() error {
	return c.ValidAt(time.Now())
}

// ValidAt validates the temporal claims against now.
// Zero values are treated as unset (per RFC 7519) and are ignored.
func (c StandardClaims) ValidAt(now time.Time) error {
	ts := now.Unix()

	if c.ExpiresAt > 0 && ts >= c.ExpiresAt {
		return ErrExpiredToken
	}

	if c.NotBefore > 0 && ts < c.NotBefore {
		return ErrInvalidToken
	}

	return nil
}

// Expiry returns the exp claim as a time, or the zero time when unset.
func (c StandardClaims) Expiry() time.Time {
	if c.ExpiresAt <= 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// Decode unmarshals the claims segment of tokenString into claims without
// verifying the signature. The header must still be well-formed.
func Decode(tokenString string, claims any) error {
	if claims == nil {
		return ErrMissingClaims
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return ErrInvalidToken
	}

	if _, err := decodeHeader(parts[0]); err != nil {
		return err
	}

	return decodeClaims(parts[1], claims)
}

// Service handles JWT token generation and validation using HMAC-SHA256.
type Service struct {
	signingKey []byte
}

// New creates a new JWT service with the provided signing key.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	return &Service{
		signingKey: signingKey,
	}, nil
}

// NewFromString creates a new JWT service from a string signing key.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Generate creates a signed JWT token with the given claims.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(Header{Type: HeaderType, Algorithm: HeaderAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Verify checks the token signature and algorithm, then unmarshals its claims.
// Temporal claims are left to the caller.
func (s *Service) Verify(tokenString string, claims any) error {
	if claims == nil {
		return ErrMissingClaims
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	// Constant-time comparison; the signature is checked before anything is decoded.
	expected := s.sign(parts[0] + "." + parts[1])
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return ErrInvalidSignature
	}

	header, err := decodeHeader(parts[0])
	if err != nil {
		return err
	}
	if header.Algorithm != HeaderAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	return decodeClaims(parts[1], claims)
}

// Parse verifies the token and validates temporal claims when the claims type
// implements Valid() error.
func (s *Service) Parse(tokenString string, claims any) error {
	if err := s.Verify(tokenString, claims); err != nil {
		return err
	}

	if validator, ok := claims.(interface{ Valid() error }); ok {
		if err := validator.Valid(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

func decodeHeader(segment string) (Header, error) {
	var header Header

	raw, err := base64URLDecode(segment)
	if err != nil {
		return header, errors.Join(ErrInvalidToken, err)
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return header, errors.Join(ErrInvalidToken, err)
	}
	if header.Algorithm == "" {
		return header, ErrInvalidToken
	}

	return header, nil
}

func decodeClaims(segment string, claims any) error {
	raw, err := base64URLDecode(segment)
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if err := json.Unmarshal(raw, claims); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	return nil
}

// base64URLEncode encodes without padding, as RFC 7515 requires.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// base64URLDecode accepts both padded and unpadded input.
func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
