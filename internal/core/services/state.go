package services

import (
	"encoding/base64"
	"encoding/json"
	"hash/fnv"
	"time"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// StateMaxAge is how long a signed state survives the redirect round trip.
const StateMaxAge = 5 * time.Minute

// StateCodec signs and verifies the OAuth `state` parameter. The checksum
// is a non-cryptographic hash over the payload JSON plus a server secret:
// enough to detect tampering or corruption across the untrusted redirect,
// not a confidentiality or authenticity guarantee.
type StateCodec struct {
	secret string
	now    func() time.Time
}

// NewStateCodec creates a codec keyed by the server secret.
func NewStateCodec(secret string) *StateCodec {
	return &StateCodec{secret: secret, now: time.Now}
}

// NewStateCodecWithClock creates a codec with an injected clock for tests.
func NewStateCodecWithClock(secret string, now func() time.Time) *StateCodec {
	return &StateCodec{secret: secret, now: now}
}

// signedState is the wire shape: the payload fields plus a checksum.
type signedState struct {
	domain.OAuthState
	Checksum uint32 `json:"checksum"`
}

// Sign serializes the payload with an appended checksum and base64-encodes
// the result for use as a `state` query parameter.
func (c *StateCodec) Sign(payload *domain.OAuthState) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	signed := signedState{
		OAuthState: *payload,
		Checksum:   c.checksum(body),
	}

	out, err := json.Marshal(signed)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(out), nil
}

// Verify decodes and checks a state token. It fails closed: any parse
// failure, checksum mismatch, or age beyond StateMaxAge yields nil.
func (c *StateCodec) Verify(token string) *domain.OAuthState {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	var signed signedState
	if err := json.Unmarshal(raw, &signed); err != nil {
		return nil
	}

	issued := time.UnixMilli(signed.IssuedAt)
	if c.now().Sub(issued) > StateMaxAge {
		return nil
	}

	// Recompute the checksum over the extracted fields. Marshaling the
	// payload struct reproduces the exact bytes Sign hashed.
	body, err := json.Marshal(&signed.OAuthState)
	if err != nil {
		return nil
	}
	if c.checksum(body) != signed.Checksum {
		return nil
	}

	payload := signed.OAuthState
	return &payload
}

// checksum hashes the payload bytes concatenated with the secret.
func (c *StateCodec) checksum(body []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(body)
	_, _ = h.Write([]byte(c.secret))
	return h.Sum32()
}
