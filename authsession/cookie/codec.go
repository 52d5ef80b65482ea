package cookie

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jrsteele09/go-session-tokens/authsession"
)

const nonceLength = 24

var (
	// ErrInvalidTicket is returned when a cookie value cannot be opened:
	// tampered payload, wrong key, or truncated data.
	ErrInvalidTicket = errors.New("invalid session ticket")
)

// Ticket is the unit of state sealed into a session cookie: the principal,
// the property bag, and the session's validity window.
type Ticket struct {
	ID         string                  `json:"id"`
	Scheme     string                  `json:"scheme"`
	Principal  *authsession.Principal  `json:"principal"`
	Properties *authsession.Properties `json:"properties"`
	IssuedAt   time.Time               `json:"iat"`
	ExpiresAt  time.Time               `json:"exp"`
}

// Codec seals tickets into opaque cookie values and opens them again. The
// payload is JSON encrypted with NaCl secretbox under a key derived from the
// configured secret, so cookie contents are confidential and tamper-evident.
type Codec struct {
	key [32]byte
}

// NewCodec derives the sealing key from secret. Any non-empty secret works;
// it is hashed to the secretbox key length.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("[cookie.NewCodec] secret is required")
	}
	return &Codec{key: sha256.Sum256(secret)}, nil
}

// Seal encrypts a ticket into a cookie-safe string.
func (c *Codec) Seal(ticket *Ticket) (string, error) {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Seal] marshal ticket")
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", errors.Wrap(err, "[Codec.Seal] rand.Read")
	}

	sealed := secretbox.Seal(nonce[:], payload, &nonce, &c.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a cookie value back into a ticket. Any failure, from bad
// base64 through authentication failure, surfaces as ErrInvalidTicket.
func (c *Codec) Open(value string) (*Ticket, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(sealed) < nonceLength {
		return nil, ErrInvalidTicket
	}

	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])

	payload, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, &c.key)
	if !ok {
		return nil, ErrInvalidTicket
	}

	ticket := &Ticket{}
	if err := json.Unmarshal(payload, ticket); err != nil {
		return nil, ErrInvalidTicket
	}
	return ticket, nil
}
