// Package keys encodes entity identifiers as opaque, URL-safe, kind-tagged
// strings handed to API clients.
package keys

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Kind is the entity kind a key refers to.
type Kind string

const (
	KindProfile    Kind = "Profile"
	KindConference Kind = "Conference"
	KindSession    Kind = "Session"
	KindSpeaker    Kind = "Speaker"
)

var (
	// ErrMalformed is returned when a websafe key cannot be decoded.
	ErrMalformed = errors.New("malformed key")
	// ErrWrongKind is returned when a key decodes to an unexpected kind.
	ErrWrongKind = errors.New("key has wrong kind")
)

// Key identifies one entity.
type Key struct {
	Kind Kind
	ID   string
}

// New returns a key of the given kind and id.
func New(kind Kind, id string) Key {
	return Key{Kind: kind, ID: id}
}

// Encode returns the websafe form of k.
func (k Key) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(string(k.Kind) + ":" + k.ID))
}

func (k Key) String() string {
	return string(k.Kind) + "(" + k.ID + ")"
}

// Decode parses a websafe key.
func Decode(websafe string) (Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(websafe))
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformed, websafe)
	}
	kind, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformed, websafe)
	}
	switch Kind(kind) {
	case KindProfile, KindConference, KindSession, KindSpeaker:
	default:
		return Key{}, fmt.Errorf("%w: unknown kind %q", ErrMalformed, kind)
	}
	return Key{Kind: Kind(kind), ID: id}, nil
}

// DecodeKind parses a websafe key and checks that it is of the wanted kind.
// It returns the entity id.
func DecodeKind(websafe string, want Kind) (string, error) {
	k, err := Decode(websafe)
	if err != nil {
		return "", err
	}
	if k.Kind != want {
		return "", fmt.Errorf("%w: %s is not a %s", ErrWrongKind, k, want)
	}
	return k.ID, nil
}

// Conference returns the websafe key of a conference id.
func Conference(id string) string { return New(KindConference, id).Encode() }

// Session returns the websafe key of a session id.
func Session(id string) string { return New(KindSession, id).Encode() }

// Speaker returns the websafe key of a speaker email.
func Speaker(email string) string { return New(KindSpeaker, email).Encode() }

// EncodeAll maps ids of one kind to websafe keys.
func EncodeAll(kind Kind, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, New(kind, id).Encode())
	}
	return out
}
