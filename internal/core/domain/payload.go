package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaxPayloadBytes is the default upload limit (5 MiB).
const MaxPayloadBytes = 5 * 1024 * 1024

// Payload is an uploaded document: raw bytes plus the declared file type.
// Content must not be mutated once the payload is built.
type Payload struct {
	// Name is the original file name, used for logging and titles.
	Name string

	// Type is the declared file type.
	Type FileType

	// Content is the raw bytes.
	Content []byte
}

// NewPayload builds a payload, deriving the type from the file name.
func NewPayload(name string, content []byte) (*Payload, error) {
	ft, err := ParseFileType(name)
	if err != nil {
		return nil, err
	}
	return &Payload{Name: name, Type: ft, Content: content}, nil
}

// Fingerprint returns the content-addressed key of the payload bytes.
func (p *Payload) Fingerprint() Fingerprint {
	return NewFingerprint(p.Content)
}

// Size returns the payload size in bytes.
func (p *Payload) Size() int {
	return len(p.Content)
}

// Fingerprint is a hex-encoded SHA-256 digest of payload bytes.
// Identical bytes always yield the identical fingerprint.
type Fingerprint string

// NewFingerprint hashes content into a fingerprint.
func NewFingerprint(content []byte) Fingerprint {
	sum := sha256.Sum256(content)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// String returns the string representation.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns the first 12 characters, for log lines.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}
