// Package codec encodes and decodes persisted chat message blobs.
//
// Plain text messages are stored as the raw text. Attachment messages are
// stored as three newline-separated lines: a sender marker, the stored file
// path and a display timestamp. The byte layout is a compatibility contract
// with the deployed Mini-App frontend and with existing stored history, so it
// must not change. Inside the server, blobs are decoded into Message values
// at the storage boundary; raw strings never travel through business logic.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

const (
	// StoragePrefix is the on-disk directory prefix embedded in attachment
	// blobs. PublicPrefix is what the frontend's file requests use; the file
	// server and this rewrite must agree byte-for-byte.
	StoragePrefix = "app/chats/attachments/"
	PublicPrefix  = "/attachments/"

	customerMarker = "Заказчик:"
	courierMarker  = "Курьер:"
)

var (
	ErrEmptyMessage = errors.New("codec: empty message blob")
	ErrBadShape     = errors.New("codec: malformed attachment blob")
)

// Kind discriminates the two message variants.
type Kind int

const (
	KindText Kind = iota
	KindAttachment
)

// Message is the decoded form of one chat blob: either plain text or exactly
// one attachment with a timestamp, never both.
type Message struct {
	Kind Kind

	// Text is set for KindText.
	Text string

	// The remaining fields are set for KindAttachment.
	Role       string // domain.RoleCustomer or domain.RoleCourier
	StoredPath string // path under StoragePrefix, as persisted
	DisplayURL string // StoredPath with StoragePrefix rewritten to PublicPrefix
	Timestamp  string
}

// EncodeText returns the blob for a plain text message. Interior newlines are
// preserved verbatim. Empty or all-whitespace text is rejected so that empty
// blobs are never produced.
func EncodeText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}

// EncodeAttachment returns the three-line blob for an attachment message.
// The stored path must live under StoragePrefix or the decoder will not
// recognize the blob as an attachment.
func EncodeAttachment(role, storedPath, timestamp string) (string, error) {
	if strings.TrimSpace(storedPath) == "" || strings.TrimSpace(timestamp) == "" {
		return "", ErrEmptyMessage
	}
	if !strings.Contains(storedPath, StoragePrefix) {
		return "", fmt.Errorf("codec: stored path %q is outside %q", storedPath, StoragePrefix)
	}
	marker := courierMarker
	if role == domain.RoleCustomer {
		marker = customerMarker
	}
	return marker + "\n" + storedPath + "\n" + timestamp, nil
}

// Decode parses a stored blob into its tagged form. A blob containing the
// storage prefix is an attachment and must split into exactly three non-blank
// lines; anything else containing the prefix is a decode error. All other
// non-empty blobs are plain text.
func Decode(blob string) (Message, error) {
	if strings.TrimSpace(blob) == "" {
		return Message{}, ErrEmptyMessage
	}

	if !strings.Contains(blob, StoragePrefix) {
		return Message{Kind: KindText, Text: blob}, nil
	}

	var lines []string
	for _, line := range strings.Split(blob, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 3 {
		return Message{}, fmt.Errorf("%w: %d non-blank lines", ErrBadShape, len(lines))
	}

	marker, storedPath, timestamp := lines[0], lines[1], lines[2]
	role := domain.RoleCourier
	if strings.Contains(marker, "Заказчик") {
		role = domain.RoleCustomer
	}

	return Message{
		Kind:       KindAttachment,
		Role:       role,
		StoredPath: storedPath,
		DisplayURL: strings.Replace(storedPath, StoragePrefix, PublicPrefix, 1),
		Timestamp:  timestamp,
	}, nil
}
