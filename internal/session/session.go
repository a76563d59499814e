// internal/session/session.go
//
// A Session is the boundary between the core document model and whatever
// surface drives it (the TUI, the CLI, a test). It owns exactly one release
// document and exposes the three entry points everything else is built on:
// Mutate, Export and Import. One session, one logical owner, no concurrent
// writers.

package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/renolabs/reno/internal/catalog"
	"github.com/renolabs/reno/internal/codec"
	"github.com/renolabs/reno/internal/note"
)

// Session owns the live release document for one interactive form session.
type Session struct {
	id        uuid.UUID
	catalog   *catalog.Catalog
	validator *note.Validator
	release   *note.Release
}

// New starts an empty session over the given catalog. The catalog is
// captured as a read-only snapshot for the session's whole lifetime.
func New(cat *catalog.Catalog) *Session {
	v := cat.Validator()
	return &Session{
		id:        uuid.New(),
		catalog:   cat,
		validator: v,
		release:   note.NewRelease(v),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Catalog returns the catalog snapshot the session was started with.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Release returns the live document for mutation through its operation set.
func (s *Session) Release() *note.Release {
	return s.release
}

// Mutate applies one operation to the live document. Operations validate
// before they commit, so a returned error means the document is exactly as
// it was.
func (s *Session) Mutate(op func(*note.Release) error) error {
	if op == nil {
		return fmt.Errorf("session: nil operation")
	}
	return op(s.release)
}

// Snapshot returns an immutable deep copy of the current document for
// rendering or serialization.
func (s *Session) Snapshot() *note.Release {
	return s.release.Snapshot()
}

// Export encodes the current document as a transport string.
func (s *Session) Export() (string, error) {
	return codec.Encode(s.release.Snapshot())
}

// Import decodes a transport string and replaces the session's document
// wholesale. On any decode error the existing document is untouched; the old
// state is discarded only after the decode fully succeeds.
func (s *Session) Import(transport string) error {
	decoded, err := codec.Decode(transport, s.validator)
	if err != nil {
		return err
	}
	s.release = decoded
	return nil
}

// Reset discards the current document and starts over empty, the form's
// "clear" action.
func (s *Session) Reset() {
	s.release = note.NewRelease(s.validator)
}
