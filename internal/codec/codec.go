// internal/codec/codec.go
//
// Lossless conversion between a release document and a portable transport
// string. The pipeline has two independently testable stages:
//
//  1. structured: canonical CBOR (RFC 8949 Core Deterministic Encoding),
//     so value-equal documents always serialize to identical bytes
//  2. transport: zstd compression, then base64 (raw URL alphabet), giving a
//     printable, whitespace-free string that survives chat and URLs
//
// Decode runs the stages in reverse and then re-validates the rebuilt
// document with the same rules the form uses, so a transport string can
// never smuggle in a state the form could not have produced. Decode is
// all-or-nothing: it returns a fresh document or an error, and never touches
// caller state.

package codec

import (
	"errors"
	"fmt"
	"strings"

	"encoding/base64"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/renolabs/reno/internal/note"
)

// Decode errors. Each stage has its own kind so callers can tell a corrupted
// paste (MalformedTransport) from a schema drift (MalformedStructure) from a
// document that no longer fits the current catalog (SchemaViolation).
var (
	ErrMalformedTransport = errors.New("malformed transport string")
	ErrMalformedStructure = errors.New("malformed payload structure")
	ErrSchemaViolation    = errors.New("payload violates document schema")
)

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, which is what makes Encode deterministic.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured strictly: unknown fields and
// duplicate map keys are errors, not something to paper over. A payload
// written by a newer schema must bump the format version instead of relying
// on fields being silently dropped.
var decMode cbor.DecMode

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
	// A single-goroutine encoder with fixed options keeps the compressed
	// bytes identical for identical input, preserving Encode determinism.
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(16<<20),
	)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// transport is the base64 alphabet used for the final string: URL-safe, no
// padding, strict about trailing bits.
var transport = base64.RawURLEncoding.Strict()

// Encode serializes a release to its canonical transport string. Encoding is
// pure: it reads the document and touches nothing else. Value-equal
// documents encode to identical strings.
func Encode(r *note.Release) (string, error) {
	raw, err := marshalPayload(r)
	if err != nil {
		return "", err
	}
	return transportEncode(raw), nil
}

// Decode parses a transport string and rebuilds the release it encodes,
// bound to the supplied validator. The rebuilt document passes the full
// rule set of the current catalog or an error is returned; a stale service
// name is rejected as a schema violation, never silently stripped.
func Decode(s string, v *note.Validator) (*note.Release, error) {
	raw, err := transportDecode(s)
	if err != nil {
		return nil, err
	}
	r, err := unmarshalPayload(raw, v)
	if err != nil {
		return nil, err
	}
	if err := v.Document(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	return r, nil
}

// marshalPayload is stage one of Encode: document to deterministic CBOR.
func marshalPayload(r *note.Release) ([]byte, error) {
	raw, err := encMode.Marshal(toPayload(r))
	if err != nil {
		return nil, fmt.Errorf("codec: marshal payload: %w", err)
	}
	return raw, nil
}

// unmarshalPayload is stage one of Decode: CBOR bytes back to a document.
// Shape problems (bad CBOR, unknown fields, wrong version) report
// ErrMalformedStructure; value problems (an impossible date) report
// ErrSchemaViolation because the bytes decoded fine but the content breaks a
// model invariant.
func unmarshalPayload(raw []byte, v *note.Validator) (*note.Release, error) {
	var p payload
	if err := decMode.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStructure, err)
	}
	r, err := fromPayload(p, v)
	if err != nil {
		if errors.Is(err, note.ErrInvalidDate) {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedStructure, err)
	}
	return r, nil
}

// transportEncode is stage two of Encode: compress and map onto the
// printable alphabet.
func transportEncode(raw []byte) string {
	compressed := zstdEncoder.EncodeAll(raw, make([]byte, 0, len(raw)))
	return transport.EncodeToString(compressed)
}

// transportDecode is stage two of Decode. Anything outside the expected
// alphabet is rejected up front: the stdlib base64 decoder skips newlines,
// but a transport string is defined to be whitespace-free, so a lenient
// parse here would accept strings Encode could never have produced.
func transportDecode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformedTransport)
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return !inTransportAlphabet(r) }); i >= 0 {
		return nil, fmt.Errorf("%w: character %q at offset %d", ErrMalformedTransport, s[i], i)
	}
	compressed, err := transport.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTransport, err)
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrMalformedTransport, err)
	}
	return raw, nil
}

func inTransportAlphabet(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
