package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/renolabs/reno/internal/note"
)

func testValidator() *note.Validator {
	return note.NewValidator(
		[]string{"Ada Lovelace", "Grace Hopper"},
		[]string{"ServiceA", "billing-api", "ingest-worker"},
	)
}

func buildRelease(t *testing.T, v *note.Validator) *note.Release {
	t.Helper()
	r := note.NewRelease(v)
	if err := r.SetDate(note.DateOf(2026, time.March, 17)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetContact("Ada Lovelace"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ingest-worker", "billing-api"} {
		if err := r.AddService(name); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.SetRisk("billing-api", note.RiskHigh); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBenefit("billing-api", note.BenefitMedium); err != nil {
		t.Fatal(err)
	}
	if err := r.SetConfigOnly("ingest-worker", true); err != nil {
		t.Fatal(err)
	}
	if err := r.SetVersion("billing-api", "v2.14.0"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetChangeDescription("billing-api", "Reworked invoice rounding."); err != nil {
		t.Fatal(err)
	}
	if err := r.SetKnownIssues("billing-api", "Retries may duplicate webhook deliveries."); err != nil {
		t.Fatal(err)
	}
	if err := r.AddLink("billing-api", note.CategoryPR, "https://example.com/pr/101"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddLink("billing-api", note.CategoryPR, "https://example.com/pr/102"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddLink("billing-api", note.CategoryDesign, "https://example.com/design/rounding"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddLink("ingest-worker", note.CategoryQualityReport, "https://example.com/sonar/ingest"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddLink("ingest-worker", note.CategoryAdditional, "https://example.com/runbook"); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRoundTrip(t *testing.T) {
	v := testValidator()
	original := buildRelease(t, v)

	s, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(s, v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Equal(original) {
		t.Fatal("decode(encode(d)) must equal d")
	}
}

func TestRoundTripEmptyRelease(t *testing.T) {
	v := testValidator()
	original := note.NewRelease(v)
	s, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(s, v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Equal(original) {
		t.Fatal("empty release must round-trip")
	}
	if !decoded.Date.IsZero() {
		t.Fatal("unset date must stay unset")
	}
}

func TestEncodeDeterministicAcrossSelectionOrder(t *testing.T) {
	v := testValidator()
	a := note.NewRelease(v)
	b := note.NewRelease(v)
	for _, name := range []string{"billing-api", "ingest-worker"} {
		if err := a.AddService(name); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"ingest-worker", "billing-api"} {
		if err := b.AddService(name); err != nil {
			t.Fatal(err)
		}
	}
	sa, err := Encode(a)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}
	if sa != sb {
		t.Fatalf("value-equal documents must encode identically:\n%s\n%s", sa, sb)
	}
	// And repeated encodes of the same document are stable.
	again, err := Encode(a)
	if err != nil {
		t.Fatal(err)
	}
	if again != sa {
		t.Fatal("encode is not stable across calls")
	}
}

func TestTransportStringIsPortable(t *testing.T) {
	s, err := Encode(buildRelease(t, testValidator()))
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range s {
		if !inTransportAlphabet(r) {
			t.Fatalf("character %q at %d is outside the transport alphabet", r, i)
		}
	}
	if strings.ContainsAny(s, " \t\r\n=+/") {
		t.Fatalf("transport string contains unsafe characters: %q", s)
	}
}

func TestDecodeRejectsMalformedTransport(t *testing.T) {
	v := testValidator()
	for _, bad := range []string{
		"",
		"not-valid-base-payload!!",
		"has space inside",
		"line\nbreak",
		"päyload",
	} {
		if _, err := Decode(bad, v); !errors.Is(err, ErrMalformedTransport) {
			t.Fatalf("Decode(%q) = %v, want ErrMalformedTransport", bad, err)
		}
	}
	// Valid alphabet but not a zstd frame underneath.
	if _, err := Decode("AAAAAAAAAAAA", v); !errors.Is(err, ErrMalformedTransport) {
		t.Fatalf("garbage bytes = %v, want ErrMalformedTransport", err)
	}
}

func TestDecodeRejectsMalformedStructure(t *testing.T) {
	v := testValidator()

	// A CBOR text string is a well-formed payload byte-wise but not the
	// expected schema shape.
	notAMap := transportEncode([]byte{0x63, 'a', 'b', 'c'})
	if _, err := Decode(notAMap, v); !errors.Is(err, ErrMalformedStructure) {
		t.Fatalf("non-map payload = %v, want ErrMalformedStructure", err)
	}

	// Unknown extra fields are rejected, not ignored.
	// {"v": 1, "date": "", "contact": "", "services": [], "surprise": 1}
	withExtra := append([]byte{0xa5}, []byte{
		0x61, 'v', 0x01,
		0x64, 'd', 'a', 't', 'e', 0x60,
		0x67, 'c', 'o', 'n', 't', 'a', 'c', 't', 0x60,
		0x68, 's', 'e', 'r', 'v', 'i', 'c', 'e', 's', 0x80,
		0x68, 's', 'u', 'r', 'p', 'r', 'i', 's', 'e', 0x01,
	}...)
	if _, err := Decode(transportEncode(withExtra), v); !errors.Is(err, ErrMalformedStructure) {
		t.Fatalf("unknown field = %v, want ErrMalformedStructure", err)
	}

	// A future format version is structure we do not understand.
	future := payload{Version: formatVersion + 1}
	raw, err := encMode.Marshal(future)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(transportEncode(raw), v); !errors.Is(err, ErrMalformedStructure) {
		t.Fatalf("future version = %v, want ErrMalformedStructure", err)
	}
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	v := testValidator()

	encodePayload := func(t *testing.T, p payload) string {
		t.Helper()
		raw, err := encMode.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		return transportEncode(raw)
	}

	// A service name missing from the current catalog is rejected outright,
	// never silently stripped.
	stale := encodePayload(t, payload{
		Version: formatVersion,
		Services: []servicePayload{{
			Name: "decommissioned-svc", Risk: "Low", Benefit: "Low",
			PRLinks: []string{}, DesignLinks: []string{}, QualityReportLinks: []string{}, AdditionalLinks: []string{},
		}},
	})
	if _, err := Decode(stale, v); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("stale service = %v, want ErrSchemaViolation", err)
	} else if !errors.Is(err, note.ErrUnknownService) {
		t.Fatalf("stale service = %v, want wrapped ErrUnknownService", err)
	}

	badRisk := encodePayload(t, payload{
		Version: formatVersion,
		Services: []servicePayload{{
			Name: "billing-api", Risk: "Severe", Benefit: "Low",
		}},
	})
	if _, err := Decode(badRisk, v); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("bad risk = %v, want ErrSchemaViolation", err)
	}

	badDate := encodePayload(t, payload{Version: formatVersion, Date: "2026-02-30"})
	if _, err := Decode(badDate, v); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("bad date = %v, want ErrSchemaViolation", err)
	}

	badContact := encodePayload(t, payload{Version: formatVersion, Contact: "Nobody"})
	if _, err := Decode(badContact, v); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("bad contact = %v, want ErrSchemaViolation", err)
	}
}

func TestScenarioSingleServiceHighRisk(t *testing.T) {
	// Start empty, add ServiceA, raise its risk, export, then import into a
	// fresh session and compare.
	v := testValidator()
	r := note.NewRelease(v)
	if err := r.AddService("ServiceA"); err != nil {
		t.Fatalf("add: %v", err)
	}
	entry := r.Service("ServiceA")
	if entry.Risk != note.RiskLow || entry.ConfigOnly {
		t.Fatal("new entry must default to Low risk and config_only=false")
	}
	if err := r.SetRisk("ServiceA", note.RiskHigh); err != nil {
		t.Fatalf("set risk: %v", err)
	}
	s, err := Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := Decode(s, testValidator())
	if err != nil {
		t.Fatalf("decode in fresh session: %v", err)
	}
	if len(fresh.Services) != 1 || fresh.Services[0].Name != "ServiceA" {
		t.Fatalf("decoded services = %v", fresh.Services)
	}
	if fresh.Services[0].Risk != note.RiskHigh {
		t.Fatalf("decoded risk = %q, want High", fresh.Services[0].Risk)
	}
	if !fresh.Equal(r) {
		t.Fatal("decoded document must equal the original")
	}
}
