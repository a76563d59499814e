package note

import (
	"errors"
	"testing"
)

func TestDocumentAcceptsValidRelease(t *testing.T) {
	v := testValidator()
	r := NewRelease(v)
	if err := r.SetContact("Grace Hopper"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddService("billing-api"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddLink("billing-api", CategoryPR, "https://example.com/pr/7"); err != nil {
		t.Fatal(err)
	}
	if err := v.Document(r); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
}

func TestDocumentCatchesHandBuiltViolations(t *testing.T) {
	// Decode rebuilds documents from raw payloads, so the batch check has to
	// catch states the mutation API could never produce.
	v := testValidator()

	stale := NewRelease(v)
	stale.Services = []*ServiceEntry{{Name: "decommissioned-svc", Risk: RiskLow, Benefit: BenefitLow}}
	if err := v.Document(stale); !errors.Is(err, ErrUnknownService) {
		t.Fatalf("stale service = %v, want ErrUnknownService", err)
	}

	dup := NewRelease(v)
	dup.Services = []*ServiceEntry{
		{Name: "billing-api", Risk: RiskLow, Benefit: BenefitLow},
		{Name: "billing-api", Risk: RiskLow, Benefit: BenefitLow},
	}
	if err := v.Document(dup); !errors.Is(err, ErrDuplicateService) {
		t.Fatalf("duplicate service = %v, want ErrDuplicateService", err)
	}

	badRisk := NewRelease(v)
	badRisk.Services = []*ServiceEntry{{Name: "billing-api", Risk: "Severe", Benefit: BenefitLow}}
	if err := v.Document(badRisk); !errors.Is(err, ErrInvalidRiskLevel) {
		t.Fatalf("bad risk = %v, want ErrInvalidRiskLevel", err)
	}

	blankLink := NewRelease(v)
	blankLink.Services = []*ServiceEntry{{
		Name: "billing-api", Risk: RiskLow, Benefit: BenefitLow,
		DesignLinks: []string{"   "},
	}}
	if err := v.Document(blankLink); !errors.Is(err, ErrEmptyLink) {
		t.Fatalf("blank link = %v, want ErrEmptyLink", err)
	}

	badContact := NewRelease(v)
	badContact.Contact = "Nobody"
	if err := v.Document(badContact); !errors.Is(err, ErrUnknownContact) {
		t.Fatalf("bad contact = %v, want ErrUnknownContact", err)
	}
}
