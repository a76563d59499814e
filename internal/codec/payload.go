// internal/codec/payload.go
//
// Stage one of the codec: the canonical structured representation. The
// payload structs define the wire schema; field names are fixed by the cbor
// tags and must never change without bumping formatVersion.

package codec

import (
	"fmt"
	"sort"

	"github.com/renolabs/reno/internal/note"
)

// formatVersion is the payload schema version. Decode rejects anything else.
const formatVersion = 1

type payload struct {
	Version  int              `cbor:"v"`
	Date     string           `cbor:"date"`
	Contact  string           `cbor:"contact"`
	Services []servicePayload `cbor:"services"`
}

type servicePayload struct {
	Name               string   `cbor:"name"`
	ConfigOnly         bool     `cbor:"config_only"`
	Risk               string   `cbor:"risk_level"`
	Benefit            string   `cbor:"benefit_level"`
	Release            string   `cbor:"version"`
	ChangeDescription  string   `cbor:"change_description"`
	KnownIssues        string   `cbor:"known_issues"`
	PRLinks            []string `cbor:"pr_links"`
	DesignLinks        []string `cbor:"design_links"`
	QualityReportLinks []string `cbor:"quality_report_links"`
	AdditionalLinks    []string `cbor:"additional_links"`
}

// toPayload builds the canonical representation of a release. Services are
// sorted by name so two value-equal documents always produce the same
// payload regardless of the order the user selected services in.
func toPayload(r *note.Release) payload {
	p := payload{
		Version:  formatVersion,
		Date:     r.Date.String(),
		Contact:  r.Contact,
		Services: make([]servicePayload, 0, len(r.Services)),
	}
	for _, entry := range r.Services {
		p.Services = append(p.Services, servicePayload{
			Name:               entry.Name,
			ConfigOnly:         entry.ConfigOnly,
			Risk:               string(entry.Risk),
			Benefit:            string(entry.Benefit),
			Release:            entry.Version,
			ChangeDescription:  entry.ChangeDescription,
			KnownIssues:        entry.KnownIssues,
			PRLinks:            canonicalLinks(entry.PRLinks),
			DesignLinks:        canonicalLinks(entry.DesignLinks),
			QualityReportLinks: canonicalLinks(entry.QualityReportLinks),
			AdditionalLinks:    canonicalLinks(entry.AdditionalLinks),
		})
	}
	sort.Slice(p.Services, func(i, j int) bool {
		return p.Services[i].Name < p.Services[j].Name
	})
	return p
}

// fromPayload rebuilds a release bound to the given validator. Only shape
// and value conversion happens here; invariant checks are the validator's
// job afterwards.
func fromPayload(p payload, v *note.Validator) (*note.Release, error) {
	if p.Version != formatVersion {
		return nil, fmt.Errorf("unsupported payload version %d (expected %d)", p.Version, formatVersion)
	}
	date, err := note.ParseDate(p.Date)
	if err != nil {
		return nil, err
	}
	r := note.NewRelease(v)
	r.Date = date
	r.Contact = p.Contact
	for _, svc := range p.Services {
		r.Services = append(r.Services, &note.ServiceEntry{
			Name:               svc.Name,
			ConfigOnly:         svc.ConfigOnly,
			Risk:               note.RiskLevel(svc.Risk),
			Benefit:            note.BenefitLevel(svc.Benefit),
			Version:            svc.Release,
			ChangeDescription:  svc.ChangeDescription,
			KnownIssues:        svc.KnownIssues,
			PRLinks:            append([]string(nil), svc.PRLinks...),
			DesignLinks:        append([]string(nil), svc.DesignLinks...),
			QualityReportLinks: append([]string(nil), svc.QualityReportLinks...),
			AdditionalLinks:    append([]string(nil), svc.AdditionalLinks...),
		})
	}
	return r, nil
}

// canonicalLinks normalizes a nil list to an empty one so the encoded form
// of "no links" is always the empty array, never null.
func canonicalLinks(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
