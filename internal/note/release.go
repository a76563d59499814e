// internal/note/release.go
//
// The release document model. A Release is owned by exactly one form session
// and mutated only through the methods below; every method validates before it
// commits, so no sequence of calls can leave the document violating an
// invariant, and a rejected call leaves the document exactly as it was.

package note

import (
	"fmt"
	"strings"
)

// Release is the top-level document being authored: one release's note.
type Release struct {
	Date     Date
	Contact  string
	Services []*ServiceEntry

	validator *Validator
}

// ServiceEntry is the per-service block of a release note.
type ServiceEntry struct {
	Name       string
	ConfigOnly bool
	Risk       RiskLevel
	Benefit    BenefitLevel

	Version           string
	ChangeDescription string
	KnownIssues       string

	PRLinks            []string
	DesignLinks        []string
	QualityReportLinks []string
	AdditionalLinks    []string
}

// NewRelease creates an empty release bound to a validator. The date starts
// unset and no services are selected.
func NewRelease(v *Validator) *Release {
	return &Release{validator: v}
}

// Validator returns the validator this release was created with.
func (r *Release) Validator() *Validator {
	return r.validator
}

// SetDate replaces the provisional release date. An unset (zero) date is
// always accepted; anything else must be a real calendar day.
func (r *Release) SetDate(d Date) error {
	if err := r.validator.Date(d); err != nil {
		return err
	}
	r.Date = d
	return nil
}

// SetContact replaces the point of contact. The empty string is always
// accepted because the contact is optional.
func (r *Release) SetContact(name string) error {
	if err := r.validator.Contact(name); err != nil {
		return err
	}
	r.Contact = name
	return nil
}

// AddService appends a service entry with default field values. The name
// must be in the catalog and not already selected.
func (r *Release) AddService(name string) error {
	if err := r.validator.ServiceName(name); err != nil {
		return err
	}
	if r.service(name) != nil {
		return fmt.Errorf("%w: %q is already selected", ErrDuplicateService, name)
	}
	r.Services = append(r.Services, &ServiceEntry{
		Name:    name,
		Risk:    RiskLow,
		Benefit: BenefitLow,
	})
	return nil
}

// RemoveService deletes a service entry and everything in it.
func (r *Release) RemoveService(name string) error {
	for i, entry := range r.Services {
		if entry.Name == name {
			r.Services = append(r.Services[:i], r.Services[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: service %q is not selected", ErrNotFound, name)
}

// SetConfigOnly flips the config-only flag for a selected service.
func (r *Release) SetConfigOnly(name string, configOnly bool) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	entry.ConfigOnly = configOnly
	return nil
}

// SetRisk replaces the risk level for a selected service.
func (r *Release) SetRisk(name string, level RiskLevel) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	if err := r.validator.Risk(level); err != nil {
		return err
	}
	entry.Risk = level
	return nil
}

// SetBenefit replaces the benefit level for a selected service.
func (r *Release) SetBenefit(name string, level BenefitLevel) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	if err := r.validator.Benefit(level); err != nil {
		return err
	}
	entry.Benefit = level
	return nil
}

// SetVersion replaces the free-text version for a selected service.
func (r *Release) SetVersion(name, version string) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	entry.Version = strings.TrimSpace(version)
	return nil
}

// SetChangeDescription replaces the change description for a selected service.
func (r *Release) SetChangeDescription(name, text string) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	entry.ChangeDescription = strings.TrimSpace(text)
	return nil
}

// SetKnownIssues replaces the known-issues text for a selected service.
func (r *Release) SetKnownIssues(name, text string) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	entry.KnownIssues = strings.TrimSpace(text)
	return nil
}

// AddLink appends a link to one of the service's link lists. Surrounding
// whitespace is trimmed; text that is blank after trimming is rejected so the
// lists never hold empty entries.
func (r *Release) AddLink(name string, category LinkCategory, text string) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	list, err := entry.links(category)
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: %s entry for %q is blank", ErrEmptyLink, category.Label(), name)
	}
	*list = append(*list, trimmed)
	return nil
}

// SetLink replaces the link at index. Text that is blank after trimming
// deletes the entry instead of leaving a blank slot, which is what happens
// when the user erases the last character of a link in the form.
func (r *Release) SetLink(name string, category LinkCategory, index int, text string) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	list, err := entry.links(category)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*list) {
		return fmt.Errorf("%w: %s index %d for %q", ErrNotFound, category.Label(), index, name)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		*list = append((*list)[:index], (*list)[index+1:]...)
		return nil
	}
	(*list)[index] = trimmed
	return nil
}

// RemoveLink deletes the link at index from one of the service's link lists.
func (r *Release) RemoveLink(name string, category LinkCategory, index int) error {
	entry, err := r.lookup(name)
	if err != nil {
		return err
	}
	list, err := entry.links(category)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*list) {
		return fmt.Errorf("%w: %s index %d for %q", ErrNotFound, category.Label(), index, name)
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return nil
}

// Service returns the entry for name, or nil when the service is not
// selected. The returned pointer is the live entry; callers that only read
// should prefer Snapshot.
func (r *Release) Service(name string) *ServiceEntry {
	return r.service(name)
}

// Snapshot returns a deep copy of the document. Mutating the copy (or the
// original) never affects the other, so renderers and the codec can hold it
// without aliasing the live model.
func (r *Release) Snapshot() *Release {
	copied := &Release{
		Date:      r.Date,
		Contact:   r.Contact,
		validator: r.validator,
	}
	if len(r.Services) > 0 {
		copied.Services = make([]*ServiceEntry, 0, len(r.Services))
		for _, entry := range r.Services {
			copied.Services = append(copied.Services, entry.clone())
		}
	}
	return copied
}

// Equal reports field-wise equality with other. Service entries compare by
// name regardless of selection order, because the codec canonicalizes order
// on export: two documents that differ only in the order services were
// selected are the same release note.
func (r *Release) Equal(other *Release) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Date != other.Date || r.Contact != other.Contact {
		return false
	}
	if len(r.Services) != len(other.Services) {
		return false
	}
	for _, entry := range r.Services {
		match := other.service(entry.Name)
		if match == nil || !entry.equal(match) {
			return false
		}
	}
	return true
}

func (r *Release) lookup(name string) (*ServiceEntry, error) {
	if entry := r.service(name); entry != nil {
		return entry, nil
	}
	return nil, fmt.Errorf("%w: service %q is not selected", ErrNotFound, name)
}

func (r *Release) service(name string) *ServiceEntry {
	for _, entry := range r.Services {
		if entry.Name == name {
			return entry
		}
	}
	return nil
}

// links resolves a category to the backing slice so add/set/remove share one
// code path per list.
func (e *ServiceEntry) links(category LinkCategory) (*[]string, error) {
	switch category {
	case CategoryPR:
		return &e.PRLinks, nil
	case CategoryDesign:
		return &e.DesignLinks, nil
	case CategoryQualityReport:
		return &e.QualityReportLinks, nil
	case CategoryAdditional:
		return &e.AdditionalLinks, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
}

// Links returns a copy of the list for the given category.
func (e *ServiceEntry) Links(category LinkCategory) ([]string, error) {
	list, err := e.links(category)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), *list...), nil
}

func (e *ServiceEntry) clone() *ServiceEntry {
	copied := *e
	copied.PRLinks = append([]string(nil), e.PRLinks...)
	copied.DesignLinks = append([]string(nil), e.DesignLinks...)
	copied.QualityReportLinks = append([]string(nil), e.QualityReportLinks...)
	copied.AdditionalLinks = append([]string(nil), e.AdditionalLinks...)
	return &copied
}

func (e *ServiceEntry) equal(other *ServiceEntry) bool {
	if e.Name != other.Name ||
		e.ConfigOnly != other.ConfigOnly ||
		e.Risk != other.Risk ||
		e.Benefit != other.Benefit ||
		e.Version != other.Version ||
		e.ChangeDescription != other.ChangeDescription ||
		e.KnownIssues != other.KnownIssues {
		return false
	}
	return stringsEqual(e.PRLinks, other.PRLinks) &&
		stringsEqual(e.DesignLinks, other.DesignLinks) &&
		stringsEqual(e.QualityReportLinks, other.QualityReportLinks) &&
		stringsEqual(e.AdditionalLinks, other.AdditionalLinks)
}

// stringsEqual treats a nil slice and an empty slice as the same list.
func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
