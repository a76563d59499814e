// internal/note/validate.go
//
// One rule set shared by both validation paths: mutation operations check
// field-by-field as the user edits, and the codec re-checks the whole
// document in one batch after decoding a transport string. Keeping the rules
// in one place guarantees the two paths can never drift apart.

package note

import (
	"fmt"
	"strings"
)

// Validator holds the catalog snapshot for one form session and answers
// membership and well-formedness questions about field values. It is
// stateless apart from the catalog sets, which are treated as immutable for
// the session's duration.
type Validator struct {
	contacts map[string]struct{}
	services map[string]struct{}
}

// NewValidator builds a validator over the given catalog sets. The slices
// are copied; later changes to them do not affect the validator.
func NewValidator(contacts, services []string) *Validator {
	v := &Validator{
		contacts: make(map[string]struct{}, len(contacts)),
		services: make(map[string]struct{}, len(services)),
	}
	for _, name := range contacts {
		v.contacts[name] = struct{}{}
	}
	for _, name := range services {
		v.services[name] = struct{}{}
	}
	return v
}

// Date accepts the unset date or any real calendar day.
func (v *Validator) Date(d Date) error {
	return d.Validate()
}

// Contact accepts the empty string (contact is optional) or any catalog
// contact name.
func (v *Validator) Contact(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := v.contacts[name]; !ok {
		return fmt.Errorf("%w: %q is not in the contact catalog", ErrUnknownContact, name)
	}
	return nil
}

// ServiceName accepts any catalog service name.
func (v *Validator) ServiceName(name string) error {
	if _, ok := v.services[name]; !ok {
		return fmt.Errorf("%w: %q is not in the service catalog", ErrUnknownService, name)
	}
	return nil
}

// Risk accepts the three enumerated risk levels.
func (v *Validator) Risk(level RiskLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRiskLevel, level)
	}
	return nil
}

// Benefit accepts the three enumerated benefit levels.
func (v *Validator) Benefit(level BenefitLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidBenefitLevel, level)
	}
	return nil
}

// Category accepts the four link-list categories.
func (v *Validator) Category(c LinkCategory) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	return nil
}

// LinkText accepts text that is non-blank after trimming.
func (v *Validator) LinkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: link text is blank", ErrEmptyLink)
	}
	return nil
}

// Document batch-checks a whole release against every rule, the way decode
// does after rebuilding a document from a transport string. The first
// violation is returned; a nil error means every invariant holds.
func (v *Validator) Document(r *Release) error {
	if r == nil {
		return fmt.Errorf("note: nil release")
	}
	if err := v.Date(r.Date); err != nil {
		return err
	}
	if err := v.Contact(r.Contact); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(r.Services))
	for _, entry := range r.Services {
		if err := v.ServiceName(entry.Name); err != nil {
			return err
		}
		if _, dup := seen[entry.Name]; dup {
			return fmt.Errorf("%w: %q appears twice", ErrDuplicateService, entry.Name)
		}
		seen[entry.Name] = struct{}{}
		if err := v.Risk(entry.Risk); err != nil {
			return fmt.Errorf("service %q: %w", entry.Name, err)
		}
		if err := v.Benefit(entry.Benefit); err != nil {
			return fmt.Errorf("service %q: %w", entry.Name, err)
		}
		for _, category := range LinkCategories {
			list, err := entry.Links(category)
			if err != nil {
				return err
			}
			for i, text := range list {
				if err := v.LinkText(text); err != nil {
					return fmt.Errorf("service %q: %s[%d]: %w", entry.Name, category.Label(), i, err)
				}
			}
		}
	}
	return nil
}
