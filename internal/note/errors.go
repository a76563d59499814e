package note

import "errors"

// Validation errors raised by mutation operations and by whole-document
// validation during import. Each rule has its own sentinel so callers can
// branch with errors.Is instead of matching message text.
var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrUnknownContact      = errors.New("unknown contact")
	ErrUnknownService      = errors.New("unknown service")
	ErrDuplicateService    = errors.New("duplicate service")
	ErrNotFound            = errors.New("not found")
	ErrInvalidRiskLevel    = errors.New("invalid risk level")
	ErrInvalidBenefitLevel = errors.New("invalid benefit level")
	ErrInvalidCategory     = errors.New("invalid link category")
	ErrEmptyLink           = errors.New("empty link")
)
