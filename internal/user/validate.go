package user

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
)

// Validation messages, keyed by field.
const (
	MsgName        = "Name is required and must be at least 3 characters"
	MsgEmail       = "A valid email is required"
	MsgPhone       = "A valid phone number is required (10 digits)"
	MsgStreet      = "Street is required"
	MsgCity        = "City is required"
	MsgCompanyName = "Company name must be at least 3 characters"
	MsgWebsite     = "A valid URL is required"
)

const minNameLen = 3

var (
	// Unicode spaces count as whitespace, not just ASCII.
	emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	// Prefix match only: anything may follow the host.
	urlPattern = regexp.MustCompile(`^(https?://)?([\w\-]+\.+[A-Za-z]{2,})+/?`)
)

// ErrorMap maps a field name to a human-readable message. An empty map means
// the candidate is valid.
type ErrorMap map[string]string

// Valid reports whether m holds no errors.
func (m ErrorMap) Valid() bool { return len(m) == 0 }

// Has reports whether field has an error.
func (m ErrorMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Fields returns the fields with errors, sorted by name.
func (m ErrorMap) Fields() []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Clone returns an independent copy of m.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Err aggregates the map into a single error, or nil when the map is empty.
// Each entry is a *ValidationError reachable through errors.As.
func (m ErrorMap) Err() error {
	var result *multierror.Error
	for _, f := range m.Fields() {
		result = multierror.Append(result, &ValidationError{Field: f, Message: m[f]})
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = formatValidation
	return result
}

func formatValidation(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("invalid user: %s", strings.Join(parts, "; "))
}

// ValidationError reports one invalid field. It is local to the client and
// never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks c against the field rules. It has no side effects and
// performs no cross-field checks.
func Validate(c Candidate) ErrorMap {
	errs := ErrorMap{}

	if utf8.RuneCountInString(c.Name) < minNameLen {
		errs[FieldName] = MsgName
	}
	if c.Email == "" || !emailPattern.MatchString(c.Email) {
		errs[FieldEmail] = MsgEmail
	}
	if c.Phone == "" || !phonePattern.MatchString(c.Phone) {
		errs[FieldPhone] = MsgPhone
	}
	if c.Street == "" {
		errs[FieldStreet] = MsgStreet
	}
	if c.City == "" {
		errs[FieldCity] = MsgCity
	}

	// Optional fields are only checked when present.
	if c.CompanyName != "" && utf8.RuneCountInString(c.CompanyName) < minNameLen {
		errs[FieldCompanyName] = MsgCompanyName
	}
	if c.Website != "" && !urlPattern.MatchString(c.Website) {
		errs[FieldWebsite] = MsgWebsite
	}

	return errs
}
