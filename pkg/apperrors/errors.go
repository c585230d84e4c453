package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPlaceNameNotFound  = errors.New("place name not found in this county")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationErrors collects field-level validation failures in the order the
// fields were checked. The first recorded message doubles as the top-level
// response message.
type ValidationErrors struct {
	fields   []string
	messages map[string][]string
}

// NewValidationErrors returns an empty ValidationErrors ready for Add calls.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{messages: make(map[string][]string)}
}

// Add records a failure message for a field.
func (v *ValidationErrors) Add(field, message string) {
	if _, ok := v.messages[field]; !ok {
		v.fields = append(v.fields, field)
	}
	v.messages[field] = append(v.messages[field], message)
}

// Empty reports whether no failures were recorded.
func (v *ValidationErrors) Empty() bool {
	return len(v.fields) == 0
}

// Fields returns the failed field names in check order.
func (v *ValidationErrors) Fields() []string {
	return v.fields
}

// Messages returns the failure messages recorded for a field.
func (v *ValidationErrors) Messages(field string) []string {
	return v.messages[field]
}

// FieldMap returns the full field to messages mapping.
func (v *ValidationErrors) FieldMap() map[string][]string {
	return v.messages
}

// Error returns the first recorded message.
func (v *ValidationErrors) Error() string {
	if len(v.fields) == 0 {
		return "validation failed"
	}
	return v.messages[v.fields[0]][0]
}

// ErrOrNil returns v as an error when failures were recorded, nil otherwise.
func (v *ValidationErrors) ErrOrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}
