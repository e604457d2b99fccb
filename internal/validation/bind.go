package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

var ErrInvalidBody = errors.New("invalid request body")

// FieldErrors maps a field path (e.g. "cart[0].quantity") to the rule it broke.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, rule := range e {
		parts = append(parts, field+": "+rule)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// DecodeJSON decodes the request body into out and validates it.
// It returns ErrInvalidBody for undecodable input and FieldErrors for schema violations.
func DecodeJSON(r *http.Request, out any, v *validatorv10.Validate) error {
	if err := Decode(r, out); err != nil {
		return err
	}
	return Struct(out, v)
}

// Decode only decodes the request body, for handlers that must inspect the
// payload before validating it.
func Decode(r *http.Request, out any) error {
	if r.Body == nil {
		return ErrInvalidBody
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	return nil
}

// Struct validates an already decoded value.
func Struct(out any, v *validatorv10.Validate) error {
	err := v.Struct(out)
	if err == nil {
		return nil
	}

	var verrs validatorv10.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fieldPath(fe.Namespace())] = rule
	}
	return fields
}

// ErrorBody renders a DecodeJSON error as a response payload.
func ErrorBody(err error) map[string]any {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return map[string]any{"error": "validation failed", "fields": fields}
	}
	return map[string]any{"error": ErrInvalidBody.Error()}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
