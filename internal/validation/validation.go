// Package validation checks candidate payloads for the four zoo resources.
//
// Every resource is described by a Schema: an ordered list of fields. A
// payload is checked in fixed phases and only the FIRST violated rule is
// reported, so a caller never sees a composite of several errors:
//
//  1. presence: every field supplied and not null (one joint message)
//  2. emptiness: text fields, after trimming, are not ""
//  3. format: email pattern and enumerations
//  4. lower bound: numeric fields respect their minimum
//  5. integrality: numeric fields are whole numbers
//
// The individual rule checks are go-playground/validator tags applied with
// Var, plus two custom tags registered here: "zooemail" and "whole".
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailPattern accepts local@domain.tld where no part holds whitespace or "@".
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// maxWhole is the largest magnitude still treated as an exact whole number.
const maxWhole = 1 << 53

// validate is shared: a *validator.Validate caches per-tag parsing and is
// safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("zooemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f) && math.Abs(f) <= maxWhole
	})

	return v
}

// Result is the outcome of validating one payload.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result { return Result{Valid: true} }

func fail(msg string) Result { return Result{Valid: false, Message: msg} }

// Payload is a decoded JSON object. Numbers are expected as json.Number
// (decoder.UseNumber) but float64 and int values are accepted as well.
type Payload map[string]any

// Text returns the field coerced to a string and trimmed.
func (p Payload) Text(key string) string {
	return text(p[key])
}

// Int returns a numeric field as an int. Call only after validation.
func (p Payload) Int(key string) int {
	n, _ := number(p[key])
	return int(n)
}

// CandidateID returns the caller-supplied identifier, verbatim, if any.
// Strings and numbers are accepted; anything else means "generate one".
func (p Payload) CandidateID() string {
	switch v := p["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return strings.TrimSpace(fmt.Sprint(t))
		}
		return strings.TrimSpace(string(b))
	}
}

// number reports the numeric value of v and whether v is a JSON number at all.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
