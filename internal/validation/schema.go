package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldKind selects which rules apply to a field.
type FieldKind int

const (
	// Text is a required, trimmed, non-empty string.
	Text FieldKind = iota
	// Email is a trimmed string matching the email pattern.
	Email
	// Enum is a string equal to one of Field.Values.
	Enum
	// Integer is a whole JSON number no smaller than Field.Min.
	Integer
)

// Field describes one payload field.
type Field struct {
	// Key is the JSON property name.
	Key string
	// Label starts every per-field message, e.g. "Years of experience".
	Label string
	Kind  FieldKind
	// Min is the inclusive lower bound of an Integer field.
	Min int
	// Values lists the accepted values of an Enum field.
	Values []string
}

// Schema is the ordered field set of one resource.
type Schema struct {
	// Name is the singular resource name, e.g. "Animal".
	Name   string
	Fields []Field
}

// Keys returns the JSON property names in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// RequiredMessage names every field jointly,
// e.g. "Name, species, age and gender are required".
func (s *Schema) RequiredMessage() string {
	return capitalize(joinAnd(s.Keys())) + " are required"
}

// Validate runs the phases in order and reports the first violation.
func (s *Schema) Validate(p Payload) Result {
	for _, f := range s.Fields {
		if v, present := p[f.Key]; !present || v == nil {
			return fail(s.RequiredMessage())
		}
	}

	for _, f := range s.Fields {
		if f.Kind != Text {
			continue
		}
		if err := validate.Var(p.Text(f.Key), "required"); err != nil {
			return fail(f.Label + " cannot be empty")
		}
	}

	for _, f := range s.Fields {
		switch f.Kind {
		case Email:
			if err := validate.Var(p.Text(f.Key), "zooemail"); err != nil {
				return fail(f.Label + " must be a valid email address")
			}
		case Enum:
			v, isString := p[f.Key].(string)
			if !isString || validate.Var(v, oneOfTag(f.Values)) != nil {
				return fail(f.Label + " can only be " + joinWord(f.Values, "or"))
			}
		}
	}

	for _, f := range s.Fields {
		if f.Kind != Integer {
			continue
		}
		n, isNumber := number(p[f.Key])
		if !isNumber {
			continue
		}
		if err := validate.Var(n, fmt.Sprintf("gte=%d", f.Min)); err != nil {
			return fail(f.Label + " must be " + boundPhrase(f.Min))
		}
	}

	for _, f := range s.Fields {
		if f.Kind != Integer {
			continue
		}
		n, isNumber := number(p[f.Key])
		if !isNumber || validate.Var(n, "whole") != nil {
			return fail(f.Label + " must be a whole number")
		}
	}

	return ok()
}

func boundPhrase(min int) string {
	switch min {
	case 0:
		return "a non-negative number"
	case 1:
		return "a positive number"
	default:
		return fmt.Sprintf("at least %d", min)
	}
}

func oneOfTag(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		if strings.ContainsAny(v, " ") {
			v = "'" + v + "'"
		}
		quoted[i] = v
	}
	return "oneof=" + strings.Join(quoted, " ")
}

func joinAnd(items []string) string {
	return joinWord(items, "and")
}

// joinWord renders ["a","b","c"] as "a, b <word> c".
func joinWord(items []string, word string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + word + " " + items[len(items)-1]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
