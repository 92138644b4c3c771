// Package validation checks request payloads field by field and collects
// failures into a field-keyed message map.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Errors maps a field name to its failure messages, in rule order.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether no rule failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Input is a decoded request body: JSON objects decode to any, forms to strings.
type Input map[string]any

// Registration is the normalized result of a valid registration payload.
type Registration struct {
	Name     string
	Bio      string
	Email    string
	Password string
}

// ValidateRegistration applies the name, bio, email and password rules.
// Surrounding whitespace is trimmed from every field except the password.
// Email uniqueness needs the user store and is checked by the caller.
func ValidateRegistration(in Input) (Registration, Errors) {
	errs := Errors{}
	var out Registration

	if name, ok := requiredString(errs, in, "name"); ok {
		name = strings.TrimSpace(name)
		maxChars(errs, "name", name, 255)
		out.Name = name
	}
	if bio, ok := requiredString(errs, in, "bio"); ok {
		bio = strings.TrimSpace(bio)
		maxChars(errs, "bio", bio, 255)
		minChars(errs, "bio", bio, 10)
		out.Bio = bio
	}
	if email, ok := requiredString(errs, in, "email"); ok {
		email = strings.TrimSpace(email)
		if validate.Var(email, "email") != nil {
			errs.Add("email", "The email must be a valid email address.")
		}
		maxChars(errs, "email", email, 255)
		out.Email = email
	}
	if password, ok := requiredString(errs, in, "password"); ok {
		minChars(errs, "password", password, 6)
		confirmation, _ := in["password_confirmation"].(string)
		if confirmation != password {
			errs.Add("password", "The password confirmation does not match.")
		}
		out.Password = password
	}

	return out, errs
}

// ValidateArticle applies the article body rules.
func ValidateArticle(in Input) (string, Errors) {
	errs := Errors{}
	body, ok := requiredString(errs, in, "article")
	if ok {
		body = strings.TrimSpace(body)
		minChars(errs, "article", body, 5)
	}
	return body, errs
}

// requiredString reports ok only when field is a non-blank string; further
// rules are skipped otherwise.
func requiredString(errs Errors, in Input, field string) (string, bool) {
	raw, present := in[field]
	if !present || raw == nil {
		errs.Add(field, fmt.Sprintf("The %s field is required.", field))
		return "", false
	}
	s, isString := raw.(string)
	if !isString {
		errs.Add(field, fmt.Sprintf("The %s must be a string.", field))
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		errs.Add(field, fmt.Sprintf("The %s field is required.", field))
		return "", false
	}
	return s, true
}

func minChars(errs Errors, field, value string, n int) {
	if utf8.RuneCountInString(value) < n {
		errs.Add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
	}
}

func maxChars(errs Errors, field, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		errs.Add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
	}
}
