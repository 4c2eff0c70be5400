package models

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names so details match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("mixedcase", func(fl validator.FieldLevel) bool {
		var lower, upper, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return lower && upper && digit
	})
	v.RegisterValidation("experience", func(fl validator.FieldLevel) bool {
		return validExperience[fl.Field().String()]
	})
	return v
}

// fieldRule describes how a failed "<field>.<tag>" check is reported.
type fieldRule struct {
	Code   string
	Reason string
}

func structFailures(s any) (validator.ValidationErrors, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return nil, &ErrorResponse{Code: "validation_error", Message: err.Error()}
	}
	return failures, nil
}

func ruleFor(rules map[string]fieldRule, fe validator.FieldError) fieldRule {
	if rule, ok := rules[fe.Field()+"."+fe.Tag()]; ok {
		return rule
	}
	return fieldRule{Code: "validation_error", Reason: fe.Field() + " failed " + fe.Tag() + " validation"}
}

// collectFailures reports every failing field as a detail under one validation_error.
func collectFailures(s any, message string, rules map[string]fieldRule) error {
	failures, err := structFailures(s)
	if err != nil || failures == nil {
		return err
	}
	details := make([]ValidationErrorDetail, 0, len(failures))
	for _, fe := range failures {
		details = append(details, ValidationErrorDetail{Field: fe.Field(), Reason: ruleFor(rules, fe).Reason})
	}
	return &ErrorResponse{Code: "validation_error", Message: message, Details: details}
}

// firstFailure reports only the first failing field, with its own code.
func firstFailure(s any, rules map[string]fieldRule) error {
	failures, err := structFailures(s)
	if err != nil || failures == nil {
		return err
	}
	rule := ruleFor(rules, failures[0])
	return &ErrorResponse{Code: rule.Code, Message: rule.Reason}
}
