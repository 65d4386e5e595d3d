package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
)

// Validate checks the configuration before any file is touched. Every problem is reported
// as an *acctdberrors.ErrUsage; settings that are absent are listed in its Missing field.
func (c IngestConfiguration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	usage := &acctdberrors.ErrUsage{}
	var invalid []string
	for _, fe := range fieldErrs {
		name := stripPrefix(fe.Namespace())
		if isMissing(fe) {
			if !contains(usage.Missing, name) {
				usage.Missing = append(usage.Missing, name)
			}
			continue
		}
		invalid = append(invalid, fmt.Sprintf("field %s has invalid value %v: %s %s", name, fe.Value(), fe.Tag(), fe.Param()))
	}
	usage.Message = strings.Join(invalid, "; ")
	return errors.WithStack(usage)
}

// A list that is empty counts as missing, as does an empty element of it.
func isMissing(fe validator.FieldError) bool {
	if fe.Tag() == "required" {
		return true
	}
	return fe.Tag() == "min" && fe.Kind() == reflect.Slice
}

// stripPrefix turns "IngestConfiguration.accounting[0]" into "accounting".
func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.Index(s, "["); idx != -1 {
		s = s[:idx]
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
