package megaplan

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	paramValidator *validator.Validate
	validatorOnce  sync.Once
)

// V returns the validator used for method arguments and option structs, with
// the enum validators registered.
func V() *validator.Validate {
	validatorOnce.Do(func() {
		paramValidator = validator.New(validator.WithRequiredStructEnabled())
		enums := []struct {
			tag     string
			allowed []string
		}{
			{"folder", folders},
			{"status", statuses},
			{"action", actions},
			{"subjectType", subjectTypes},
			{"order", orders},
			{"employeeOrderBy", employeeOrderBys},
			{"gender", genders},
			{"employeeStatus", employeeStatuses},
		}
		for _, e := range enums {
			if err := paramValidator.RegisterValidation(e.tag, oneOf(e.allowed)); err != nil {
				panic(fmt.Sprintf("megaplan: registering validator %q: %v", e.tag, err))
			}
		}
	})
	return paramValidator
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// validateStruct checks v against its validate tags.
func validateStruct(v any) error {
	if err := V().Struct(v); err != nil {
		return parameterError(err)
	}
	return nil
}

// validateVar checks a single argument against tag.
func validateVar(name string, value any, tag string) error {
	if err := V().Var(value, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return ErrParameter.Msg(fmt.Sprintf("%s: invalid value %q", name, fmt.Sprint(value)))
		}
		return ErrParameter.Err(err)
	}
	return nil
}

func parameterError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return ErrParameter.Err(err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q", fe.Field(), fmt.Sprint(fe.Value())))
	}
	return ErrParameter.Msg(strings.Join(msgs, "; "))
}
