package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"sunushop-backend/internal/domain"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their JSON name so clients can bind errors to inputs.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks s against its validate tags and returns a
// validation *domain.AppError keyed by JSON field path.
func ValidateStruct(s interface{}) error {
	err := getInstance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError(domain.CodeValidationFailed, err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if _, seen := fields[key]; !seen {
			fields[key] = message(fe)
		}
	}
	return domain.NewFieldErrors(fields)
}

// fieldPath drops the root struct name and embedded struct names, which are
// the only Go-cased segments: "City.DeliveryWindow.deliveryTimeMax" -> "deliveryTimeMax".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for i, p := range parts {
		if i < len(parts)-1 && p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "Ce champ est obligatoire"
	case "excluded_if":
		return "Ce champ doit être vide"
	case "email":
		return "Adresse e-mail invalide"
	case "url":
		return "URL invalide"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Au moins %s caractères", fe.Param())
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Au moins %s élément(s)", fe.Param())
		}
		return fmt.Sprintf("Doit être supérieur ou égal à %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Au plus %s caractères", fe.Param())
		}
		return fmt.Sprintf("Doit être inférieur ou égal à %s", fe.Param())
	case "len":
		return fmt.Sprintf("Doit contenir exactement %s caractères", fe.Param())
	case "gt":
		return fmt.Sprintf("Doit être supérieur à %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Doit être supérieur ou égal à %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Doit être inférieur ou égal à %s", fe.Param())
	case "gtefield":
		return "Doit être supérieur ou égal au minimum"
	case "ltfield":
		return "Doit être inférieur au prix"
	case "oneof":
		return fmt.Sprintf("Valeur attendue parmi : %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return "Valeur invalide"
}
