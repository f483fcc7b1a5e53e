package usecase

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

var nonDigit = regexp.MustCompile(`\D`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool { return isValidCPF(fl.Field().String()) })
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool { return isValidPhoneNumber(fl.Field().String()) })
	v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool { return isValidZipCode(fl.Field().String()) })
	v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool { return isValidCardNumber(fl.Field().String()) })
	v.RegisterValidation("card_month", func(fl validator.FieldLevel) bool { return isValidMonth(fl.Field().String()) })
	v.RegisterValidation("card_year", func(fl validator.FieldLevel) bool { return isValidYear(fl.Field().String()) })
	v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool { return isValidCVV(fl.Field().String()) })
	return v
}

// Validate roda as tags `validate` do struct e devolve nil ou ValidationErrors.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "body", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath remove o nome do struct raiz: "CheckoutInput.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "is invalid"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "cpf", "card_number":
		return "is invalid"
	case "phone":
		return "must be a valid phone number"
	case "zipcode":
		return "must be a valid zip code (XXXXX-XXX)"
	case "card_month":
		return "must be 01-12"
	case "card_year":
		return "must be a 2 or 4 digit year"
	case "cvv":
		return "must be 3 or 4 digits"
	}
	return "is invalid"
}

func isValidCPF(cpf string) bool {
	cleaned := nonDigit.ReplaceAllString(cpf, "")
	if len(cleaned) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != cleaned[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	// dígitos verificadores
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cleaned[i]-'0') * (n + 1 - i)
		}
		d := (sum * 10) % 11
		if d == 10 {
			d = 0
		}
		if d != int(cleaned[n]-'0') {
			return false
		}
	}
	return true
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 11
}

func isValidZipCode(zipcode string) bool {
	return len(nonDigit.ReplaceAllString(zipcode, "")) == 8
}

func isValidCardNumber(cardNumber string) bool {
	cleaned := nonDigit.ReplaceAllString(cardNumber, "")
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return false
	}
	return luhnCheck(cleaned)
}

func luhnCheck(num string) bool {
	sum := 0
	isEven := false

	for i := len(num) - 1; i >= 0; i-- {
		digit := int(num[i] - '0')

		if isEven {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isEven = !isEven
	}

	return sum%10 == 0
}

func isValidMonth(month string) bool {
	return regexp.MustCompile(`^(0[1-9]|1[0-2])$`).MatchString(month)
}

func isValidYear(year string) bool {
	if !regexp.MustCompile(`^\d{2}(\d{2})?$`).MatchString(year) {
		return false
	}

	fullYear := year
	if len(year) == 2 {
		fullYear = "20" + year
	}

	yearInt := 0
	fmt.Sscanf(fullYear, "%d", &yearInt)
	return yearInt >= time.Now().Year()
}

func isValidCVV(cvv string) bool {
	return regexp.MustCompile(`^\d{3,4}$`).MatchString(cvv)
}
