package http

import (
	"errors"
	"reflect"
	"strings"

	"collateral-lending/pkg/id"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// CustomValidator plugs validator/v10 into echo.Context.Validate.
type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.IsID32(fl.Field().String())
	})
	// precision is checked per asset once the decimals are known
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

var tagMessages = map[string]func(param string) string{
	"required": func(string) string { return "is required" },
	"hex32":    func(string) string { return "must be 32-char lowercase hex" },
	"amount":   func(string) string { return "must be a non-negative decimal string" },
	"gte":      func(p string) string { return "must be greater than or equal to " + p },
	"lte":      func(p string) string { return "must be less than or equal to " + p },
}

// ToFieldErrors turns validator errors into response details. Any other
// error becomes a single detail on field "_".
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		msg := fe.Tag() + " validation failed"
		if f, ok := tagMessages[fe.Tag()]; ok {
			msg = f(fe.Param())
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
