package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"food_marketplace/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the domain validation tags on gin's
// validator and makes errors report JSON field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	validators := map[string]validator.Func{
		"dishcategory": func(fl validator.FieldLevel) bool {
			return model.IsDishCategory(fl.Field().String())
		},
		"orderstatus": func(fl validator.FieldLevel) bool {
			_, ok := model.ParseOrderStatus(fl.Field().String())
			return ok
		},
		"paymentmethod": func(fl validator.FieldLevel) bool {
			return model.IsPaymentMethod(fl.Field().String())
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

// bindingMessage renders the first problem found while binding a request.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Invalid value for field '%s'", typeErr.Field)
	}
	if errors.Is(err, model.ErrInvalidMoney) {
		return "Invalid price: use a number with at most two decimal places"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "Invalid request body"
	}
	return "Invalid request: " + err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please enter a valid email"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "dishcategory":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(model.DishCategories, ", "))
	case "orderstatus":
		return "Invalid status value"
	case "paymentmethod":
		return fmt.Sprintf("%s must be one of: %s, %s", field, model.PaymentCard, model.PaymentCOD)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
