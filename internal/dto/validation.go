package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs the custom binding rules the request DTOs
// use for decimal fields. Call once at startup before routes are registered.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("dgt0", decimalGreaterThanZero); err != nil {
		return fmt.Errorf("failed to register dgt0 validation: %w", err)
	}
	if err := v.RegisterValidation("dgte0", decimalGreaterThanOrEqualZero); err != nil {
		return fmt.Errorf("failed to register dgte0 validation: %w", err)
	}
	return nil
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && d.IsPositive()
}

func decimalGreaterThanOrEqualZero(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && !d.IsNegative()
}
