package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hotelbooking/model"
)

// validPrice accepts a positive amount, with or without the currency
// suffix, e.g. "100" or "100 VND".
func validPrice(fl validator.FieldLevel) bool {
	n, ok := model.ParsePrice(fl.Field().String())
	return ok && n > 0
}

// RegisterValidations adds the custom binding tags to gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("price", validPrice)
}
