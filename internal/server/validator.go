package server

import "github.com/go-playground/validator/v10"

// formValidator adapts go-playground/validator to echo.Validator.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	return &formValidator{v: validator.New()}
}

func (fv *formValidator) Validate(i any) error {
	return fv.v.Struct(i)
}
