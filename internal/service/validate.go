// Package service contains the business logic for the Notekeeper API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/notekeeper/internal/domain"
)

// TxRunner runs f inside a database transaction. Repos built over the same
// *database.DB join that transaction through the context passed to f.
type TxRunner interface {
	RunInTx(ctx context.Context, f func(ctx context.Context) error) error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json name so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	// minbytes bounds a string's length in bytes rather than characters,
	// matching bcrypt's own byte limit.
	if err := v.RegisterValidation("minbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) >= n
	}); err != nil {
		panic(err)
	}
	return v
}

// validateStruct runs the struct's validate tags and converts the first
// failure into a domain.ErrValidation with a readable message.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, fe.Field())
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", domain.ErrValidation, fe.Field())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", domain.ErrValidation, fe.Field(), fe.Param())
	case "minbytes":
		return fmt.Errorf("%w: %s must be at least %s bytes", domain.ErrValidation, fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", domain.ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", domain.ErrValidation, fe.Field())
	}
}
