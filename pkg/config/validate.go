package config

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var recordValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Port fields are stored as text, so the builtin numeric range tags
	// would measure string length instead of value.
	_ = v.RegisterValidation("port", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 1 && n <= 65535
	})
	return v
}

// Validate checks the populated record for consumers: IP fields must parse as
// addresses, ports must fall in 1..65535, and the protocol must be TCP or UDP.
// Empty fields pass, since the file format does not require every key.
func (c *Config) Validate() error {
	if err := recordValidator.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
