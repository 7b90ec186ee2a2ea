// Package validation provides input validation for recordkit.
//
// Struct tag validation (go-playground/validator) checks configuration
// structs; the programmatic Validator collects field errors and is used by
// the record registry to vet record names.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    MaxRecords int    `mapstructure:"max_records" validate:"gte=0"`
//	    FatalMode  string `mapstructure:"fatal_mode" validate:"oneof=panic exit"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New().RecordName("name", name, cfg.MaxNameLength)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
