package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-authform/pkg/validation"
)

var errInvalidValue = errors.New("value is invalid")

var validateFlags struct {
	kind     string
	value    string
	required bool
	primary  string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a single field value",
	Long: `Validate a value the way the forms do and print the result as JSON.
The command exits non-zero when the value is invalid.`,
	Example: `  authform validate --kind email --value ada@example.com --required
  authform validate --kind password-confirm --value Secret1! --primary Secret1!`,
	RunE: runValidate,
}

func init() {
	flags := validateCmd.Flags()
	flags.StringVar(&validateFlags.kind, "kind", string(validation.KindText), "field kind: text, email, tel, password, password-confirm")
	flags.StringVar(&validateFlags.value, "value", "", "value to validate")
	flags.BoolVar(&validateFlags.required, "required", false, "reject empty values")
	flags.StringVar(&validateFlags.primary, "primary", "", "primary password a confirmation must match")
}

func runValidate(cmd *cobra.Command, args []string) error {
	kind, ok := validation.ParseKind(validateFlags.kind)
	if !ok {
		return fmt.Errorf("unknown kind %q", validateFlags.kind)
	}

	result := validation.Validate(validation.Field{
		ID:       "value",
		Kind:     kind,
		Value:    validateFlags.value,
		Required: validateFlags.required,
	}, validation.Context{PrimaryPassword: validateFlags.primary})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%w: %s", errInvalidValue, result.Message)
	}
	return nil
}
