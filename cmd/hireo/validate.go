package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/hireo/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:     "validate-profile",
	Aliases: []string{"validate"},
	Short:   "Validate a JSON file against a schema",
	Long: `Validates a JSON file against one of the built-in schemas (--kind profile, settings or
cover_letter) or against a schema file given with --schema.`,
	RunE: runValidate,
}

var (
	validateSchemaPath string
	validateKind       string
	validateJSONPath   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to JSON Schema file")
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "profile", "Built-in schema: profile, settings or cover_letter")
	validateCmd.Flags().StringVar(&validateJSONPath, "json", "", "Path to JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchemaPath != "" {
		err = schemas.ValidateJSON(validateSchemaPath, validateJSONPath)
	} else {
		var content []byte
		content, err = os.ReadFile(validateJSONPath)
		if err != nil {
			return fmt.Errorf("failed to read JSON file: %w", err)
		}
		switch validateKind {
		case "profile":
			err = schemas.ValidateProfile(content)
		case "settings":
			err = schemas.ValidateSettings(content)
		case "cover_letter":
			err = schemas.ValidateCoverLetter(content)
		default:
			return fmt.Errorf("unknown --kind %q: must be profile, settings or cover_letter", validateKind)
		}
	}

	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation failed:\n")
			for _, fe := range validationErr.Errors {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("validation found %d error(s)", len(validationErr.Errors))
		}
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateJSONPath)
	return nil
}
