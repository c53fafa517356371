package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evgsokolov/surveyflow/pkg/definition"
)

// validateDefinition loads a survey definition and reports whether it is
// well formed. It is meant for checking a definition before deploying it.
func validateDefinition(cmd *cobra.Command, arg *args, path string) error {
	if err := initLogger(arg); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	survey, err := definition.Load(path)
	if err != nil {
		return fmt.Errorf("definition is invalid: %w", err)
	}

	questions := 0
	for _, sec := range survey.Sections {
		questions += len(sec.Questions)
	}

	cmd.Printf("OK: %q, %d sections, %d questions\n", survey.Title, len(survey.Sections), questions)

	return nil
}
