package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every atlas config without building",
	Long: "Resolves and validates config.json in every atlas folder. No images are\n" +
		"decoded and nothing is written. Every folder is checked; any failure exits 1.",
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.builder.ValidateAll(cmd.Context(), s.paths.Src); err != nil {
		return exitError{1}
	}
	s.console.Done("All atlas configs are valid.")
	return nil
}
