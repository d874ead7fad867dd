package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify committed atlases match their sources",
	Long: "Builds every atlas in memory and compares the bytes with the files in --out.\n" +
		"Nothing is written. Exits 1 if any output is missing or stale, or a build fails.",
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&keepGoingFlag, "keep-going", false, "Check remaining atlases after a build failure")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	s.builder.KeepGoing = keepGoingFlag
	drift, err := s.builder.Check(cmd.Context(), s.paths.Src, s.paths.Out)
	for _, d := range drift {
		s.console.Error(formatDrift(d))
	}
	if err != nil {
		return exitError{1}
	}
	if len(drift) > 0 {
		s.console.Error(fmt.Sprintf("%d output file(s) out of date; run 'atlaspack build'", len(drift)))
		return exitError{1}
	}
	s.console.Done("All atlases are up to date.")
	return nil
}
