package cmd

import (
	"github.com/spf13/cobra"
)

var keepGoingFlag bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every atlas",
	Long: "Builds each folder under --src into atlas_<name>.png and atlas_<name>.json in --out.\n" +
		"Folders are processed in byte order. The first failing atlas stops the run\n" +
		"unless --keep-going is given; any failure exits 1.",
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&keepGoingFlag, "keep-going", false, "Build remaining atlases after a failure (still exits 1)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	s.builder.KeepGoing = keepGoingFlag
	res, err := s.builder.Run(cmd.Context(), s.paths.Src, s.paths.Out)
	if err != nil {
		return exitError{1}
	}
	if len(res.Built) > 0 {
		s.console.Done("All atlases processed successfully.")
	}
	return nil
}
