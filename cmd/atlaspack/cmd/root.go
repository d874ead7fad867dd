package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/atlaspack/internal/adapters/imagecodec"
	"github.com/corey/atlaspack/internal/app"
	"github.com/corey/atlaspack/internal/domain/compose"
)

// Persistent flags shared by every command.
var (
	srcFlag      string
	outFlag      string
	filterFlag   string
	colorFlag    string
	noColorFlag  bool
	noLedgerFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "atlaspack",
	Short: "atlaspack: deterministic texture atlas builder",
	Long: "Packs each folder under the source root into one atlas image plus a JSON slot manifest.\n" +
		"Layouts come from an optional config.json per folder (explicit slots or a grid);\n" +
		"without one a 4x4 grid of 512px slots is used.\n\n" +
		"Source formats: " + strings.Join(imagecodec.Formats(), ", ") + ".",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&srcFlag, "src", app.DefaultSrcDir, "Folder holding one subfolder per atlas")
	pf.StringVar(&outFlag, "out", app.DefaultOutDir, "Folder receiving atlas_<name>.png and atlas_<name>.json")
	pf.StringVar(&filterFlag, "filter", compose.DefaultFilter, "Resampling filter: box, catmullrom, lanczos, linear, nearest")
	pf.StringVar(&colorFlag, "color", "auto", "Colorize output: auto, always, never")
	pf.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	pf.BoolVar(&noLedgerFlag, "no-ledger", false, "Do not read or write the build ledger")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
}
