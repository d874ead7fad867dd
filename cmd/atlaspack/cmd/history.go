package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/atlaspack/internal/app"
)

var forgetFlag []string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the last recorded build of every atlas",
	Long: "Lists the build ledger (.atlaspack/ledger.db): size, slot counts and output\n" +
		"digests of each atlas's most recent successful build, in byte order.",
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringSliceVar(&forgetFlag, "forget", nil, "Remove the named atlases from the ledger")
}

func runHistory(cmd *cobra.Command, args []string) (err error) {
	paths := app.NewPaths(projectRoot(), srcFlag, outFlag)
	out := cmd.OutOrStdout()
	color := resolveColor(colorFlag, noColorFlag)

	if _, serr := os.Stat(paths.Ledger); errors.Is(serr, fs.ErrNotExist) {
		fmt.Fprintln(out, "no builds recorded yet")
		return nil
	}

	store, err := openLedger(paths)
	if err != nil {
		return err
	}
	defer closeLedger(store, &err)

	for _, name := range forgetFlag {
		if err := store.Forget(name); err != nil {
			return fmt.Errorf("forget %s: %w", name, err)
		}
		fmt.Fprintf(out, "forgot %s\n", name)
	}

	recs, err := store.List()
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "no builds recorded yet")
		return nil
	}
	fmt.Fprint(out, formatHistory(recs, color))
	return nil
}
