package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	fsw "github.com/corey/atlaspack/internal/adapters/fsnotify"
	"github.com/corey/atlaspack/internal/app"
)

var quietFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild atlases whenever their sources change",
	Long: "Builds every atlas, then watches --src and rebuilds after each burst of\n" +
		"changes. Failures are reported and watching continues. Stop with Ctrl-C.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&quietFlag, "quiet", app.DefaultQuiet, "How long sources must stay unchanged before rebuilding")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	// --out may live inside --src; our own writes must not retrigger builds.
	w, err := fsw.NewWatcher(s.paths.Out, s.paths.Root)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.builder.KeepGoing = true
	s.console.Info(fmt.Sprintf("Watching %s (Ctrl-C to stop)", s.paths.Src))
	if err := s.builder.Watch(ctx, w, s.paths.Src, s.paths.Out, quietFlag); err != nil {
		s.console.Error(err.Error())
		return exitError{1}
	}
	s.console.Done("Stopped watching.")
	return nil
}
