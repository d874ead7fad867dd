package cmd

import (
	"fmt"
	"image/png"
	"io"

	"github.com/spf13/cobra"

	"github.com/corey/atlaspack/internal/adapters/bbolt"
	"github.com/corey/atlaspack/internal/adapters/imagecodec"
	"github.com/corey/atlaspack/internal/app"
	"github.com/corey/atlaspack/internal/domain/compose"
	"github.com/corey/atlaspack/internal/ports"
)

// ledgerStore is the ledger as the commands hold it: readable, writable
// and closable.
type ledgerStore interface {
	ports.Ledger
	io.Closer
}

// session holds what the build-style commands share: resolved paths, the
// console, the builder and the ledger it writes to (if any).
type session struct {
	paths   *app.Paths
	console *console
	builder *app.Builder
	ledger  ledgerStore
}

// openSession resolves flags into a ready builder. A ledger that cannot be
// opened is reported and skipped; it never blocks a build.
func openSession(cmd *cobra.Command, withLedger bool) (*session, error) {
	filter, err := compose.ParseFilter(filterFlag)
	if err != nil {
		return nil, err
	}

	s := &session{
		paths:   app.NewPaths(projectRoot(), srcFlag, outFlag),
		console: newConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), resolveColor(colorFlag, noColorFlag)),
	}

	if withLedger && !noLedgerFlag {
		// Assign only on success so a failed open leaves the interface nil.
		store, err := openLedger(s.paths)
		if err != nil {
			s.console.Warn(err.Error())
		} else {
			s.ledger = store
		}
	}

	codec := imagecodec.New(png.DefaultCompression)
	if s.ledger != nil {
		s.builder = app.NewBuilder(codec, filter, s.ledger, s.console)
	} else {
		s.builder = app.NewBuilder(codec, filter, nil, s.console)
	}
	return s, nil
}

func openLedger(paths *app.Paths) (*bbolt.Store, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("build ledger disabled: create .atlaspack dir: %w", err)
	}
	store, err := bbolt.NewStore(paths.Ledger)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("build ledger disabled: %s", diagnoseDBLock(paths.Ledger))
		}
		return nil, fmt.Errorf("build ledger disabled: %w", err)
	}
	return store, nil
}

// Close releases the ledger. The build outcome is already settled, so a
// failed close is reported as a warning.
func (s *session) Close() {
	if s.ledger == nil {
		return
	}
	var err error
	closeLedger(s.ledger, &err)
	if err != nil {
		s.console.Warn(err.Error())
	}
}

// closeLedger closes c and stores a close failure in *errp unless an
// earlier error is already there.
func closeLedger(c io.Closer, errp *error) {
	if cerr := c.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("close build ledger: %w", cerr)
	}
}
