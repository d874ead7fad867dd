// Package app wires the layout, compose and adapter packages into the
// atlas build pipeline: discover atlas folders, build each one, write the
// outputs and record them in the ledger.
package app

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/zeebo/blake3"

	"github.com/corey/atlaspack/internal/domain/compose"
	"github.com/corey/atlaspack/internal/domain/layout"
	"github.com/corey/atlaspack/internal/ports"
)

// ErrIO means listing, reading or writing the filesystem failed.
var ErrIO = errors.New("io error")

// AtlasError names the atlas folder whose build failed.
type AtlasError struct {
	Name string
	Err  error
}

func (e *AtlasError) Error() string { return fmt.Sprintf("atlas '%s': %v", e.Name, e.Err) }
func (e *AtlasError) Unwrap() error { return e.Err }

// Artifact is one built atlas held in memory: the encoded PNG, the encoded
// manifest and the ledger record describing them.
type Artifact struct {
	Name     string
	PNG      []byte
	Manifest []byte
	Record   *ports.AtlasRecord
}

// RunResult summarizes a Run. Built lists every atlas written, in build
// order; Unchanged is the subset whose outputs matched the ledger.
type RunResult struct {
	Built     []string
	Unchanged []string
	Failed    []string
}

// Builder runs the atlas pipeline. Ledger may be nil.
type Builder struct {
	Codec      ports.ImageCodec
	Compositor *compose.Compositor
	Ledger     ports.Ledger
	Reporter   ports.Reporter

	// KeepGoing attempts every folder instead of stopping at the first
	// failure. The run still fails if any folder did.
	KeepGoing bool

	Now func() time.Time
}

// NewBuilder returns a Builder. A nil reporter discards output; a nil
// ledger disables build records.
func NewBuilder(codec ports.ImageCodec, filter imaging.ResampleFilter, ledger ports.Ledger, reporter ports.Reporter) *Builder {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}
	return &Builder{
		Codec:      codec,
		Compositor: compose.NewCompositor(codec, filter, reporter),
		Ledger:     ledger,
		Reporter:   reporter,
		Now:        time.Now,
	}
}

// OutputPaths returns the image and manifest paths for atlas name under out.
func OutputPaths(out, name string) (pngPath, manifestPath string) {
	return filepath.Join(out, "atlas_"+name+".png"), filepath.Join(out, "atlas_"+name+".json")
}

// ListAtlases returns the names of the immediate subdirectories of src
// (symlinks to directories included), sorted by raw byte order.
func ListAtlases(src string) ([]string, error) {
	info, err := os.Stat(src)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return nil, fmt.Errorf("%w: Source folder not found: %s", ErrIO, src)
	case err != nil:
		return nil, fmt.Errorf("%w: Failed to access source folder %s: %w", ErrIO, src, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: Source folder not found: %s", ErrIO, src)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("%w: Failed to list atlas folders: %v", ErrIO, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			if fi, err := os.Stat(filepath.Join(src, e.Name())); err == nil && fi.IsDir() {
				names = append(names, e.Name())
			}
		}
	}
	// Go strings compare bytewise.
	slices.Sort(names)
	return names, nil
}

// Render builds the atlas in dir entirely in memory.
func (b *Builder) Render(name, dir string) (*Artifact, error) {
	cfg, err := b.plan(dir)
	if err != nil {
		return nil, err
	}

	placeholder, err := b.Compositor.LoadPlaceholder(dir)
	if err != nil {
		return nil, err
	}

	canvas, slots, err := b.Compositor.Composite(cfg, dir, placeholder)
	if err != nil {
		return nil, err
	}

	var img bytes.Buffer
	if err := b.Codec.Encode(&img, canvas); err != nil {
		return nil, fmt.Errorf("encoding atlas image: %w", err)
	}

	m := &compose.Manifest{Name: name, Width: cfg.CanvasWidth, Height: cfg.CanvasHeight, Slots: slots}
	manifest, err := m.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	filled, placeholders := m.Counts()
	return &Artifact{
		Name:     name,
		PNG:      img.Bytes(),
		Manifest: manifest,
		Record: &ports.AtlasRecord{
			Name:           name,
			Width:          cfg.CanvasWidth,
			Height:         cfg.CanvasHeight,
			Slots:          len(slots),
			Filled:         filled,
			Placeholders:   placeholders,
			ImageDigest:    digest(img.Bytes()),
			ManifestDigest: digest(manifest),
		},
	}, nil
}

// plan loads and validates the layout of one atlas folder.
func (b *Builder) plan(dir string) (*layout.AtlasConfig, error) {
	cfg, err := layout.Load(dir)
	if err != nil {
		if isConfigError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := layout.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run builds every atlas folder under src and writes the outputs to out.
// Failures are reported as they happen; the returned error joins them.
func (b *Builder) Run(ctx context.Context, src, out string) (*RunResult, error) {
	names, err := ListAtlases(src)
	if err != nil {
		b.Reporter.Error(message(err))
		return nil, err
	}

	res := &RunResult{}
	if len(names) == 0 {
		b.Reporter.Warn(fmt.Sprintf("No atlas folders found in %s. Nothing to build.", src))
		return res, nil
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		err = fmt.Errorf("%w: creating output folder: %v", ErrIO, err)
		b.Reporter.Error(message(err))
		return nil, err
	}

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		unchanged, err := b.buildOne(name, filepath.Join(src, name), out)
		if err != nil {
			aerr := &AtlasError{Name: name, Err: err}
			b.Reporter.Error(describe(aerr))
			res.Failed = append(res.Failed, name)
			errs = append(errs, aerr)
			if !b.KeepGoing {
				break
			}
			continue
		}
		res.Built = append(res.Built, name)
		if unchanged {
			res.Unchanged = append(res.Unchanged, name)
		}
	}
	return res, errors.Join(errs...)
}

// buildOne renders, writes and records one atlas. It reports whether the
// outputs are identical to the previous recorded build.
func (b *Builder) buildOne(name, dir, out string) (bool, error) {
	art, err := b.Render(name, dir)
	if err != nil {
		return false, err
	}

	pngPath, manifestPath := OutputPaths(out, name)
	if err := os.WriteFile(pngPath, art.PNG, 0644); err != nil {
		return false, fmt.Errorf("%w: writing %s: %v", ErrIO, pngPath, err)
	}
	if err := os.WriteFile(manifestPath, art.Manifest, 0644); err != nil {
		return false, fmt.Errorf("%w: writing %s: %v", ErrIO, manifestPath, err)
	}

	unchanged := b.record(art.Record)
	suffix := ""
	if unchanged {
		suffix = " (unchanged)"
	}
	b.Reporter.OK(fmt.Sprintf("Built atlas '%s' -> %s%s", name, pngPath, suffix))
	return unchanged, nil
}

// record stores rec in the ledger and reports whether it matches the
// previous record. The ledger is bookkeeping: its failures are warnings.
func (b *Builder) record(rec *ports.AtlasRecord) bool {
	if b.Ledger == nil {
		return false
	}
	prev, err := b.Ledger.Lookup(rec.Name)
	if err != nil {
		b.Reporter.Warn(fmt.Sprintf("ledger lookup for '%s' failed: %v", rec.Name, err))
	}
	rec.BuiltAt = b.Now().UTC()
	if err := b.Ledger.Record(rec); err != nil {
		b.Reporter.Warn(fmt.Sprintf("ledger record for '%s' failed: %v", rec.Name, err))
	}
	return prev.SameOutput(rec)
}

// Drift describes an output file that does not match a fresh build.
// Want is the digest of the freshly built bytes; Got is the digest of the
// file on disk, or empty when the file is missing.
type Drift struct {
	Atlas string
	Path  string
	Want  string
	Got   string
}

// Check builds every atlas in memory and compares the results with the
// files already in out. Nothing is written.
func (b *Builder) Check(ctx context.Context, src, out string) ([]Drift, error) {
	names, err := ListAtlases(src)
	if err != nil {
		b.Reporter.Error(message(err))
		return nil, err
	}

	var drift []Drift
	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return drift, err
		}

		art, err := b.Render(name, filepath.Join(src, name))
		if err != nil {
			aerr := &AtlasError{Name: name, Err: err}
			b.Reporter.Error(describe(aerr))
			errs = append(errs, aerr)
			if !b.KeepGoing {
				break
			}
			continue
		}

		pngPath, manifestPath := OutputPaths(out, name)
		before := len(drift)
		for _, f := range []struct {
			path string
			data []byte
		}{{pngPath, art.PNG}, {manifestPath, art.Manifest}} {
			d, err := compareFile(name, f.path, f.data)
			if err != nil {
				aerr := &AtlasError{Name: name, Err: err}
				b.Reporter.Error(describe(aerr))
				errs = append(errs, aerr)
				continue
			}
			if d != nil {
				drift = append(drift, *d)
			}
		}
		if len(drift) == before {
			b.Reporter.OK(fmt.Sprintf("Atlas '%s' is up to date", name))
		}
	}
	return drift, errors.Join(errs...)
}

func compareFile(atlas, path string, want []byte) (*Drift, error) {
	got, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Drift{Atlas: atlas, Path: path, Want: digest(want)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
	}
	if bytes.Equal(got, want) {
		return nil, nil
	}
	return &Drift{Atlas: atlas, Path: path, Want: digest(want), Got: digest(got)}, nil
}

// ValidateAll normalizes and validates every atlas folder without
// compositing. It returns the names of the folders that passed.
func (b *Builder) ValidateAll(ctx context.Context, src string) ([]string, error) {
	names, err := ListAtlases(src)
	if err != nil {
		b.Reporter.Error(message(err))
		return nil, err
	}

	var valid []string
	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return valid, err
		}
		cfg, err := b.plan(filepath.Join(src, name))
		if err != nil {
			aerr := &AtlasError{Name: name, Err: err}
			b.Reporter.Error(describe(aerr))
			errs = append(errs, aerr)
			continue
		}
		valid = append(valid, name)
		b.Reporter.OK(fmt.Sprintf("Atlas '%s' is valid (%dx%d, %d slots)",
			name, cfg.CanvasWidth, cfg.CanvasHeight, len(cfg.Slots)))
	}
	return valid, errors.Join(errs...)
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isConfigError(err error) bool {
	return errors.Is(err, layout.ErrConfigParse) ||
		errors.Is(err, layout.ErrConfigType) ||
		errors.Is(err, layout.ErrConfigBounds) ||
		errors.Is(err, layout.ErrConfigValidation)
}

// describe renders a per-atlas failure, separating config problems from
// runtime ones.
func describe(e *AtlasError) string {
	if isConfigError(e.Err) {
		return fmt.Sprintf("Config validation error for atlas '%s': %s", e.Name, message(e.Err))
	}
	return fmt.Sprintf("Runtime error building atlas '%s': %s", e.Name, message(e.Err))
}

// message strips the leading sentinel text ("io error: ", ...) that %w
// wrapping puts in front of the detail.
func message(err error) string {
	msg := err.Error()
	for _, s := range []error{ErrIO, compose.ErrAsset, layout.ErrConfigParse, layout.ErrConfigType,
		layout.ErrConfigBounds, layout.ErrConfigValidation} {
		if rest, ok := strings.CutPrefix(msg, s.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
