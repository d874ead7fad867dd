package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/corey/atlaspack/internal/app"
	"github.com/corey/atlaspack/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// console is the terminal ports.Reporter. Errors go to stderr, everything
// else to stdout.
type console struct {
	out   io.Writer
	err   io.Writer
	color bool
}

func newConsole(out, err io.Writer, color bool) *console {
	return &console{out: out, err: err, color: color}
}

func (c *console) OK(msg string)    { c.line(c.out, "[OK]", colorGreen, msg) }
func (c *console) Info(msg string)  { c.line(c.out, "[..]", colorCyan, msg) }
func (c *console) Warn(msg string)  { c.line(c.out, "[WARN]", colorYellow, msg) }
func (c *console) Error(msg string) { c.line(c.err, "[ERROR]", colorRed, msg) }
func (c *console) Done(msg string)  { c.line(c.out, "[DONE]", colorBold+colorGreen, msg) }

func (c *console) line(w io.Writer, tag, color, msg string) {
	if c.color {
		fmt.Fprintf(w, "%s%s%s %s\n", color, tag, colorReset, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", tag, msg)
}

var _ ports.Reporter = (*console)(nil)

// formatDrift describes one output file that a fresh build would change.
func formatDrift(d app.Drift) string {
	if d.Got == "" {
		return fmt.Sprintf("Atlas '%s': %s is missing (expected blake3 %s)", d.Atlas, d.Path, shortDigest(d.Want))
	}
	return fmt.Sprintf("Atlas '%s': %s is stale (blake3 %s, fresh build %s)",
		d.Atlas, d.Path, shortDigest(d.Got), shortDigest(d.Want))
}

// formatHistory renders ledger records as an aligned table.
//
//	NAME   SIZE       SLOTS  FILLED  PLACEHOLDER  IMAGE         BUILT
//	ui     2048x2048  16     12      3            9f2c1a0b7e3d  2026-03-14 09:26:53
func formatHistory(recs []*ports.AtlasRecord, color bool) string {
	nameW := len("NAME")
	for _, r := range recs {
		nameW = max(nameW, len(r.Name))
	}

	var sb strings.Builder
	header := fmt.Sprintf("%-*s  %-10s %-6s %-7s %-12s %-13s %s", nameW, "NAME", "SIZE", "SLOTS", "FILLED", "PLACEHOLDER", "IMAGE", "BUILT")
	if color {
		header = colorBold + header + colorReset
	}
	sb.WriteString(header + "\n")

	for _, r := range recs {
		name := fmt.Sprintf("%-*s", nameW, r.Name)
		digest := fmt.Sprintf("%-13s", shortDigest(r.ImageDigest))
		if color {
			name = colorCyan + name + colorReset
			digest = colorGray + digest + colorReset
		}
		sb.WriteString(fmt.Sprintf("%s  %-10s %-6d %-7d %-12d %s %s\n",
			name, fmt.Sprintf("%dx%d", r.Width, r.Height), r.Slots, r.Filled, r.Placeholders,
			digest, r.BuiltAt.Local().Format(time.DateTime)))
	}
	return sb.String()
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
