// Package cli provides terminal output helpers for the ganymede command.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"oxbow-hq/ganymede/pkg/ollama"
)

const barWidth = 40

// Progress renders model download progress on a terminal. Byte-level
// updates redraw an in-place bar; phase changes print on their own line.
type Progress struct {
	writer     io.Writer
	lastStatus string
	barDrawn   bool
}

// NewProgress creates a progress renderer writing to w, defaulting to
// stdout when w is nil.
func NewProgress(w io.Writer) *Progress {
	if w == nil {
		w = os.Stdout
	}
	return &Progress{writer: w}
}

// Update renders one progress entry as delivered during a model pull.
func (p *Progress) Update(status string, total, completed int64) {
	if total > 0 {
		percent := float64(completed) / float64(total) * 100
		filled := int(float64(barWidth) * percent / 100)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		fmt.Fprintf(p.writer, "\r%s [%s] %s / %s",
			status, bar,
			ollama.FormatModelSize(completed),
			ollama.FormatModelSize(total),
		)
		p.barDrawn = true
	} else if status != p.lastStatus {
		if p.barDrawn {
			fmt.Fprintln(p.writer)
			p.barDrawn = false
		}
		fmt.Fprintln(p.writer, status)
	}
	p.lastStatus = status
}

// Finish terminates any in-place bar with a newline.
func (p *Progress) Finish() {
	if p.barDrawn {
		fmt.Fprintln(p.writer)
		p.barDrawn = false
	}
}

// Fail reports a terminal error, first closing any in-place bar.
func (p *Progress) Fail(err error) {
	p.Finish()
	fmt.Fprintf(p.writer, "error: %v\n", err)
}
