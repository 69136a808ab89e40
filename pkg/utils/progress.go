package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultBarWidth = 30
	minBarWidth     = 10
	// space taken by brackets, percentage and ETA
	barOverhead = 24
)

// ProgressBar renders a fractional progress value on a single terminal line
type ProgressBar struct {
	out         io.Writer
	description string
	width       int
	startTime   time.Time
	lastRender  time.Time
	fraction    float64
	interval    time.Duration
}

// NewProgressBar creates a progress bar writing to out.
// The bar is sized to the terminal when out is one.
func NewProgressBar(out io.Writer, description string) *ProgressBar {
	if out == nil {
		out = os.Stdout
	}

	pb := &ProgressBar{
		out:         out,
		description: description,
		width:       defaultBarWidth,
		startTime:   time.Now(),
		interval:    100 * time.Millisecond,
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			pb.fitTo(cols)
		}
	}

	return pb
}

// fitTo shrinks the description and bar to fit a terminal of cols columns
func (pb *ProgressBar) fitTo(cols int) {
	descMax := cols / 3
	if runewidth.StringWidth(pb.description) > descMax {
		pb.description = runewidth.Truncate(pb.description, descMax, "...")
	}

	width := cols - runewidth.StringWidth(pb.description) - barOverhead
	if width < minBarWidth {
		width = minBarWidth
	}
	if width < pb.width {
		pb.width = width
	}
}

// Set records a new fraction in [0,1] and redraws, throttled
func (pb *ProgressBar) Set(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	pb.fraction = fraction

	if fraction < 1 && time.Since(pb.lastRender) < pb.interval {
		return
	}
	pb.lastRender = time.Now()
	pb.render()
}

// Finish draws the final state and ends the line
func (pb *ProgressBar) Finish() {
	pb.render()
	fmt.Fprintln(pb.out)
}

func (pb *ProgressBar) render() {
	filled := int(pb.fraction * float64(pb.width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)

	var eta string
	elapsed := time.Since(pb.startTime)
	if pb.fraction > 0 && pb.fraction < 1 {
		remaining := time.Duration(float64(elapsed)/pb.fraction) - elapsed
		eta = fmt.Sprintf(" ETA %v", remaining.Round(time.Second))
	}

	fmt.Fprintf(pb.out, "\r%s [%s] %5.1f%%%s", pb.description, bar, pb.fraction*100, eta)
}
