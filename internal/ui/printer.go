package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/present"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way CLI commands produce styled output.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	p.width = width
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintBanner prints the placeholder/failed banner for snap, if any
func (p *Printer) PrintBanner(snap inventory.Snapshot) {
	if banner := RenderSourceBanner(snap); banner != "" {
		p.Println(banner)
		p.Newline()
	}
}

// PrintStats prints the stats strip
func (p *Printer) PrintStats(stats inventory.Stats) {
	p.Println(RenderStats(stats))
}

// PrintTable prints a device table
func (p *Printer) PrintTable(view present.TableView) {
	p.Println(RenderTable(view, p.width))
}

// PrintCompact prints a tab-separated device list
func (p *Printer) PrintCompact(view present.TableView) {
	p.Println(RenderCompact(view))
}

// PrintDetail prints one device's detail box
func (p *Printer) PrintDetail(view present.DetailView) {
	p.Println(RenderDetail(view, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details map[string]string) {
	p.Println(RenderWarningBox(title, details, p.width))
}

// PrintError prints an error result box with a troubleshooting hint
func (p *Printer) PrintError(title string, err error, hint string) {
	p.Println(RenderErrorBox(title, err, hint, p.width))
}
