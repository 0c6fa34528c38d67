// Package report prints a store's history as plain or coloured text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/five82/tally/internal/store"
	"github.com/five82/tally/internal/todo"
)

// Options control the output.
type Options struct {
	Color bool
}

type palette struct {
	seq     func(string, ...any) string
	action  func(string, ...any) string
	muted   func(string, ...any) string
	done    func(string, ...any) string
	pending func(string, ...any) string
}

func newPalette(colored bool) palette {
	if !colored {
		return palette{fmt.Sprintf, fmt.Sprintf, fmt.Sprintf, fmt.Sprintf, fmt.Sprintf}
	}
	mk := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintfFunc()
	}
	return palette{
		seq:     mk(color.FgHiBlack),
		action:  mk(color.FgCyan, color.Bold),
		muted:   mk(color.FgHiBlack),
		done:    mk(color.FgGreen),
		pending: mk(color.FgYellow),
	}
}

// Write prints history oldest first, one line per entry, followed by the
// todos of the newest entry. history is in Store.History order.
func Write(w io.Writer, history []store.Entry[todo.State], opts Options) error {
	p := newPalette(opts.Color)
	var b strings.Builder

	width := 0
	for _, e := range history {
		width = max(width, len(todo.Describe(e.Action)))
	}

	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		st := e.Snapshot.Extract()
		done, total := st.Counts()
		desc := todo.Describe(e.Action)
		b.WriteString(p.seq("#%-3d", e.Seq))
		b.WriteString(" ")
		b.WriteString(p.action("%s", desc))
		b.WriteString(strings.Repeat(" ", width-len(desc)))
		b.WriteString(p.muted("  %d/%d done", done, total))
		b.WriteString("\n")
	}

	if len(history) > 0 {
		b.WriteString("\n")
		for i, t := range history[0].Snapshot.Extract().Todos {
			if t.Status == todo.Complete {
				b.WriteString(p.done("%2d [x] %s", i, t.Text))
			} else {
				b.WriteString(p.pending("%2d [ ] %s", i, t.Text))
			}
			b.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
