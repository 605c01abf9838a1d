package fetch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// progressInterval is the minimum time between two progress lines
const progressInterval = 200 * time.Millisecond

// TerminalProgress returns f when it is a terminal and nil otherwise, so
// that progress lines are not written into redirected output.
func TerminalProgress(f *os.File) io.Writer {
	if f == nil {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return f
	}
	return nil
}

// progressWriter counts the bytes written through it and renders a
// progress line on out.
type progressWriter struct {
	out     io.Writer
	name    string
	total   int64
	written int64
	last    time.Time
}

func newProgressWriter(out io.Writer, name string, total int64) *progressWriter {
	return &progressWriter{out: out, name: name, total: total}
}

// Write implements io.Writer
func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.out != nil && time.Since(p.last) >= progressInterval {
		p.render()
		p.last = time.Now()
	}
	return len(b), nil
}

// finish renders the final line and ends it.
func (p *progressWriter) finish() {
	if p.out == nil {
		return
	}
	p.render()
	fmt.Fprintln(p.out)
}

func (p *progressWriter) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.out, "\rDownloading %s: %s", p.name, humanize.Bytes(uint64(p.written))) //nolint:gosec // written is never negative
		return
	}
	fmt.Fprintf(p.out, "\rDownloading %s: %3d%% [%s / %s]",
		p.name,
		p.written*100/p.total,
		humanize.Bytes(uint64(p.written)), //nolint:gosec // written is never negative
		humanize.Bytes(uint64(p.total)),   //nolint:gosec // total is positive here
	)
}
