package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/extract-method/internal/batch"
)

// CLIProgressReporter draws a progress bar for batch runs.
type CLIProgressReporter struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: out}
}

func (c *CLIProgressReporter) OnBatchStart(total int) {
	if c.quiet {
		return
	}
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("req/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnRequestDone(item *batch.Item) {
	if c.quiet || c.bar == nil {
		return
	}
	_ = c.bar.Add(1)
}

func (c *CLIProgressReporter) OnBatchComplete(summary *batch.Summary) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}
	fmt.Fprintf(c.out, "✓ Batch complete: %d succeeded, %d failed in %.1fs (parse cache: %d hits, %d misses)\n",
		summary.Succeeded, summary.Failed, summary.Duration.Seconds(), summary.CacheHits, summary.CacheMisses)
}
