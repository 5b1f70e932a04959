package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// GenProgressReporter draws a progress bar over declaration emission.
type GenProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewGenProgressReporter creates a new progress reporter. quiet suppresses
// all output, which keeps structured log streams clean.
func NewGenProgressReporter(quiet bool) *GenProgressReporter {
	return &GenProgressReporter{quiet: quiet}
}

// OnDeclaration advances the bar by one declaration. The first call sizes
// the bar from total.
func (r *GenProgressReporter) OnDeclaration(done, total int) {
	if r.quiet {
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Generating bindings"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("decls/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}
	r.bar.Add(1)
}

// Finish completes the bar, drawing the final state even when the run ended
// short of the announced total.
func (r *GenProgressReporter) Finish() {
	if r.quiet || r.bar == nil {
		return
	}
	r.bar.Finish()
}
