// Package common provides shared utilities and helper functions for CLI
// commands: error reporting and progress bar initialization used across
// the chimectl command-line interface.
package common

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// VersionCmdStr holds the formatted version string displayed by the version
// command. It is populated at runtime by the Execute function with
// build-time information.
var VersionCmdStr string

// PrintRuntimeErr reports a command failure without aborting with a stack
// trace; CLI failures should read as messages, not panics.
func PrintRuntimeErr(ctx *cli.Context, cmd, op string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "chime(%s): %s: %s\n", cmd, op, err.Error())
}

// InitCountdownBar creates a countdown progress bar for one pending alert.
// total is the number of seconds until the alert fires; the bar fills as
// the trigger time approaches and reads "ringing" when it arrives.
func InitCountdownBar(p *mpb.Progress, label string, total int64) *mpb.Bar {
	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")

	bar := p.New(total,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DindentRight}),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}), "ringing",
			),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
		),
	)
	bar.EnableTriggerComplete()
	return bar
}
