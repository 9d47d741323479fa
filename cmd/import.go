package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

var (
	importType string

	importFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "type, t",
			Usage:       "alert type for imported events (default: reminder)",
			Destination: &importType,
		},
	}
)

// importICal schedules a reminder for every future VEVENT in an iCalendar
// file. Event UIDs become alert tokens, so re-importing the same file
// updates the existing alerts instead of duplicating them.
func importICal(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" || path == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	f, err := os.Open(path)
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "open_file", err)
		return nil
	}
	defer f.Close()

	cal, err := ical.NewDecoder(f).Decode()
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "parse_ical", err)
		return nil
	}

	alertType := importType
	if alertType == "" {
		alertType = "reminder"
	}

	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "new_client", err)
		return nil
	}
	defer client.Close()

	var imported, skipped int
	for _, ev := range cal.Events() {
		start, err := ev.DateTimeStart(time.Local)
		if err != nil || start.IsZero() {
			skipped++
			continue
		}
		if !start.After(time.Now()) {
			skipped++
			continue
		}

		token := ""
		if prop := ev.Props.Get(ical.PropUID); prop != nil {
			token = prop.Value
		}
		if token == "" {
			token = uuid.NewString()
		}

		summary := ""
		if prop := ev.Props.Get(ical.PropSummary); prop != nil {
			summary = prop.Value
		}

		res, err := client.Schedule(start.UTC().Format(time.RFC3339), &chimecli.ScheduleOpts{
			Token: token,
			Type:  alertType,
		})
		if err != nil {
			fmt.Printf("chime: skipping %q: %s\n", summary, err.Error())
			skipped++
			continue
		}
		fmt.Printf("chime: imported %q at %s (%s)\n", summary, res.ScheduledTime, res.Token)
		imported++
	}

	fmt.Printf("chime: imported %d events, skipped %d\n", imported, skipped)
	return nil
}
