package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/internal/recur"
	"github.com/chimed/chimed/pkg/chimecli"
)

const startAtLayout = "2006-01-02 15:04"

var (
	atValue    string
	inValue    string
	everyValue string
	typeValue  string
	tokenValue string

	scheduleFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "at, a",
			Usage:       "absolute trigger time, format YYYY-MM-DD HH:MM (local)",
			Destination: &atValue,
		},
		cli.StringFlag{
			Name:        "in, i",
			Usage:       "relative trigger time as a duration, e.g. 2h, 30m, 1h30m",
			Destination: &inValue,
		},
		cli.StringFlag{
			Name:        "every, e",
			Usage:       "recurring schedule as a 5-field cron expression",
			Destination: &everyValue,
		},
		cli.StringFlag{
			Name:        "type, t",
			Usage:       "alert type: alarm, timer or reminder (default: alarm)",
			Destination: &typeValue,
		},
		cli.StringFlag{
			Name:        "token",
			Usage:       "reuse a token to move an existing alert",
			Destination: &tokenValue,
		},
	}
)

// parseStartAt validates and parses an --at value.
// Returns the parsed time or an error with the expected format.
func parseStartAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("error: invalid --at format, expected YYYY-MM-DD HH:MM")
	}
	t, err := time.ParseInLocation(startAtLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("error: invalid --at format, expected YYYY-MM-DD HH:MM")
	}
	return t, nil
}

// parseStartIn validates an --in duration string and returns the resolved
// absolute time. Valid formats: Go duration syntax (e.g., "2h", "30m",
// "1h30m", "45s"). Zero durations resolve to now (immediate ring).
func parseStartIn(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("error: invalid --in duration, expected format like 2h, 30m, or 1h30m (days not supported — use 24h)")
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("error: invalid --in duration, expected format like 2h, 30m, or 1h30m (days not supported — use 24h)")
	}
	return time.Now().Add(d), nil
}

// validateTimeFlagExclusion checks that --at and --in are not both set.
func validateTimeFlagExclusion(at, in string) error {
	if at != "" && in != "" {
		return fmt.Errorf("error: flags --at and --in are mutually exclusive")
	}
	return nil
}

// resolveScheduleTime turns the --at/--in/--every flags into the RFC 3339
// trigger time sent to the daemon. With only --every set, the time is left
// empty and the daemon expands the first occurrence itself.
func resolveScheduleTime(at, in, every string) (string, error) {
	if err := validateTimeFlagExclusion(at, in); err != nil {
		return "", err
	}
	switch {
	case at != "":
		t, err := parseStartAt(at)
		if err != nil {
			return "", err
		}
		if t.Before(time.Now()) {
			return "", fmt.Errorf("error: scheduled time is in the past")
		}
		return t.UTC().Format(time.RFC3339), nil
	case in != "":
		t, err := parseStartIn(in)
		if err != nil {
			return "", err
		}
		return t.UTC().Format(time.RFC3339), nil
	case every != "":
		return "", nil
	}
	return "", fmt.Errorf("error: one of --at, --in or --every is required")
}

func schedule(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if everyValue != "" {
		if err := recur.Validate(everyValue); err != nil {
			common.PrintRuntimeErr(ctx, "schedule", "validate_cron", err)
			return nil
		}
		if !recur.HasOccurrenceWithinYear(everyValue, time.Now()) {
			fmt.Println("warning: recurrence has no occurrence within a year")
		}
	}

	scheduledTime, err := resolveScheduleTime(atValue, inValue, everyValue)
	if err != nil {
		common.PrintRuntimeErr(ctx, "schedule", "resolve_time", err)
		return nil
	}

	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "schedule", "new_client", err)
		return nil
	}
	defer client.Close()

	res, err := client.Schedule(scheduledTime, &chimecli.ScheduleOpts{
		Token:      tokenValue,
		Type:       typeValue,
		Recurrence: everyValue,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "schedule", "schedule", err)
		return nil
	}

	fmt.Printf("chime: scheduled %s %s at %s\n", res.Type, res.Token, res.ScheduledTime)
	return nil
}
