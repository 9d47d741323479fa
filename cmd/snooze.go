package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

var (
	snoozeFor string

	snoozeFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "for, f",
			Usage:       "how long to snooze, e.g. 5m, 10m (default: 9m)",
			Destination: &snoozeFor,
		},
	}
)

func snooze(ctx *cli.Context) error {
	token := ctx.Args().First()
	if token == "" || token == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	d := 9 * time.Minute
	if snoozeFor != "" {
		parsed, err := time.ParseDuration(snoozeFor)
		if err != nil {
			common.PrintRuntimeErr(ctx, "snooze", "parse_duration",
				fmt.Errorf("error: invalid --for duration, expected format like 5m or 10m"))
			return nil
		}
		d = parsed
	}

	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "snooze", "new_client", err)
		return nil
	}
	defer client.Close()

	newTime := time.Now().Add(d).UTC().Format(time.RFC3339)
	if _, err := client.Snooze(token, newTime); err != nil {
		common.PrintRuntimeErr(ctx, "snooze", "snooze", err)
		return nil
	}
	fmt.Printf("chime: snoozed %s until %s\n", token, newTime)
	return nil
}
