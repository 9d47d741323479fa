package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

var (
	listType string

	listFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "type, t",
			Usage:       "only list alerts of this type",
			Destination: &listType,
		},
	}
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()

	l, err := client.List(listType)
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(l.Alerts) == 0 {
		fmt.Println("chime: no alerts scheduled")
		return nil
	}

	fmt.Println("Here are your alerts:")
	fmt.Println()
	fmt.Println("TOKEN                                 TYPE      TIME                  STATE")
	for _, a := range l.Alerts {
		state := a.State
		if a.Active {
			state = state + " (ringing)"
		}
		fmt.Printf("%-37s %-9s %-21s %s\n", a.Token, a.Type, a.ScheduledTime, state)
	}
	return nil
}
