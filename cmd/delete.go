package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

func deleteAlerts(ctx *cli.Context) error {
	tokens := ctx.Args()
	if len(tokens) == 0 || tokens.First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "delete", "new_client", err)
		return nil
	}
	defer client.Close()

	res, err := client.Delete(tokens...)
	if err != nil {
		common.PrintRuntimeErr(ctx, "delete", "delete", err)
		return nil
	}
	if len(res.Tokens) == 0 {
		fmt.Println("chime: no matching alerts")
		return nil
	}
	for _, token := range res.Tokens {
		fmt.Printf("chime: deleted %s\n", token)
	}
	return nil
}
