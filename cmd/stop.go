package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

func stop(ctx *cli.Context) error {
	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "new_client", err)
		return nil
	}
	defer client.Close()

	res, err := client.Stop()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "stop", err)
		return nil
	}
	if !res.Stopped {
		fmt.Println("chime: nothing is ringing")
		return nil
	}
	fmt.Println("chime: stopped")
	return nil
}
