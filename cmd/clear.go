package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

var (
	clearYes bool

	clearFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "yes, y",
			Usage:       "skip the confirmation prompt",
			Destination: &clearYes,
		},
	}
)

func clear(ctx *cli.Context) error {
	if !clearYes {
		fmt.Print("This deletes every alert. Continue? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("chime: aborted")
			return nil
		}
	}

	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "clear", "new_client", err)
		return nil
	}
	defer client.Close()

	if _, err := client.Clear(); err != nil {
		common.PrintRuntimeErr(ctx, "clear", "clear", err)
		return nil
	}
	fmt.Println("chime: cleared all alerts")
	return nil
}
