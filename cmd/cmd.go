// Package cmd implements the chime command-line interface shared by the
// chimed and chimectl entry points.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
)

// Build-time information, overridable via -ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	BuildType = "dev"
)

const description = `chime is a persistent alarm, timer and reminder daemon.
Alerts survive restarts, ring through the system audio device and can be
scheduled, snoozed and deleted from the command line.`

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	common.VersionCmdStr = fmt.Sprintf("chime %s-%s (%s/%s) %s",
		version, BuildType, runtime.GOOS, runtime.GOARCH, commit)

	app := cli.App{
		Name:        "chime",
		HelpName:    "chimectl",
		Usage:       "a persistent alarm, timer and reminder scheduler.",
		Version:     fmt.Sprintf("%s-%s", version, BuildType),
		UsageText:   "chimectl <command> [arguments...]",
		Description: description,
		Commands: []cli.Command{
			{
				Name:   "daemon",
				Usage:  "run the alert daemon in the foreground",
				Action: runDaemon,
				Flags:  daemonFlags,
			},
			{
				Name:                   "schedule",
				Aliases:                []string{"s"},
				Usage:                  "schedule an alarm, timer or reminder",
				Action:                 schedule,
				Flags:                  scheduleFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "display scheduled alerts",
				Action:  list,
				Flags:   listFlags,
			},
			{
				Name:    "delete",
				Aliases: []string{"d"},
				Usage:   "delete alerts by token",
				Action:  deleteAlerts,
			},
			{
				Name:   "snooze",
				Usage:  "push the ringing alert back",
				Action: snooze,
				Flags:  snoozeFlags,
			},
			{
				Name:   "stop",
				Usage:  "silence the ringing alert",
				Action: stop,
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "follow pending alerts with live countdowns",
				Action:  watch,
			},
			{
				Name:   "import",
				Usage:  "import reminders from an iCalendar file",
				Action: importICal,
				Flags:  importFlags,
			},
			{
				Name:   "clear",
				Usage:  "delete every alert and wipe the database",
				Action: clear,
				Flags:  clearFlags,
			},
			{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "print version information",
				Action: func(*cli.Context) error {
					fmt.Println(common.VersionCmdStr)
					return nil
				},
			},
		},
	}
	return app.Run(args)
}
