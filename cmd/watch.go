package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/chimed/chimed/cmd/common"
	cm "github.com/chimed/chimed/common"
	"github.com/chimed/chimed/pkg/chimecli"
)

func watch(ctx *cli.Context) error {
	client, err := chimecli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "new_client", err)
		return nil
	}
	defer client.Close()

	l, err := client.List("")
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "get_list", err)
		return nil
	}
	if len(l.Alerts) == 0 {
		fmt.Println("chime: no alerts to watch")
		return nil
	}

	p := mpb.New(mpb.WithWidth(42))

	var mu sync.Mutex
	bars := make(map[string]*mpb.Bar, len(l.Alerts))
	starts := make(map[string]time.Time, len(l.Alerts))

	now := time.Now()
	for _, a := range l.Alerts {
		at, err := time.Parse(time.RFC3339, a.ScheduledTime)
		if err != nil {
			continue
		}
		total := int64(time.Until(at).Seconds())
		if total < 1 {
			total = 1
		}
		label := fmt.Sprintf("%s %.8s", a.Type, a.Token)
		bars[a.Token] = common.InitCountdownBar(p, label, total)
		starts[a.Token] = now
	}

	// Drive the countdowns once a second.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				for token, bar := range bars {
					bar.SetCurrent(int64(time.Since(starts[token]).Seconds()))
				}
				mu.Unlock()
			}
		}
	}()

	// Complete bars as lifecycle events arrive.
	client.Dispatcher().Handlers[cm.UPDATE_EVENT] = chimecli.NewEventHandler("", func(ev *cm.AlertEvent) error {
		mu.Lock()
		defer mu.Unlock()
		bar, ok := bars[ev.Token]
		if !ok {
			return nil
		}
		switch ev.State {
		case "STARTED", "STOPPED", "COMPLETED", "DELETED", "PAST_DUE", "ERROR":
			bar.SetCurrent(bar.Current() + 1<<31)
			delete(bars, ev.Token)
		}
		if len(bars) == 0 {
			return chimecli.ErrDisconnect
		}
		return nil
	})

	if _, err := client.Attach(); err != nil {
		common.PrintRuntimeErr(ctx, "watch", "attach", err)
		close(done)
		return nil
	}

	err = client.Listen()
	close(done)
	p.Wait()
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "listen", err)
	}
	return nil
}
