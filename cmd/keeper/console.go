package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/transport/console"
)

var (
	consoleMemory bool
	consoleName   string
	consoleRoom   string
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Play in the terminal",
	Long: `Read chat lines from stdin as a single player and print the replies.
With --memory the session lives in an embedded Redis and is lost on exit.`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().BoolVar(&consoleMemory, "memory", false, "use an in-process Redis instead of KEEPER_REDIS_URL")
	consoleCmd.Flags().StringVar(&consoleName, "name", console.DefaultPlayerName, "investigator name")
	consoleCmd.Flags().StringVar(&consoleRoom, "room", console.DefaultRoomID, "room id")
}

func runConsole(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if consoleMemory {
		mr, err := miniredis.Run()
		if err != nil {
			return errors.Wrap(err, "failed to start in-memory redis")
		}
		defer mr.Close()
		cfg.RedisURL = "redis://" + mr.Addr()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term, err := console.New(&console.Config{
		In:         os.Stdin,
		Out:        os.Stdout,
		RoomID:     consoleRoom,
		PlayerName: consoleName,
		BotName:    cfg.BotName,
	})
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, term, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close storage", "error", err)
		}
	}()

	fmt.Fprintf(os.Stdout, "%s 已就绪，输入 .help 查看指令，exit 退出\n\n", cfg.BotName)
	return term.Run(ctx, a.handler)
}
