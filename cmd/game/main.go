package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/tatianab/veritas-chamber/internal/app"
	"github.com/tatianab/veritas-chamber/internal/config"
	"github.com/tatianab/veritas-chamber/internal/tui"
)

func main() {
	resume := flag.String("resume", "", "resume the saved game with this id")
	list := flag.Bool("list", false, "list saved games and exit")
	name := flag.String("name", "", "player name (defaults to VERITAS_PLAYER_NAME)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *name == "" {
		*name = cfg.PlayerName
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Printf("Error starting game: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if *list {
		keys, err := a.Manager.Sessions(ctx)
		if err != nil {
			fmt.Printf("Error listing saves: %v\n", err)
			os.Exit(1)
		}
		if len(keys) == 0 {
			fmt.Println("No saved games.")
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return
	}

	conv := *resume
	if conv == "" {
		conv = uuid.NewString()[:8]
	} else if _, err := a.Manager.Snapshot(ctx, conv); err != nil {
		fmt.Printf("Error resuming %s: %v\n", conv, err)
		os.Exit(1)
	}

	if err := tui.Run(a.Manager, conv, *name, *resume != ""); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
	if hint := resumeHint(cfg.Store, conv); hint != "" {
		fmt.Println(hint)
	}
}

// resumeHint tells the player how to come back to conv, or returns "" when
// store keeps nothing past this process.
func resumeHint(store, conv string) string {
	if store == config.StoreMemory {
		return ""
	}
	return fmt.Sprintf("Saved as %s. Resume with -resume %s", conv, conv)
}
