// Command simulate plays the chamber with a Gemini model, or with a fixed
// script when -script is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/tatianab/veritas-chamber/internal/app"
	"github.com/tatianab/veritas-chamber/internal/config"
	"github.com/tatianab/veritas-chamber/internal/player"
)

func main() {
	maxTurns := flag.Int("turns", 10, "maximum number of actions")
	goal := flag.String("goal", "escape", "stop once this scene is reached (empty to play all turns)")
	script := flag.String("script", "", "semicolon-separated actions to play instead of asking Gemini")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	var p player.Player
	if *script != "" {
		p = player.NewScripted(strings.Split(*script, ";")...)
	} else {
		g, err := player.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create player: %v", err)
		}
		defer g.Close()
		p = g
	}

	conv := "sim-" + uuid.NewString()[:8]
	sum, err := player.Simulate(ctx, a.Manager, conv, p, *maxTurns, *goal, os.Stdout)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	fmt.Printf("Turns: %d, resolved: %d, final scene: %s, goal reached: %v\n",
		sum.Turns, sum.Resolved, sum.FinalScene, sum.Reached)
}
