// Command mcp serves the Veritas Chamber as MCP tools over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tatianab/veritas-chamber/internal/app"
	"github.com/tatianab/veritas-chamber/internal/config"
	"github.com/tatianab/veritas-chamber/internal/tools"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Logger.Info("serving MCP over stdio", "version", version)
	err = tools.Serve(ctx, tools.NewServer(a.Manager, version), &mcp.StdioTransport{})
	a.Logger.Info("MCP server stopped", "error", err)
	return err
}
