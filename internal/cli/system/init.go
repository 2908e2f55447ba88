package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/logger"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := os.MkdirAll(ctx.Config.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	b := ctx.App.Backend()
	// the app swaps in memory when the configured storage cannot be opened
	if kv.KindOf(b.Location()) == kv.KindMemory && ctx.Config.Kind() != kv.KindMemory {
		ctx.FlushWarnings()
		return fmt.Errorf("failed to initialize storage at %s", ctx.Config.Storage)
	}

	ctx.Printf("Initialized daylog storage at: %s (%s)\n", b.Location(), ctx.Config.Kind())
	if r, ok := b.(schemaReporter); ok {
		if st, err := r.SchemaStatus(); err == nil {
			ctx.Printf("Schema version: %d\n", st.Version)
		}
	}
	ctx.Printf("Photos: %s\n", ctx.Config.Photos)
	ctx.Printf("Logs: %s\n", logger.Path(ctx.Config.ConfigDir))

	ctx.PerformAutomaticBackup()
	ctx.FlushWarnings()
	return nil
}
