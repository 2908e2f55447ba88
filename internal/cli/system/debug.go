package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/logger"
)

type DebugCmd struct {
	Paths   DebugPathsCmd   `cmd:"" help:"Show storage, photo, backup and log locations."`
	DumpDay DebugDumpDayCmd `cmd:"" help:"Dump a day's log as JSON."`
	Slots   DebugSlotsCmd   `cmd:"" help:"List raw storage slots and their sizes."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"storage":    ctx.App.Backend().Location(),
		"kind":       string(ctx.Config.Kind()),
		"photos":     ctx.Config.Photos,
		"config_dir": ctx.Config.ConfigDir,
		"log":        logger.Path(ctx.Config.ConfigDir),
	}
	if ctx.Backups != nil {
		output["backups"] = ctx.Backups.GetBackupDir()
	}
	return writeJSON(ctx, output)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Date of the day to dump (YYYY-MM-DD, today, yesterday or tomorrow)."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(cmd.Date)
	if err != nil {
		return err
	}
	output := struct {
		Key        string `json:"key"`
		Recorded   bool   `json:"recorded"`
		Log        any    `json:"log"`
		Decoration any    `json:"decoration"`
	}{
		Key:        key.String(),
		Recorded:   !ctx.App.Day(key).IsEmpty(),
		Log:        ctx.App.Day(key),
		Decoration: ctx.App.Decorate(key),
	}
	return writeJSON(ctx, output)
}

type DebugSlotsCmd struct{}

func (cmd *DebugSlotsCmd) Run(ctx *cli.Context) error {
	b := ctx.App.Backend()
	slots, err := b.Slots()
	if err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}
	sizes := make(map[string]int, len(slots))
	for _, slot := range slots {
		value, _, err := b.Read(slot)
		if err != nil {
			return fmt.Errorf("failed to read slot %s: %w", slot, err)
		}
		sizes[slot] = len(value)
	}
	return writeJSON(ctx, sizes)
}

func writeJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
