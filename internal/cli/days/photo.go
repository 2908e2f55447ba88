package days

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/daylog/internal/cli"
)

type PhotoCmd struct {
	Put PhotoPutCmd `cmd:"" help:"Attach an image to a day."`
	Get PhotoGetCmd `cmd:"" help:"Show or export a day's image."`
	Rm  PhotoRmCmd  `cmd:"" help:"Remove a day's image."`
}

type PhotoPutCmd struct {
	File        string `arg:"" help:"Image file." type:"existingfile"`
	Date        string `short:"d" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
	ContentType string `help:"Content type; detected from the file when empty."`
}

func (c *PhotoPutCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if err := ctx.App.SetPhoto(context.Background(), key, data, c.ContentType); err != nil {
		return err
	}
	ctx.Printf("✓ Photo attached to %s (%d bytes)\n", key, len(data))
	ctx.FlushWarnings()
	return nil
}

type PhotoGetCmd struct {
	Date   string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
	Output string `short:"o" help:"Write the image to this file." type:"path"`
}

func (c *PhotoGetCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	p, ok := ctx.App.Photo(context.Background(), key)
	ctx.FlushWarnings()
	if !ok {
		ctx.Printf("No photo on %s.\n", key)
		return nil
	}
	ctx.Printf("Photo on %s: %s, %d bytes, added %s\n", key, p.ContentType, len(p.Data), p.CreatedAt.Local().Format("2006-01-02 15:04"))
	if c.Output != "" {
		if err := os.WriteFile(c.Output, p.Data, 0600); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		ctx.Printf("✓ Saved to %s\n", c.Output)
	}
	return nil
}

type PhotoRmCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (c *PhotoRmCmd) Run(ctx *cli.Context) error {
	key, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	ctx.App.RemovePhoto(context.Background(), key)
	ctx.Printf("✓ Photo removed from %s\n", key)
	ctx.FlushWarnings()
	return nil
}
