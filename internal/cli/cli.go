// Package cli implements the resistorctl commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dukerupert/resistor/internal/backup"
	"github.com/dukerupert/resistor/internal/client"
	"github.com/dukerupert/resistor/internal/model"
)

// Context is handed to every command's Run method by kong.
type Context struct {
	Ctx    context.Context
	Client *client.Client
	Out    io.Writer
}

type ExportCmd struct {
	File       string `arg:"" help:"Destination file." type:"path"`
	Passphrase string `help:"Encrypt the export with this passphrase." env:"RESISTOR_PASSPHRASE"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	b, err := ctx.Client.Export(ctx.Ctx)
	if err != nil {
		return err
	}
	if err := WriteBundle(c.File, *b, c.Passphrase); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Exported %d habits and %d events to %s\n", len(b.Habits), len(b.Events), c.File)
	return nil
}

type ImportCmd struct {
	File       string `arg:"" help:"Bundle file to import." type:"existingfile"`
	Passphrase string `help:"Passphrase the bundle was encrypted with." env:"RESISTOR_PASSPHRASE"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	b, err := ReadBundle(c.File, c.Passphrase)
	if err != nil {
		return err
	}
	res, err := ctx.Client.Import(ctx.Ctx, *b)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Import successful: %d habits, %d new events\n", res.Habits, res.Events)
	return nil
}

type AnalyticsCmd struct{}

func (c *AnalyticsCmd) Run(ctx *Context) error {
	rows, err := ctx.Client.Analytics(ctx.Ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(ctx.Out, "No habits found.")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HABIT\tDAILY RESIST\tDAILY SLIP\tWEEKLY RESIST\tWEEKLY SLIP")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", r.HabitName, r.DailyResist, r.DailySlip, r.WeeklyResist, r.WeeklySlip)
	}
	return tw.Flush()
}

// WriteBundle stores b at path as indented JSON, or as a base64 sealed
// token when a passphrase is given.
func WriteBundle(path string, b model.Bundle, passphrase string) error {
	var data []byte
	if passphrase != "" {
		token, err := backup.EncryptJSON(b, passphrase)
		if err != nil {
			return fmt.Errorf("encrypt bundle: %w", err)
		}
		data = []byte(token + "\n")
	} else {
		var err error
		data, err = json.MarshalIndent(b, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal bundle: %w", err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// ReadBundle reverses WriteBundle.
func ReadBundle(path, passphrase string) (*model.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var b model.Bundle
	if passphrase != "" {
		if err := backup.DecryptJSON(strings.TrimSpace(string(data)), passphrase, &b); err != nil {
			return nil, fmt.Errorf("decrypt bundle: %w", err)
		}
		return &b, nil
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	return &b, nil
}
