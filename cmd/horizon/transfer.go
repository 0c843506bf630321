package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the save slot as a portable blob",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if cfg.Slot == "" {
			return errors.InvalidArgument("--slot is required")
		}

		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.game.Load(ctx, &game.LoadInput{Slot: cfg.Slot}); err != nil {
			return err
		}
		out, err := a.game.Export(ctx, &game.ExportInput{})
		if err != nil {
			return err
		}

		_, err = io.WriteString(cmd.OutOrStdout(), out.Blob+"\n")
		return err
	},
}

var importCmd = &cobra.Command{
	Use:   "import [blob]",
	Short: "Write a portable blob into the save slot",
	Long:  `Import a blob given as the argument, or read it from stdin when no argument is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.Slot == "" {
			return errors.InvalidArgument("--slot is required")
		}

		blob := ""
		if len(args) == 1 {
			blob = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "failed to read blob from stdin")
			}
			blob = string(data)
		}
		blob = strings.TrimSpace(blob)

		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		imported, err := a.game.Import(ctx, &game.ImportInput{Blob: blob})
		if err != nil {
			return err
		}
		saved, err := a.game.Save(ctx, &game.SaveInput{Slot: cfg.Slot})
		if err != nil {
			return err
		}

		c := imported.State.Character
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s level %d into %s\n", c.Name, c.Level, saved.Slot)
		return nil
	},
}
