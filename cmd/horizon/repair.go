package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
	"github.com/KirkDiggler/alloy-horizon/internal/snapshot"
)

var (
	repairUpgrade bool
	repairDelete  bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Scan save slots for unreadable or outdated snapshots",
	Long: `Decode every save slot. Outdated slots are rewritten at the current
version with --upgrade; unreadable slots are removed with --delete.
Without flags nothing is changed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := repairSlots(ctx, a.saves, a.balance, repairOptions{
			upgrade: repairUpgrade,
			delete:  repairDelete,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "checked %d slots: %d outdated, %d upgraded, %d corrupted, %d deleted\n",
			report.Checked, len(report.Outdated), report.Upgraded, len(report.Corrupted), report.Deleted)
		for _, slot := range report.Corrupted {
			fmt.Fprintf(cmd.OutOrStdout(), "  corrupted: %s\n", slot)
		}
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairUpgrade, "upgrade", false, "rewrite outdated slots at the current version")
	repairCmd.Flags().BoolVar(&repairDelete, "delete", false, "delete slots that cannot be decoded")
}

type repairOptions struct {
	upgrade bool
	delete  bool
}

// repairReport lists what a scan found and changed
type repairReport struct {
	Checked   int
	Outdated  []string
	Upgraded  int
	Corrupted []string
	Deleted   int
}

func repairSlots(ctx context.Context, repo saves.Repository, tables *balance.Config, opts repairOptions) (*repairReport, error) {
	listed, err := repo.List(ctx, saves.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saves")
	}

	report := &repairReport{}
	for _, header := range listed.Records {
		report.Checked++

		got, err := repo.Get(ctx, saves.GetInput{Slot: header.Slot})
		if err != nil {
			if errors.IsDataLoss(err) {
				report.Corrupted = append(report.Corrupted, header.Slot)
				continue
			}
			return report, errors.Wrapf(err, "failed to read slot %s", header.Slot)
		}

		state, err := snapshot.Decode(got.Record.Data, tables)
		if err != nil {
			slog.Warn("Slot does not decode", "slot", header.Slot, "error", err)
			report.Corrupted = append(report.Corrupted, header.Slot)
			continue
		}

		if got.Record.Version >= snapshot.CurrentVersion {
			continue
		}
		report.Outdated = append(report.Outdated, header.Slot)
		if !opts.upgrade {
			continue
		}

		data, err := snapshot.Encode(state)
		if err != nil {
			return report, errors.Wrapf(err, "failed to encode slot %s", header.Slot)
		}
		if _, err := repo.Save(ctx, saves.SaveInput{Slot: header.Slot, Version: snapshot.CurrentVersion, Data: data}); err != nil {
			return report, errors.Wrapf(err, "failed to rewrite slot %s", header.Slot)
		}
		report.Upgraded++
		slog.Info("Slot upgraded", "slot", header.Slot, "from_version", got.Record.Version)
	}

	if !opts.delete {
		return report, nil
	}
	for _, slot := range report.Corrupted {
		if _, err := repo.Delete(ctx, saves.DeleteInput{Slot: slot}); err != nil {
			return report, errors.Wrapf(err, "failed to delete slot %s", slot)
		}
		report.Deleted++
		slog.Info("Corrupted slot deleted", "slot", slot)
	}
	return report, nil
}
