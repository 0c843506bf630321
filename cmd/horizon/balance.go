package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Inspect the balance tables",
}

var balanceDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective balance tables as YAML",
	Long:  `Print the defaults merged with --balance, ready to edit and pass back in.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tables, err := balance.Load(cfg.BalancePath)
		if err != nil {
			return err
		}
		data, err := tables.Marshal()
		if err != nil {
			return errors.Wrap(err, "failed to render balance tables")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	balanceCmd.AddCommand(balanceDumpCmd)
}
