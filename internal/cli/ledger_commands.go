package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLedgerCmd groups the completion-ledger subcommands.
func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or edit the completion ledger",
		Long: `The ledger records which groups have fully synced. Listed groups are
skipped on refresh without touching the remote; clearing a group makes the
next sync re-check it file by file.`,
	}
	cmd.AddCommand(newLedgerListCmd())
	cmd.AddCommand(newLedgerClearCmd())
	return cmd
}

func newLedgerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups recorded as completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := openLedger()
			if err != nil {
				return err
			}

			prefixes := led.Prefixes()
			if len(prefixes) == 0 {
				fmt.Println("Ledger is empty.")
				return nil
			}
			for _, p := range prefixes {
				fmt.Println(p)
			}
			return nil
		},
	}
}

func newLedgerClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <prefix> [prefix ...]",
		Short: "Remove groups from the ledger so they re-sync",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := openLedger()
			if err != nil {
				return err
			}

			for _, prefix := range args {
				if err := led.Clear(prefix); err != nil {
					return fmt.Errorf("failed to clear %s: %w", prefix, err)
				}
				fmt.Printf("Cleared %s\n", prefix)
			}
			return nil
		},
	}
}
