package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	logsMonth  string
	logsSearch string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show and prune the change log",
	Long: `Show the log of item additions and quantity changes.

Examples:
  estoque-cli logs list
  estoque-cli logs list --month março --search arroz
  estoque-cli logs list --month all
  estoque-cli logs remove 6f1c2a4e-0b7d-4c53-9a61-2f0f5b8d1e44`,
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List log entries in the order they were recorded",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		month, err := parseMonthFlag(logsMonth, cmd.Flags().Changed("month"), time.Now().In(a.Location()))
		if err != nil {
			return err
		}
		entries, err := a.ViewLogs(cmd.Context(), logsSearch, month)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("Registros - " + monthLabel(month)))
		if len(entries) == 0 {
			fmt.Println(mutedStyle.Render("Nenhum registro encontrado."))
			return nil
		}
		fmt.Println(logsTable(entries, a.Location()))
		return nil
	},
}

var logsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a log entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		// Authenticated sessions only hold the current month; load all so any entry can be found.
		if err := a.RefreshLogs(cmd.Context(), 0); err != nil {
			return err
		}
		if err := a.Service().RemoveLog(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Registro %s removido\n", args[0])
		return nil
	},
}

func init() {
	logsListCmd.Flags().StringVarP(&logsMonth, "month", "m", "", "month name or number, or \"all\" (default: current month)")
	logsListCmd.Flags().StringVarP(&logsSearch, "search", "s", "", "filter by item name")

	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsRemoveCmd)
}
