package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the saved option sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, labels := range GetApp().Service().Options().List() {
			fmt.Printf("%s %s\n", headerStyle.Render(fmt.Sprintf("%2d", i+1)), strings.Join(labels, " > "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
