package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"estoque/internal/core"
	"estoque/internal/view"
)

var (
	itemName        string
	itemKind        string
	itemUnit        string
	itemOptions     string
	itemQuantity    int
	itemAlert       int
	itemDescription string
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List and change stock items",
	Long: `List, add, edit, and remove stock items.

Examples:
  estoque-cli items list
  estoque-cli items add --name Arroz --quantity 5 --alert 2 --unit Pacotes
  estoque-cli items add --name Sabão --type options --options "Cheio,Metade,Vazio" --quantity 0 --alert 1
  estoque-cli items edit 3 --quantity 7
  estoque-cli items remove 3`,
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all items, highlighting the ones to restock",
	RunE: func(cmd *cobra.Command, args []string) error {
		items := GetApp().Service().Items()
		if len(items) == 0 {
			fmt.Println(mutedStyle.Render("Nenhum item cadastrado."))
			return nil
		}
		fmt.Println(itemsTable(items))

		if restock := view.Restock(items); len(restock) > 0 {
			names := make([]string, len(restock))
			for i, it := range restock {
				names[i] = it.Name
			}
			fmt.Println(restockStyle.Render("Repor: " + strings.Join(names, ", ")))
		}
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an item",
	RunE: func(cmd *cobra.Command, args []string) error {
		it := core.Item{
			Name:          strings.TrimSpace(itemName),
			Kind:          core.QuantityKind(itemKind),
			Unit:          strings.TrimSpace(itemUnit),
			Quantity:      itemQuantity,
			AlertQuantity: itemAlert,
			Description:   strings.TrimSpace(itemDescription),
		}
		if it.Kind == core.QuantityOptions {
			it.OptionLabels = splitLabels(itemOptions)
			it.Unit = ""
		} else if it.Unit == "" {
			it.Unit = core.DefaultUnit
		}

		m, err := GetApp().Service().Add(cmd.Context(), it)
		if err != nil {
			return err
		}
		printMutation(m.Item, m.Entry, "Adicionado")
		return nil
	},
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an item; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := GetApp().Service()
		it, err := svc.Item(args[0])
		if err != nil {
			return fmt.Errorf("item %s: %w", args[0], err)
		}
		it = applyItemFlags(cmd, it)

		m, err := svc.Edit(cmd.Context(), it)
		if err != nil {
			return err
		}
		printMutation(m.Item, m.Entry, "Atualizado")
		return nil
	},
}

var itemsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetApp().Service().Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removido %s\n", args[0])
		return nil
	},
}

// applyItemFlags overlays the flags the user set on it.
func applyItemFlags(cmd *cobra.Command, it core.Item) core.Item {
	it = it.Clone()
	flags := cmd.Flags()
	if flags.Changed("name") {
		it.Name = strings.TrimSpace(itemName)
	}
	if flags.Changed("type") {
		it.Kind = core.QuantityKind(itemKind)
	}
	if flags.Changed("unit") {
		it.Unit = strings.TrimSpace(itemUnit)
	}
	if flags.Changed("options") {
		it.OptionLabels = splitLabels(itemOptions)
	}
	if flags.Changed("quantity") {
		it.Quantity = itemQuantity
	}
	if flags.Changed("alert") {
		it.AlertQuantity = itemAlert
	}
	if flags.Changed("description") {
		it.Description = strings.TrimSpace(itemDescription)
	}
	return it
}

func itemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&itemName, "name", "n", "", "item name")
	cmd.Flags().StringVar(&itemKind, "type", string(core.QuantityNumber), "quantity type: number or options")
	cmd.Flags().StringVarP(&itemUnit, "unit", "u", "", "unit of measure for numeric items")
	cmd.Flags().StringVarP(&itemOptions, "options", "o", "", "comma separated labels for option items")
	cmd.Flags().IntVarP(&itemQuantity, "quantity", "q", 0, "quantity, or option index for option items")
	cmd.Flags().IntVarP(&itemAlert, "alert", "a", 0, "restock threshold, or option index for option items")
	cmd.Flags().StringVarP(&itemDescription, "description", "d", "", "free text description")
}

func init() {
	itemFlags(itemsAddCmd)
	itemFlags(itemsEditCmd)

	rootCmd.AddCommand(itemsCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsEditCmd)
	itemsCmd.AddCommand(itemsRemoveCmd)
}
