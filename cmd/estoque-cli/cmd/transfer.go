package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"estoque/internal/core"
	"estoque/internal/transfer"
)

var (
	exportOut   string
	exportMonth string
)

var exportCmd = &cobra.Command{
	Use:   "export [json|pdf]",
	Short: "Export items as JSON or the change log as PDF",
	Long: `Export the item list to a JSON file that can be imported again,
or the change log of a month to a PDF report.

Examples:
  estoque-cli export json
  estoque-cli export pdf --month all --out registros.pdf`,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export items as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		out := exportOut
		if out == "" {
			out = fileSafe(transfer.ExportFilename(time.Now().In(a.Location())))
		}

		var buf bytes.Buffer
		if err := transfer.ExportJSON(&buf, a.Service().Items(), a.Service().Scheme()); err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Printf("Exportado %d itens para %s\n", len(a.Service().Items()), out)
		return nil
	},
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export the change log as PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		now := time.Now().In(a.Location())
		month, err := parseMonthFlag(exportMonth, cmd.Flags().Changed("month"), now)
		if err != nil {
			return err
		}
		entries, err := a.ViewLogs(cmd.Context(), "", month)
		if err != nil {
			return err
		}

		title := "Registros"
		if name := core.MonthName(month); name != "" {
			title += " - " + name
		}
		out := exportOut
		if out == "" {
			out = fileSafe(transfer.PDFFilename(now))
		}

		var buf bytes.Buffer
		if err := transfer.ExportPDF(&buf, entries, transfer.PDFOptions{Title: title, Location: a.Location()}); err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Printf("Exportado %d registros para %s\n", len(entries), out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import items from an exported JSON file",
	Long: `Import items from a JSON file produced by "export json".

Records missing a field or holding invalid values are skipped and reported.
Imported items get new identifiers and produce no log entries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := transfer.ImportJSON(f)
		if err != nil {
			return err
		}
		n, err := GetApp().Service().Import(cmd.Context(), res.Items)
		if err != nil {
			return fmt.Errorf("imported %d of %d items: %w", n, len(res.Items), err)
		}

		fmt.Println(increaseStyle.Render(fmt.Sprintf("Importados: %d", n)))
		if res.Skipped > 0 {
			fmt.Println(decreaseStyle.Render(fmt.Sprintf("Ignorados: %d", res.Skipped)))
			for _, reason := range res.Reasons {
				fmt.Println(mutedStyle.Render("  " + reason))
			}
		}
		return nil
	},
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "output file (default: dated name in the current directory)")
	exportPDFCmd.Flags().StringVarP(&exportMonth, "month", "m", "", "month name or number, or \"all\" (default: current month)")

	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportJSONCmd)
	exportCmd.AddCommand(exportPDFCmd)
	rootCmd.AddCommand(importCmd)
}
