package transfer

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"estoque/internal/core"
)

// PDFOptions controls the log table export.
type PDFOptions struct {
	Title    string
	Location *time.Location
}

type rgb struct{ r, g, b int }

var (
	colorIncrease = rgb{25, 135, 84}
	colorDecrease = rgb{220, 53, 69}
	colorNeutral  = rgb{33, 37, 41}
	colorHeader   = rgb{233, 236, 239}
)

const (
	colDate   = 60.0
	colItem   = 80.0
	colChange = 50.0
	rowHeight = 7.0
)

// PDFFilename names a log table export taken on day t.
func PDFFilename(t time.Time) string {
	return "RegistrosEstoque" + t.Format(core.DateLayout) + ".pdf"
}

// ExportPDF renders entries as a table with a color legend, paginating as needed.
func ExportPDF(w io.Writer, entries []core.LogEntry, opts PDFOptions) error {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 5, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(colorHeader.r, colorHeader.g, colorHeader.b)
		setText(pdf, colorNeutral)
		pdf.CellFormat(colDate, rowHeight, "Data", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colItem, rowHeight, "Item", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colChange, rowHeight, tr("Alteração"), "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.AddPage()
	if opts.Title != "" {
		pdf.SetFont("Helvetica", "B", 14)
		setText(pdf, colorNeutral)
		pdf.CellFormat(0, 10, tr(opts.Title), "", 1, "L", false, 0, "")
	}
	legend(pdf)
	header()
	// later pages repeat the column header
	pdf.SetHeaderFunc(header)

	for _, e := range entries {
		setText(pdf, colorNeutral)
		pdf.CellFormat(colDate, rowHeight, e.DatePart(loc)+" - "+e.TimePart(loc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colItem, rowHeight, tr(e.ItemName), "1", 0, "L", false, 0, "")
		setText(pdf, directionColor(e.Direction))
		pdf.CellFormat(colChange, rowHeight, tr(e.Change), "1", 1, "L", false, 0, "")
	}
	if len(entries) == 0 {
		setText(pdf, colorNeutral)
		pdf.CellFormat(colDate+colItem+colChange, rowHeight, tr("Nenhum registro disponível."), "1", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func legend(pdf *fpdf.Fpdf) {
	x, y := pdf.GetXY()
	for _, l := range []struct {
		label string
		c     rgb
	}{{"Aumentou", colorIncrease}, {"Diminuiu", colorDecrease}} {
		pdf.SetFillColor(l.c.r, l.c.g, l.c.b)
		pdf.Circle(x+1.5, y+2.5, 1.5, "F")
		setText(pdf, colorNeutral)
		pdf.SetXY(x+4, y)
		pdf.CellFormat(25, 5, l.label, "", 0, "L", false, 0, "")
		x += 30
	}
	pdf.Ln(7)
}

func directionColor(d core.Direction) rgb {
	switch d {
	case core.DirectionIncrease:
		return colorIncrease
	case core.DirectionDecrease:
		return colorDecrease
	default:
		return colorNeutral
	}
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
