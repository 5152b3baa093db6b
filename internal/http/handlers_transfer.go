package http

import (
	"bytes"
	"mime"
	"net/http"

	"estoque/internal/core"
	applog "estoque/internal/log"
	"estoque/internal/transfer"
)

type importResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Reasons  []string `json:"reasons,omitempty"`
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

func (s *Server) handleExportItems(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := transfer.ExportJSON(&buf, s.app.Service().Items(), s.app.Service().Scheme()); err != nil {
		s.fail(w, r, "Export items failed", applog.OpExport, err)
		return
	}
	attachment(w, "application/json", transfer.ExportFilename(s.now().In(s.app.Location())))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExportLogs(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.app.Location())
	q := r.URL.Query()
	month, err := parseMonthQuery(q, now)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	logs, err := s.app.ViewLogs(r.Context(), q.Get("search"), month)
	if err != nil {
		s.fail(w, r, "Export logs failed", applog.OpExport, err)
		return
	}

	title := "Registros"
	if name := core.MonthName(month); name != "" {
		title += " - " + name
	}
	var buf bytes.Buffer
	if err := transfer.ExportPDF(&buf, logs, transfer.PDFOptions{Title: title, Location: s.app.Location()}); err != nil {
		s.fail(w, r, "Export logs failed", applog.OpExport, err)
		return
	}
	attachment(w, "application/pdf", transfer.PDFFilename(now))
	_, _ = w.Write(buf.Bytes())
}

// handleImport accepts an exported item file as the request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := transfer.ImportJSON(http.MaxBytesReader(w, r.Body, 10*maxBodyBytes))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	n, err := s.app.Service().Import(r.Context(), res.Items)
	if err != nil {
		s.fail(w, r, "Import failed", applog.OpImport, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Items imported",
		applog.FieldOperation, applog.OpImport,
		applog.FieldCount, n,
		"skipped", res.Skipped)
	NewJSONResponse().Body(importResponse{Imported: n, Skipped: res.Skipped, Reasons: res.Reasons}).Write(w)
}
