// Package transfer reads and writes the item file format and renders the log table as PDF.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"estoque/internal/core"
	"estoque/internal/inventory"
)

// requiredFields lists the keys every imported record must define.
var requiredFields = []string{"id", "name", "qtdType", "numberOf", "options", "quantity", "alertQuantity", "description"}

// ImportResult reports which records of an import were accepted.
type ImportResult struct {
	Items    []core.Item
	Imported int
	Skipped  int
	Reasons  []string
}

// ExportFilename names an items export taken on day t.
func ExportFilename(t time.Time) string {
	return "Estoque" + t.Format(core.DateLayout) + ".json"
}

// exportedItem overrides the string id so positional files carry numeric ids.
type exportedItem struct {
	ID any `json:"id"`
	core.Item
}

// ExportJSON writes items as a JSON array. Missing option lists are written as [] so the
// file can be imported again. Under the positional scheme ids are written as numbers.
func ExportJSON(w io.Writer, items []core.Item, scheme inventory.IDScheme) error {
	out := make([]exportedItem, len(items))
	for i, it := range items {
		if it.OptionLabels == nil {
			it.OptionLabels = []string{}
		}
		out[i] = exportedItem{ID: it.ID, Item: it}
		if scheme == inventory.PositionalIDs {
			if n, err := strconv.Atoi(it.ID); err == nil {
				out[i].ID = n
			}
		}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	return nil
}

// ImportJSON parses an exported item file. Records missing a field, holding a field of the wrong
// type or failing validation are skipped. Item identifiers are dropped so the caller can assign new ones.
func ImportJSON(r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read import: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return ImportResult{}, errors.New("import: document is not a JSON array")
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	var res ImportResult
	for i, rec := range records {
		it, err := decodeRecord(rec)
		if err != nil {
			res.Skipped++
			res.Reasons = append(res.Reasons, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		res.Items = append(res.Items, it)
		res.Imported++
	}
	return res, nil
}

func decodeRecord(rec map[string]json.RawMessage) (core.Item, error) {
	if rec == nil {
		return core.Item{}, errors.New("not an object")
	}
	for _, f := range requiredFields {
		v, ok := rec[f]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return core.Item{}, fmt.Errorf("missing field %q", f)
		}
	}
	if err := checkID(rec["id"]); err != nil {
		return core.Item{}, err
	}

	var it core.Item
	fields := []struct {
		name string
		dst  any
	}{
		{"name", &it.Name},
		{"qtdType", &it.Kind},
		{"numberOf", &it.Unit},
		{"options", &it.OptionLabels},
		{"quantity", &it.Quantity},
		{"alertQuantity", &it.AlertQuantity},
		{"description", &it.Description},
	}
	for _, f := range fields {
		if err := json.Unmarshal(rec[f.name], f.dst); err != nil {
			return core.Item{}, fmt.Errorf("field %q: %w", f.name, err)
		}
	}
	if err := it.Validate(); err != nil {
		return core.Item{}, err
	}
	return it, nil
}

// checkID accepts the numeric ids of old exports as well as string ids.
func checkID(raw json.RawMessage) error {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return nil
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return nil
	}
	return errors.New(`field "id": must be a string or a number`)
}
