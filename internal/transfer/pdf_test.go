package transfer

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoque/internal/core"
)

func entries(n int) []core.LogEntry {
	out := make([]core.LogEntry, n)
	base := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i := range out {
		dir := core.DirectionIncrease
		change := "+1"
		if i%2 == 1 {
			dir, change = core.DirectionDecrease, "-1"
		}
		out[i] = core.LogEntry{
			ID:        fmt.Sprint(i),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			ItemName:  "Feijão",
			Change:    change,
			Direction: dir,
		}
	}
	return out
}

func TestExportPDF(t *testing.T) {
	var small, large bytes.Buffer
	require.NoError(t, ExportPDF(&small, entries(3), PDFOptions{Title: "Registros de Março", Location: time.UTC}))
	require.NoError(t, ExportPDF(&large, entries(120), PDFOptions{Location: time.UTC}))

	assert.True(t, bytes.HasPrefix(small.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(large.Bytes(), []byte("%PDF-")))
	assert.Greater(t, large.Len(), small.Len())
}

func TestExportPDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPDF(&buf, nil, PDFOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestDirectionColor(t *testing.T) {
	assert.Equal(t, colorIncrease, directionColor(core.DirectionIncrease))
	assert.Equal(t, colorDecrease, directionColor(core.DirectionDecrease))
	assert.Equal(t, colorNeutral, directionColor(core.DirectionNeutral))
}
