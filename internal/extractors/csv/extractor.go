// Package csv renders comma-separated data as an aligned plain-text table.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles CSV files.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeCSV}
}

// Extract parses the records and renders them header first, one row per line.
func (e *Extractor) Extract(_ context.Context, payload *domain.Payload) (*driven.ExtractResult, error) {
	if payload == nil {
		return nil, domain.ErrInvalidInput
	}

	content := bytes.TrimPrefix(payload.Content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrDecode, payload.Name)
	}

	records, err := readRecords(content)
	if err != nil {
		return nil, &domain.ExtractionError{Type: domain.FileTypeCSV, Native: err}
	}

	return &driven.ExtractResult{
		Text:   Render(records),
		Method: domain.MethodCSV,
	}, nil
}

func readRecords(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		records = append(records, rec)
	}
}

// Render lays records out as right-aligned columns separated by two spaces.
// Short rows are padded with empty cells.
func Render(records [][]string) string {
	if len(records) == 0 {
		return ""
	}

	var widths []int
	for _, rec := range records {
		for i, cell := range rec {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	for r, rec := range records {
		if r > 0 {
			b.WriteByte('\n')
		}
		var line strings.Builder
		for i, w := range widths {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
			line.WriteString(cell)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
	}
	return b.String()
}
