// Package docx extracts paragraph text from Office Open XML documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const documentPart = "word/document.xml"

// errNoDocumentPart is returned for archives without a main document part.
var errNoDocumentPart = errors.New(documentPart + " not found")

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeDOCX}
}

// Extract returns every paragraph of word/document.xml, newline-joined in document order.
func (e *Extractor) Extract(_ context.Context, payload *domain.Payload) (*driven.ExtractResult, error) {
	if payload == nil {
		return nil, domain.ErrInvalidInput
	}

	// Open as ZIP archive
	reader, err := zip.NewReader(bytes.NewReader(payload.Content), int64(len(payload.Content)))
	if err != nil {
		return nil, &domain.ExtractionError{Type: domain.FileTypeDOCX, Native: fmt.Errorf("open archive: %w", err)}
	}

	content, err := extractDocumentText(reader)
	if err != nil {
		return nil, &domain.ExtractionError{Type: domain.FileTypeDOCX, Native: err}
	}

	return &driven.ExtractResult{
		Text:   content,
		Method: domain.MethodDOCX,
	}, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		return parseDocumentXML(rc)
	}
	return "", errNoDocumentPart
}

// parseDocumentXML walks the document tokens so that text, tabs and breaks
// keep their order within a paragraph.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				paragraphs = append(paragraphs, current.String())
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}
