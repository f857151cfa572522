package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileType identifies a supported document format by its extension tag.
type FileType string

// Supported file types.
const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeJPEG FileType = "jpeg"
	FileTypeCSV  FileType = "csv"
	FileTypeTXT  FileType = "txt"
)

// IsValid returns true if the file type is recognised.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypePDF, FileTypeDOCX, FileTypePNG, FileTypeJPG, FileTypeJPEG, FileTypeCSV, FileTypeTXT:
		return true
	default:
		return false
	}
}

// IsImage returns true for raster image types that go straight to OCR.
func (t FileType) IsImage() bool {
	return t == FileTypePNG || t == FileTypeJPG || t == FileTypeJPEG
}

// Extension returns the dotted extension, e.g. ".pdf".
func (t FileType) Extension() string {
	return "." + string(t)
}

// String returns the string representation.
func (t FileType) String() string {
	return string(t)
}

// AllFileTypes returns every supported file type.
func AllFileTypes() []FileType {
	return []FileType{
		FileTypePDF,
		FileTypeDOCX,
		FileTypePNG,
		FileTypeJPG,
		FileTypeJPEG,
		FileTypeCSV,
		FileTypeTXT,
	}
}

// ParseFileType derives the file type from a file name or a bare extension.
// Both "report.PDF" and ".pdf" yield FileTypePDF.
func ParseFileType(name string) (FileType, error) {
	ext := filepath.Ext(name)
	if ext == "" && strings.HasPrefix(name, ".") {
		ext = name
	}
	ft := FileType(strings.TrimPrefix(strings.ToLower(ext), "."))
	if !ft.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return ft, nil
}
