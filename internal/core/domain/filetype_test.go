package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected FileType
	}{
		{name: "pdf", input: "report.pdf", expected: FileTypePDF},
		{name: "upper case extension", input: "REPORT.PDF", expected: FileTypePDF},
		{name: "docx", input: "notes.docx", expected: FileTypeDOCX},
		{name: "png", input: "scan.png", expected: FileTypePNG},
		{name: "jpg", input: "scan.jpg", expected: FileTypeJPG},
		{name: "jpeg", input: "scan.JPEG", expected: FileTypeJPEG},
		{name: "csv", input: "table.csv", expected: FileTypeCSV},
		{name: "txt", input: "readme.txt", expected: FileTypeTXT},
		{name: "bare extension", input: ".txt", expected: FileTypeTXT},
		{name: "path with dots", input: "/tmp/v1.2/notes.final.txt", expected: FileTypeTXT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, err := ParseFileType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ft)
		})
	}
}

func TestParseFileType_Unsupported(t *testing.T) {
	for _, name := range []string{"virus.exe", "archive.tar.gz", "noextension", "", "slides.pptx", "page.html"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFileType(name)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestFileType_IsImage(t *testing.T) {
	images := map[FileType]bool{
		FileTypePNG:  true,
		FileTypeJPG:  true,
		FileTypeJPEG: true,
		FileTypePDF:  false,
		FileTypeDOCX: false,
		FileTypeCSV:  false,
		FileTypeTXT:  false,
	}
	for ft, want := range images {
		assert.Equal(t, want, ft.IsImage(), ft)
	}
}

func TestAllFileTypes(t *testing.T) {
	all := AllFileTypes()
	assert.Len(t, all, 7)
	for _, ft := range all {
		assert.True(t, ft.IsValid())
		assert.Equal(t, "."+ft.String(), ft.Extension())
	}
	assert.False(t, FileType("exe").IsValid())
}
