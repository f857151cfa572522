package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	// Add word/document.xml
	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
` + body + `
</w:body>
</w:document>`
}

func docxPayload(content []byte) *domain.Payload {
	return &domain.Payload{Name: "doc.docx", Type: domain.FileTypeDOCX, Content: content}
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []domain.FileType{domain.FileTypeDOCX}, New().SupportedTypes())
}

func TestExtract_Success(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`))

	result, err := New().Extract(context.Background(), docxPayload(content))

	require.NoError(t, err)
	assert.Equal(t, "Hello World", result.Text)
	assert.Equal(t, domain.MethodDOCX, result.Method)
}

func TestExtract_NilPayload(t *testing.T) {
	result, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtract_InvalidZip(t *testing.T) {
	result, err := New().Extract(context.Background(), docxPayload([]byte("not a zip file")))

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, domain.FileTypeDOCX, extErr.Type)
	assert.Nil(t, result)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	_, err := New().Extract(context.Background(), docxPayload(createTestDOCX("")))

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, errNoDocumentPart)
}

func TestExtract_MalformedXML(t *testing.T) {
	_, err := New().Extract(context.Background(), docxPayload(createTestDOCX(`<w:document><w:body><w:p>`)))
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_MultipleParagraphs(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Third paragraph</w:t></w:r></w:p>`))

	result, err := New().Extract(context.Background(), docxPayload(content))

	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond paragraph\nThird paragraph", result.Text)
}

func TestExtract_MultipleRuns(t *testing.T) {
	// Multiple runs in a single paragraph (e.g., different formatting)
	content := createTestDOCX(wrapBody(`<w:p>
<w:r><w:t>Hello </w:t></w:r>
<w:r><w:t>World</w:t></w:r>
</w:p>`))

	result, err := New().Extract(context.Background(), docxPayload(content))

	require.NoError(t, err)
	assert.Equal(t, "Hello World", result.Text)
}

func TestExtract_TabsAndBreaks(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>Name</w:t><w:tab/><w:t>Value</w:t><w:br/><w:t>Next line</w:t></w:r></w:p>`))

	result, err := New().Extract(context.Background(), docxPayload(content))

	require.NoError(t, err)
	assert.Equal(t, "Name\tValue\nNext line", result.Text)
}

func TestExtract_EmptyParagraphsKeepPositions(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>Top</w:t></w:r></w:p>
<w:p/>
<w:p><w:r><w:t>Bottom</w:t></w:r></w:p>`))

	result, err := New().Extract(context.Background(), docxPayload(content))

	require.NoError(t, err)
	assert.Equal(t, "Top\n\nBottom", result.Text)
}

func TestExtract_TableParagraphs(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`))

	result, err := New().Extract(context.Background(), docxPayload(content))

	require.NoError(t, err)
	assert.Equal(t, "cell", result.Text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	result, err := New().Extract(context.Background(), docxPayload(createTestDOCX(wrapBody(""))))

	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func BenchmarkExtract(b *testing.B) {
	extractor := New()
	ctx := context.Background()
	payload := docxPayload(createTestDOCX(wrapBody(`<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = extractor.Extract(ctx, payload)
	}
}
