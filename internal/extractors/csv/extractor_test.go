package csv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

func csvPayload(content string) *domain.Payload {
	return &domain.Payload{Name: "data.csv", Type: domain.FileTypeCSV, Content: []byte(content)}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "aligned columns",
			input: "name,qty\napple,3\nbanana,12\n",
			want:  "  name  qty\n apple    3\nbanana   12",
		},
		{
			name:  "header only",
			input: "a,b\n",
			want:  "a  b",
		},
		{
			name:  "ragged rows padded",
			input: "a,b,c\n1\n",
			want:  "a  b  c\n1",
		},
		{
			name:  "quoted comma",
			input: "city,note\nParis,\"big, old\"\n",
			want:  " city      note\nParis  big, old",
		},
		{
			name:  "bom stripped",
			input: "\ufeffx\n1\n",
			want:  "x\n1",
		},
		{
			name:  "multibyte widths",
			input: "k,v\nçé,1\n",
			want:  " k  v\nçé  1",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Extract(context.Background(), csvPayload(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Text)
			assert.Equal(t, domain.MethodCSV, result.Method)
		})
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), csvPayload("a,b\n\xff\xfe,1\n"))
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestExtract_NilPayload(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []domain.FileType{domain.FileTypeCSV}, New().SupportedTypes())
}
