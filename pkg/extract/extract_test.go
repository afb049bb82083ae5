package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/hmasato/statchat/pkg/common/errors"
)

func TestExtractPlainText(t *testing.T) {
	res, err := Extract("note.txt", []byte("hello world"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", res.Text)
	assert.Nil(t, res.Table)
}

func TestExtractMarkdownVerbatim(t *testing.T) {
	src := "# Title\n\nSome **bold** text.\n"
	res, err := Extract("readme.md", []byte(src))
	require.NoError(t, err)

	// Markdown is treated as plain text; no rendering, no stripping.
	assert.Equal(t, src, res.Text)
}

func TestExtractIsDeterministic(t *testing.T) {
	data := []byte("same bytes in, same text out")

	a, err := Extract("a.txt", data)
	require.NoError(t, err)
	b, err := Extract("a.txt", data)
	require.NoError(t, err)

	assert.Equal(t, a.Text, b.Text)
}

func TestExtractCSVYieldsTable(t *testing.T) {
	res, err := Extract("data.csv", []byte("x\n1\n2\n"))
	require.NoError(t, err)

	require.NotNil(t, res.Table)
	assert.Equal(t, 2, res.Table.RowCount())
	assert.Contains(t, res.Text, "「data.csv」")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr error
	}{
		{"unsupported extension", "archive.zip", []byte("x"), cerr.ErrUnsupportedFormat},
		{"no extension", "noext", []byte("x"), cerr.ErrUnsupportedFormat},
		{"invalid utf8 text", "bad.txt", []byte{0xff, 0xfe, 0x00}, cerr.ErrDecode},
		{"empty text", "empty.txt", []byte("   \n\t\n"), cerr.ErrEmptyContent},
		{"malformed csv", "bad.csv", []byte("a,b\n1\n"), cerr.ErrTabularParse},
		{"malformed pdf", "bad.pdf", []byte("not a pdf"), cerr.ErrExtraction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.file, tt.data)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractExtensionCaseInsensitive(t *testing.T) {
	res, err := Extract("NOTE.TXT", []byte("upper"))
	require.NoError(t, err)
	assert.Equal(t, "upper", res.Text)
}
