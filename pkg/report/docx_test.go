package report

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"sales.csv", "sales_分析レポート.docx"},
		{"レポート資料.pdf", "レポート資料_分析レポート.docx"},
		{"noext", "noext_分析レポート.docx"},
		{"a.b.txt", "a.b_分析レポート.docx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.original))
	}
}

func TestBuildProducesDocx(t *testing.T) {
	data, err := Build(Params{
		FileName: "sales.csv",
		Content:  "行数: 3、列数: 2\n- age: numeric",
		Advisory: "# 提案\n売上の傾向分析が可能です。",
		Now:      time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// A docx is a zip archive.
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte{'P', 'K', 0x03, 0x04}, data[:4])
}

func TestBuildIsDeterministic(t *testing.T) {
	params := Params{
		FileName: "sales.csv",
		Content:  "行数: 3、列数: 2\n- age: numeric",
		Advisory: "# 提案\n売上の傾向分析が可能です。",
		Charts: map[string][]byte{
			"age histogram": pngBytes(t),
			"age box plot":  pngBytes(t),
		},
		Now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}

	first, err := Build(params)
	require.NoError(t, err)
	second, err := Build(params)
	require.NoError(t, err)

	// Same inputs and timestamp produce the same bytes.
	assert.True(t, bytes.Equal(first, second))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestBuildSkipsUndecodableChart(t *testing.T) {
	data, err := Build(Params{
		FileName: "sales.csv",
		Content:  "overview",
		Advisory: "advisory",
		Charts:   map[string][]byte{"age histogram": []byte("not a png")},
		Now:      time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	})

	// The bad chart is dropped; the report itself still builds.
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestReflow(t *testing.T) {
	blocks := reflow("# 見出し\n\n本文の段落です。\n## 小見出し\n###### 深すぎる見出し\n#\n次の段落")

	require.Len(t, blocks, 5)

	assert.Equal(t, blockHeading, blocks[0].kind)
	assert.Equal(t, 2, blocks[0].level)
	assert.Equal(t, "見出し", blocks[0].text)

	assert.Equal(t, blockParagraph, blocks[1].kind)
	assert.Equal(t, "本文の段落です。", blocks[1].text)

	assert.Equal(t, blockHeading, blocks[2].kind)
	assert.Equal(t, 3, blocks[2].level)

	// Deep markers are capped; bare markers are dropped.
	assert.Equal(t, maxHeadingDepth, blocks[3].level)

	assert.Equal(t, blockParagraph, blocks[4].kind)
	assert.Equal(t, "次の段落", blocks[4].text)
}

func TestReadableTitle(t *testing.T) {
	assert.Equal(t, "age histogram", readableTitle("age_histogram"))
}
