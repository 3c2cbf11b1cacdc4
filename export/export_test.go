package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `# 牛顿第二定律 教案

## 教学活动安排

| 时间 | 环节 | 教师活动 | 学生活动 |
| --- | --- | --- | --- |
| 5分钟 | 导入 | 提问 | 思考 |
`

func TestToRichDocumentRendersTableWithInlineStyles(t *testing.T) {
	doc, err := ToRichDocument(samplePlan)
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, `<table style="`+tableStyle+`">`)
	assert.Contains(t, doc.HTML, `<th style="`+thStyle+`">`)
	assert.Contains(t, doc.HTML, `<td style="`+tdStyle+`">`)
	assert.NotContains(t, doc.HTML, "<style>", "不允许出现样式表块")

	// <thead>/<tbody> 不能被表头单元格的模式误伤。
	assert.Contains(t, doc.HTML, "<thead>")
	assert.Contains(t, doc.HTML, "<tbody>")
}

func TestToRichDocumentWrapsContainer(t *testing.T) {
	doc, err := ToRichDocument("# 标题")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.HTML, `<div style="`))
	assert.True(t, strings.HasSuffix(doc.HTML, "</div>"))
	assert.Contains(t, doc.HTML, "<h1>标题</h1>")
}

func TestToRichDocumentPlainIsOriginalMarkdown(t *testing.T) {
	doc, err := ToRichDocument(samplePlan)
	require.NoError(t, err)
	assert.Equal(t, samplePlan, doc.Plain)
}

func TestInjectInlineStylesKeepsExistingAttributes(t *testing.T) {
	out := injectInlineStyles(`<td align="left">x</td>`)
	assert.Equal(t, `<td align="left" style="`+tdStyle+`">x</td>`, out)
}

// fakeClipboard 按开关拒绝某种格式的写入，记录最终写入内容。
type fakeClipboard struct {
	rejectRich bool
	rejectText bool

	gotHTML  string
	gotPlain string
}

func (f *fakeClipboard) WriteRich(html, plain string) error {
	if f.rejectRich {
		return errors.New("format not supported")
	}
	f.gotHTML = html
	f.gotPlain = plain
	return nil
}

func (f *fakeClipboard) WriteText(plain string) error {
	if f.rejectText {
		return errors.New("clipboard unavailable")
	}
	f.gotPlain = plain
	return nil
}

func TestCopyPrefersRich(t *testing.T) {
	clip := &fakeClipboard{}
	doc := Document{HTML: "<div>x</div>", Plain: "x"}

	plainOnly, err := Copy(clip, doc)
	require.NoError(t, err)
	assert.False(t, plainOnly)
	assert.Equal(t, doc.HTML, clip.gotHTML)
	assert.Equal(t, doc.Plain, clip.gotPlain)
}

func TestCopyFallsBackToPlainText(t *testing.T) {
	clip := &fakeClipboard{rejectRich: true}
	doc := Document{HTML: "<div>x</div>", Plain: "原文"}

	plainOnly, err := Copy(clip, doc)
	require.NoError(t, err)
	assert.True(t, plainOnly)
	assert.Equal(t, "原文", clip.gotPlain)
	assert.Empty(t, clip.gotHTML)
}

func TestCopyFailsWhenBothWritesFail(t *testing.T) {
	clip := &fakeClipboard{rejectRich: true, rejectText: true}

	_, err := Copy(clip, Document{HTML: "h", Plain: "p"})
	assert.ErrorIs(t, err, ErrExportFailed)
}
