// Package export 把教案 Markdown 转成可导出的双格式载荷。
// 目标文档协作方会丢掉内嵌样式表，所以样式必须内联到元素上。
package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Document 双格式导出载荷：富文本 HTML 和纯文本各一份，
// 供剪贴板一次性双格式写入。
type Document struct {
	HTML  string `json:"html_payload"`
	Plain string `json:"plain_payload"`
}

// 教案里有管道表格，必须带 GFM 扩展才能渲染。
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToRichDocument 渲染教案并注入内联样式。纯文本载荷就是教案原文。
func ToRichDocument(plan string) (Document, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(plan), &buf); err != nil {
		return Document{}, fmt.Errorf("render plan: %w", err)
	}

	html := injectInlineStyles(buf.String())
	html = wrapContainer(html)

	return Document{HTML: html, Plain: plan}, nil
}
