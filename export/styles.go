package export

import (
	"fmt"
	"regexp"
)

// 粘贴目标会丢弃 <style> 块，只有元素上的内联样式能存活。
// 表格必须有可见边框和全宽，单元格要有边框和内边距，表头加浅色底。
const (
	tableStyle = "border-collapse:collapse;width:100%;border:1px solid #999;"
	thStyle    = "border:1px solid #999;padding:6px 10px;background:#f2f2f2;text-align:left;"
	tdStyle    = "border:1px solid #999;padding:6px 10px;"
)

// th 的模式要求标签名后紧跟空白或结束，避免吃掉 <thead>。
var (
	tableTagRe = regexp.MustCompile(`<table(\s[^>]*)?>`)
	thTagRe    = regexp.MustCompile(`<th(\s[^>]*)?>`)
	tdTagRe    = regexp.MustCompile(`<td(\s[^>]*)?>`)
)

// injectInlineStyles 给表格相关元素注入内联样式，保留原有属性。
func injectInlineStyles(html string) string {
	html = tableTagRe.ReplaceAllString(html, `<table$1 style="`+tableStyle+`">`)
	html = thTagRe.ReplaceAllString(html, `<th$1 style="`+thStyle+`">`)
	html = tdTagRe.ReplaceAllString(html, `<td$1 style="`+tdStyle+`">`)
	return html
}

// wrapContainer 用带基础字体、行高和文字颜色的容器包住整个载荷，
// 保证粘贴出来默认就有可读的排版。
func wrapContainer(html string) string {
	const containerStyle = "font-family:-apple-system,'Segoe UI','PingFang SC','Microsoft YaHei',sans-serif;" +
		"font-size:15px;line-height:1.7;color:#333;"
	return fmt.Sprintf(`<div style="%s">%s</div>`, containerStyle, html)
}
