package export

import (
	"errors"
	"fmt"
)

// ErrExportFailed 两种格式都写不进去时的用户提示。
var ErrExportFailed = errors.New("导出失败，请手动复制教案文本")

// Clipboard 外部剪贴板/文档协作方：接受一次双格式写入，
// 也可能拒绝富文本格式。
type Clipboard interface {
	WriteRich(html, plain string) error
	WriteText(plain string) error
}

// Copy 把载荷写入协作方。富文本写入被拒时退回纯文本写入；
// 返回值指明最终是否只写了纯文本。两种写入都失败才算导出失败。
func Copy(clip Clipboard, doc Document) (plainOnly bool, err error) {
	if err := clip.WriteRich(doc.HTML, doc.Plain); err == nil {
		return false, nil
	}
	if err := clip.WriteText(doc.Plain); err != nil {
		return false, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return true, nil
}
