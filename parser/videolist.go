// Package parser 将模型的原始输出转换为类型化的领域记录。
// 搜索结果是自由文本，解析必须容忍缺行、乱序和模型自带的编号。
package parser

import (
	"strings"

	"ai_lesson_planner/model"
)

// MaxCandidates 最多返回的候选视频数。
const MaxCandidates = 5

type candidateField int

const (
	fieldTitle candidateField = iota
	fieldChannel
	fieldURL
	fieldDescription
)

// labelRule 把一组标签同义词映射到一个字段。
// 同义词覆盖英文与中文两种标注；新增变体只需加数据，不加分支。
type labelRule struct {
	field    candidateField
	synonyms []string
}

var labelRules = []labelRule{
	{fieldURL, []string{"视频链接", "链接", "地址", "url", "link"}},
	{fieldTitle, []string{"标题", "题目", "title"}},
	{fieldChannel, []string{"频道", "发布者", "channel", "author"}},
	{fieldDescription, []string{"描述", "简介", "介绍", "description"}},
}

// 标记行前缀：一条新候选的开始。大小写不敏感，允许带序号或装饰。
var entryMarkers = []string{"video", "视频"}

// candidateBuilder 是解析过程中的半成品条目。
// 与完成态 VideoCandidate 分离：只有 title 和 url 齐备才会转成候选。
type candidateBuilder struct {
	title       string
	channel     string
	url         string
	description string
}

func (b *candidateBuilder) set(f candidateField, v string) {
	switch f {
	case fieldTitle:
		b.title = v
	case fieldChannel:
		b.channel = v
	case fieldURL:
		b.url = v
	case fieldDescription:
		b.description = v
	}
}

// build 仅在必填字段齐备时产出候选；channel/description 允许为空。
func (b *candidateBuilder) build() (model.VideoCandidate, bool) {
	if b.title == "" || b.url == "" {
		return model.VideoCandidate{}, false
	}
	return model.VideoCandidate{
		Title:       b.title,
		Channel:     b.channel,
		URL:         b.url,
		Description: b.description,
	}, true
}

// ParseVideoList 从自由文本里抽取候选视频。
// 逐行扫描：标签行填充当前条目，标记行冲刷并另起条目，其余行忽略。
// 结果截断到前 5 条，ID 按产出顺序重新编号为 1..N。
func ParseVideoList(raw string) []model.VideoCandidate {
	var out []model.VideoCandidate
	cur := &candidateBuilder{}

	flush := func() {
		if c, ok := cur.build(); ok {
			out = append(out, c)
		}
		cur = &candidateBuilder{}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		// 标签行可能带列表符号，先剥掉再匹配。
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line == "" {
			continue
		}
		// 先按标签匹配，避免“视频链接：…”被误认成新条目标记。
		if f, value, ok := matchLabel(line); ok {
			cur.set(f, value)
			continue
		}
		if isEntryMarker(line) {
			flush()
			continue
		}
		// 无标签的续行直接忽略，不做跨行拼接。
	}
	flush()

	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}

// matchLabel 识别“标签: 值”行。同义词按长度优先排列，保证
// 最长前缀先命中。返回剥掉标签和分隔符后的值。
func matchLabel(line string) (candidateField, string, bool) {
	lower := strings.ToLower(line)
	for _, rule := range labelRules {
		for _, syn := range rule.synonyms {
			if !strings.HasPrefix(lower, syn) {
				continue
			}
			rest := line[len(syn):]
			// 标签名后面必须跟分隔符（正文里恰好以 link 开头的行不算标签）。
			if rest == "" || !startsWithSeparator(rest) {
				continue
			}
			value := strings.TrimSpace(strings.TrimLeft(rest, ":：-— \t"))
			// 有标签没有值的行不携带信息，不能把已填的字段冲成空。
			if value == "" {
				continue
			}
			return rule.field, value, true
		}
	}
	return 0, "", false
}

func startsWithSeparator(s string) bool {
	return strings.IndexAny(s, ":：-— \t") == 0
}

// isEntryMarker 判断该行是否标记一条新候选的开始，
// 例如 "Video 1:"、"视频2："、"【视频 3】"。
func isEntryMarker(line string) bool {
	stripped := strings.ToLower(strings.TrimLeft(line, "#*-•【[（( \t"))
	for _, m := range entryMarkers {
		if strings.HasPrefix(stripped, m) {
			return true
		}
	}
	return false
}
