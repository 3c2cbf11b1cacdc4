package gateway

import (
	"fmt"
	"strings"
)

// 搜索输出必须使用 parser 认识的标签块格式，这里的标签和
// parser.labelRules 保持一致。

// BuildSearchPrompt 生成视频检索提示词。输出为纯文本标签块。
func BuildSearchPrompt(topic string) Prompt {
	var sb strings.Builder
	sb.WriteString("请利用联网搜索，为下列教学主题找到恰好 5 个真实存在、当前可以访问的教学视频。\n")
	sb.WriteString("要求：\n")
	sb.WriteString("- 只输出视频条目，不要寒暄或解释。\n")
	sb.WriteString("- 每条视频用下面的纯文本格式，逐行标注，禁止使用 Markdown：\n")
	sb.WriteString("视频 1\n")
	sb.WriteString("标题: <视频标题>\n")
	sb.WriteString("频道: <发布频道或作者>\n")
	sb.WriteString("链接: <完整可点击的 URL>\n")
	sb.WriteString("描述: <一两句话介绍视频内容，必须使用中文>\n")
	sb.WriteString("- 链接必须是真实搜索到的地址，禁止编造。\n")
	sb.WriteString(fmt.Sprintf("\n教学主题：%s\n", topic))

	return Prompt{
		System:    "你是一名教学资源检索助手，擅长为教师挑选高质量教学视频。",
		User:      sb.String(),
		WebSearch: true,
	}
}

// BuildAnalysisPrompt 生成视频分析提示词，配合严格 JSON schema 输出。
func BuildAnalysisPrompt(title, url string) Prompt {
	var sb strings.Builder
	sb.WriteString("请分析下面这个教学视频：\n")
	sb.WriteString(fmt.Sprintf("标题：%s\n", title))
	sb.WriteString(fmt.Sprintf("链接：%s\n\n", url))
	sb.WriteString("要求：\n")
	sb.WriteString("- summary：不超过 3 句话的中文内容摘要。\n")
	sb.WriteString("- assessments：恰好 3 个互不相同的评估任务建议，")
	sb.WriteString("每个包含 id、title（任务名称）、description（一两句中文说明）。\n")

	return Prompt{
		System: "你是一名教学设计专家，负责把教学视频转化为课堂评估方案。",
		User:   sb.String(),
		Schema: analysisSchema(),
	}
}

// analysisSchema 约束分析结果：summary 与 assessments 均为必填，
// 每条 assessment 的 id/title/description 也必填。
func analysisSchema() *ResponseSchema {
	return &ResponseSchema{
		Name: "video_analysis",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{"type": "string"},
				"assessments": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":          map[string]any{"type": "integer"},
							"title":       map[string]any{"type": "string"},
							"description": map[string]any{"type": "string"},
						},
						"required":             []string{"id", "title", "description"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"summary", "assessments"},
			"additionalProperties": false,
		},
	}
}

// BuildPlanPrompt 生成完整教案的提示词。教案是最终交付物，
// 对结构和排版的约束写得最细。
func BuildPlanPrompt(topic, videoTitle, assessmentTitle string) Prompt {
	var sb strings.Builder
	sb.WriteString("请基于以下信息撰写一份完整的中文教案：\n")
	sb.WriteString(fmt.Sprintf("- 教学主题：%s\n", topic))
	sb.WriteString(fmt.Sprintf("- 选定教学视频：%s\n", videoTitle))
	sb.WriteString(fmt.Sprintf("- 选定评估方式：%s\n\n", assessmentTitle))

	sb.WriteString("教案必须包含以下部分，按顺序组织：\n")
	sb.WriteString("1. 教学概述：本课教学目标（3 条以内），以及视频在课堂中的衔接方式。\n")
	sb.WriteString("2. 教学活动安排：一个分时段的活动表格，列固定为：时间 | 环节 | 教师活动 | 学生活动。\n")
	sb.WriteString("3. 教学材料清单：无序列表。\n")
	sb.WriteString("4. 评估实施：评估流程说明和时间安排。\n")
	sb.WriteString("5. 评分标准：一个评分等级表格，列固定为：等级 | 标准，等级分为优秀、良好、合格三档。\n\n")

	sb.WriteString("排版约束：\n")
	sb.WriteString("- 只使用 Markdown 结构：标题、无序列表、管道表格，禁止任何 HTML 标签。\n")
	sb.WriteString("- 表格必须使用竖线分隔的行列格式（| 列1 | 列2 |）。\n")
	sb.WriteString("- 段落之间用空行分隔；段落内换行用行尾两个空格。\n")
	sb.WriteString("- 直接输出教案正文，不要额外解释。\n")

	return Prompt{
		System: "你是一名资深教研员，为一线教师撰写可直接使用的结构化教案。",
		User:   sb.String(),
	}
}
