package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai_lesson_planner/model"
)

// analysisEnvelope 宽松的中间形态：字段先按原始 JSON 留存，
// 单个字段类型不符时降级为空值，而不是整体失败。
type analysisEnvelope struct {
	Summary     json.RawMessage `json:"summary"`
	Assessments json.RawMessage `json:"assessments"`
}

type rawAssessment struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ParseAnalysis 解析视频分析结果。顶层必须是合法 JSON 对象，否则报错；
// summary 缺失按空串处理，assessments 缺失或不是数组按空列表处理。
// 每条评估建议的 ID 一律重编为数组中的 1 基位置，忽略模型给的编号。
func ParseAnalysis(raw string) (model.VideoAnalysis, error) {
	cleaned := trimJSONFence(raw)

	var env analysisEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return model.VideoAnalysis{}, fmt.Errorf("analysis is not valid JSON: %w", err)
	}

	analysis := model.VideoAnalysis{Assessments: []model.AssessmentOption{}}

	if len(env.Summary) > 0 {
		// 类型不符（比如数字）时保持空串。
		_ = json.Unmarshal(env.Summary, &analysis.Summary)
	}

	if len(env.Assessments) > 0 {
		var items []rawAssessment
		if err := json.Unmarshal(env.Assessments, &items); err == nil {
			for i, it := range items {
				analysis.Assessments = append(analysis.Assessments, model.AssessmentOption{
					ID:          i + 1,
					Title:       it.Title,
					Description: it.Description,
				})
			}
		}
	}

	return analysis, nil
}

// trimJSONFence 去掉模型偶尔包裹的 markdown 代码块围栏。
func trimJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
