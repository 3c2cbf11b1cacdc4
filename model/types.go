package model

// VideoCandidate 搜索阶段解析出的单条候选视频。
// ID 在解析时按出现顺序重新编号（1..5），与模型输出里的序号无关。
type VideoCandidate struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// AssessmentOption 针对选定视频的一种评估任务建议。
type AssessmentOption struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VideoAnalysis 视频分析结果：摘要 + 评估任务建议列表。
type VideoAnalysis struct {
	Summary     string             `json:"summary"`
	Assessments []AssessmentOption `json:"assessments"`
}
