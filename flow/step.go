// Package flow 实现课程规划流程的步骤状态机：
// 输入主题 → 选择视频 → 选择评估 → 查看教案。
package flow

import "fmt"

// Step 流程中的一个步骤。闭合枚举，步骤间只能按转移表移动，
// 不做裸整数运算。
type Step int

const (
	StepInputTopic Step = iota
	StepSelectVideo
	StepSelectAssessment
	StepViewPlan
)

// TotalSteps 步骤总数，进度指示用。
const TotalSteps = 4

var stepNames = map[Step]string{
	StepInputTopic:       "input_topic",
	StepSelectVideo:      "select_video",
	StepSelectAssessment: "select_assessment",
	StepViewPlan:         "view_plan",
}

// 转移表：每个步骤允许的下一步。终点步骤没有下一步。
var nextStep = map[Step]Step{
	StepInputTopic:       StepSelectVideo,
	StepSelectVideo:      StepSelectAssessment,
	StepSelectAssessment: StepViewPlan,
}

// 回退表：每个步骤允许的上一步。起点步骤不能回退。
var prevStep = map[Step]Step{
	StepSelectVideo:      StepInputTopic,
	StepSelectAssessment: StepSelectVideo,
	StepViewPlan:         StepSelectAssessment,
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Index 返回 0 基的步骤序号，进度指示用。
func (s Step) Index() int {
	return int(s)
}

// Next 返回允许的下一步；终点步骤返回 false。
func (s Step) Next() (Step, bool) {
	n, ok := nextStep[s]
	return n, ok
}

// Prev 返回允许的上一步；起点步骤返回 false。
func (s Step) Prev() (Step, bool) {
	p, ok := prevStep[s]
	return p, ok
}

// MarshalJSON 以名称形式序列化，接口返回里可读。
func (s Step) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
