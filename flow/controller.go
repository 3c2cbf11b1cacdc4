package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"ai_lesson_planner/gateway"
	"ai_lesson_planner/model"
)

// 流程层的前置条件错误。文本即界面提示。
var (
	ErrEmptyTopic           = errors.New("请输入教学主题")
	ErrNoResults            = errors.New("未找到相关视频，请换一个主题试试")
	ErrNoVideoSelected      = errors.New("请先选择一个视频")
	ErrNoAssessmentSelected = errors.New("请先选择一种评估方式")
	ErrInvalidSelection     = errors.New("无效的选择")
	ErrWrongStep            = errors.New("当前步骤不能执行该操作")
	ErrBusy                 = errors.New("上一步操作还在进行中，请稍候")
)

// Gateway 是流程控制器对 AI 网关的依赖面。
type Gateway interface {
	SearchVideos(ctx context.Context, topic string) ([]model.VideoCandidate, error)
	AnalyzeVideo(ctx context.Context, title, url string) (model.VideoAnalysis, error)
	GeneratePlan(ctx context.Context, topic, videoTitle, assessmentTitle string) (string, error)
}

// State 是流程状态的一次快照，渲染用。切片和指针均为副本，
// 调用方拿到后随意读写不影响控制器。
type State struct {
	Step               Step                    `json:"step"`
	Topic              string                  `json:"topic"`
	Candidates         []model.VideoCandidate  `json:"candidates,omitempty"`
	SelectedVideo      *model.VideoCandidate   `json:"selected_video,omitempty"`
	Analysis           *model.VideoAnalysis    `json:"analysis,omitempty"`
	SelectedAssessment *model.AssessmentOption `json:"selected_assessment,omitempty"`
	Plan               string                  `json:"plan,omitempty"`
	Error              string                  `json:"error,omitempty"`
	Busy               bool                    `json:"busy"`
}

// Controller 持有一条流水线的全部可变状态，是其唯一拥有者。
// 同一时刻最多一个网络型转移在途；复位后迟到的结果按代号丢弃。
type Controller struct {
	gw  Gateway
	log *logrus.Entry

	mu                 sync.Mutex
	step               Step
	topic              string
	candidates         []model.VideoCandidate
	selectedVideo      *model.VideoCandidate
	analysis           *model.VideoAnalysis
	selectedAssessment *model.AssessmentOption
	plan               string
	errMsg             string
	busy               bool
	generation         int
}

func NewController(gw Gateway, log *logrus.Entry) *Controller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Controller{
		gw:   gw,
		log:  log,
		step: StepInputTopic,
	}
}

// SubmitTopic 提交主题并检索候选视频。主题为空直接拒绝，不会出网。
// 零结果停留在当前步骤并提示无结果。
func (c *Controller) SubmitTopic(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.step != StepInputTopic {
		c.mu.Unlock()
		return ErrWrongStep
	}
	c.errMsg = ""
	if topic == "" {
		c.errMsg = ErrEmptyTopic.Error()
		c.mu.Unlock()
		return ErrEmptyTopic
	}
	c.busy = true
	gen := c.generation
	c.mu.Unlock()

	candidates, err := c.gw.SearchVideos(ctx, topic)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if gen != c.generation {
		c.log.Info("discarding stale search result after reset")
		return nil
	}
	if err != nil {
		c.errMsg = userMessage(err)
		return err
	}
	if len(candidates) == 0 {
		c.errMsg = ErrNoResults.Error()
		return ErrNoResults
	}
	c.topic = topic
	c.candidates = candidates
	// 候选列表换了，旧选择和依赖它的下游结果全部作废。
	c.selectedVideo = nil
	c.analysis = nil
	c.selectedAssessment = nil
	c.step = StepSelectVideo
	c.log.WithFields(logrus.Fields{"topic": topic, "candidates": len(candidates)}).Info("advanced to video selection")
	return nil
}

// SelectVideo 纯状态变更：按 ID 选中候选，不推进步骤、不出网。
func (c *Controller) SelectVideo(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	if c.step != StepSelectVideo {
		return ErrWrongStep
	}
	c.errMsg = ""
	for i := range c.candidates {
		if c.candidates[i].ID == id {
			v := c.candidates[i]
			c.selectedVideo = &v
			return nil
		}
	}
	c.errMsg = ErrInvalidSelection.Error()
	return ErrInvalidSelection
}

// ConfirmVideo 分析已选视频，成功后进入评估选择步骤。
func (c *Controller) ConfirmVideo(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.step != StepSelectVideo {
		c.mu.Unlock()
		return ErrWrongStep
	}
	c.errMsg = ""
	if c.selectedVideo == nil {
		c.errMsg = ErrNoVideoSelected.Error()
		c.mu.Unlock()
		return ErrNoVideoSelected
	}
	video := *c.selectedVideo
	c.busy = true
	gen := c.generation
	c.mu.Unlock()

	analysis, err := c.gw.AnalyzeVideo(ctx, video.Title, video.URL)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if gen != c.generation {
		c.log.Info("discarding stale analysis result after reset")
		return nil
	}
	if err != nil {
		c.errMsg = userMessage(err)
		return err
	}
	c.analysis = &analysis
	// 新分析带来新的评估列表，旧选择作废。
	c.selectedAssessment = nil
	c.step = StepSelectAssessment
	c.log.WithFields(logrus.Fields{"video": video.Title, "assessments": len(analysis.Assessments)}).Info("advanced to assessment selection")
	return nil
}

// SelectAssessment 纯状态变更：按 ID 选中评估建议。
func (c *Controller) SelectAssessment(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	if c.step != StepSelectAssessment {
		return ErrWrongStep
	}
	c.errMsg = ""
	if c.analysis != nil {
		for i := range c.analysis.Assessments {
			if c.analysis.Assessments[i].ID == id {
				a := c.analysis.Assessments[i]
				c.selectedAssessment = &a
				return nil
			}
		}
	}
	c.errMsg = ErrInvalidSelection.Error()
	return ErrInvalidSelection
}

// ConfirmAssessment 生成教案，成功后进入终点步骤。
func (c *Controller) ConfirmAssessment(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.step != StepSelectAssessment {
		c.mu.Unlock()
		return ErrWrongStep
	}
	c.errMsg = ""
	if c.selectedAssessment == nil {
		c.errMsg = ErrNoAssessmentSelected.Error()
		c.mu.Unlock()
		return ErrNoAssessmentSelected
	}
	topic := c.topic
	videoTitle := ""
	if c.selectedVideo != nil {
		videoTitle = c.selectedVideo.Title
	}
	assessmentTitle := c.selectedAssessment.Title
	c.busy = true
	gen := c.generation
	c.mu.Unlock()

	plan, err := c.gw.GeneratePlan(ctx, topic, videoTitle, assessmentTitle)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if gen != c.generation {
		c.log.Info("discarding stale plan result after reset")
		return nil
	}
	if err != nil {
		c.errMsg = userMessage(err)
		return err
	}
	c.plan = plan
	c.step = StepViewPlan
	c.log.WithField("bytes", len(plan)).Info("advanced to plan view")
	return nil
}

// GoBack 后退一步。错误清空；已取回的数据保留，回到选视频
// 步骤时不需要重新检索。教案只在终点步骤存在，离开即清空。
func (c *Controller) GoBack() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	prev, ok := c.step.Prev()
	if !ok {
		return ErrWrongStep
	}
	if c.step == StepViewPlan {
		c.plan = ""
	}
	c.step = prev
	c.errMsg = ""
	return nil
}

// Reset 清空全部状态回到起点。复位不打断在途请求，
// 但代号一变，迟到的结果会被丢弃。
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.step = StepInputTopic
	c.topic = ""
	c.candidates = nil
	c.selectedVideo = nil
	c.analysis = nil
	c.selectedAssessment = nil
	c.plan = ""
	c.errMsg = ""
	c.log.Info("pipeline reset")
}

// Plan 返回教案文本；终点步骤之外为空串。
func (c *Controller) Plan() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// Snapshot 返回深拷贝的状态快照。
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Step:  c.step,
		Topic: c.topic,
		Plan:  c.plan,
		Error: c.errMsg,
		Busy:  c.busy,
	}
	if len(c.candidates) > 0 {
		st.Candidates = make([]model.VideoCandidate, len(c.candidates))
		copy(st.Candidates, c.candidates)
	}
	if c.selectedVideo != nil {
		v := *c.selectedVideo
		st.SelectedVideo = &v
	}
	if c.analysis != nil {
		a := model.VideoAnalysis{Summary: c.analysis.Summary}
		a.Assessments = make([]model.AssessmentOption, len(c.analysis.Assessments))
		copy(a.Assessments, c.analysis.Assessments)
		st.Analysis = &a
	}
	if c.selectedAssessment != nil {
		a := *c.selectedAssessment
		st.SelectedAssessment = &a
	}
	return st
}

// userMessage 把网关错误折算成界面提示文本，不向用户暴露底层原因。
func userMessage(err error) string {
	for _, kind := range []error{
		gateway.ErrSearchFailed,
		gateway.ErrAnalysisFailed,
		gateway.ErrPlanGenerationFailed,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return fmt.Sprintf("操作失败：%v", err)
}
