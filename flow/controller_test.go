package flow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_lesson_planner/gateway"
	"ai_lesson_planner/model"
)

// fakeGateway 按函数字段回放结果，记录调用次数。
type fakeGateway struct {
	searchFn  func(ctx context.Context, topic string) ([]model.VideoCandidate, error)
	analyzeFn func(ctx context.Context, title, url string) (model.VideoAnalysis, error)
	planFn    func(ctx context.Context, topic, videoTitle, assessmentTitle string) (string, error)

	searchCalls atomic.Int32
}

func (f *fakeGateway) SearchVideos(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
	f.searchCalls.Add(1)
	return f.searchFn(ctx, topic)
}

func (f *fakeGateway) AnalyzeVideo(ctx context.Context, title, url string) (model.VideoAnalysis, error) {
	return f.analyzeFn(ctx, title, url)
}

func (f *fakeGateway) GeneratePlan(ctx context.Context, topic, videoTitle, assessmentTitle string) (string, error) {
	return f.planFn(ctx, topic, videoTitle, assessmentTitle)
}

func threeCandidates() []model.VideoCandidate {
	return []model.VideoCandidate{
		{ID: 1, Title: "视频一", URL: "https://example.com/1"},
		{ID: 2, Title: "视频二", URL: "https://example.com/2"},
		{ID: 3, Title: "视频三", URL: "https://example.com/3"},
	}
}

func threeAssessments() model.VideoAnalysis {
	return model.VideoAnalysis{
		Summary: "两句话摘要。",
		Assessments: []model.AssessmentOption{
			{ID: 1, Title: "实验报告", Description: "写报告"},
			{ID: 2, Title: "随堂测验", Description: "十道题"},
			{ID: 3, Title: "小组展示", Description: "分组讲解"},
		},
	}
}

func happyGateway(plan string) *fakeGateway {
	return &fakeGateway{
		searchFn: func(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
			return threeCandidates(), nil
		},
		analyzeFn: func(ctx context.Context, title, url string) (model.VideoAnalysis, error) {
			return threeAssessments(), nil
		},
		planFn: func(ctx context.Context, topic, videoTitle, assessmentTitle string) (string, error) {
			return plan, nil
		},
	}
}

func TestSubmitTopicEmptyRejectedWithoutGatewayCall(t *testing.T) {
	gw := happyGateway("plan")
	c := NewController(gw, nil)

	err := c.SubmitTopic(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Zero(t, gw.searchCalls.Load())

	st := c.Snapshot()
	assert.Equal(t, StepInputTopic, st.Step)
	assert.Equal(t, ErrEmptyTopic.Error(), st.Error)
}

func TestSubmitTopicZeroResultsStaysOnInput(t *testing.T) {
	gw := happyGateway("")
	gw.searchFn = func(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
		return nil, nil
	}
	c := NewController(gw, nil)

	err := c.SubmitTopic(context.Background(), "冷门主题")
	assert.ErrorIs(t, err, ErrNoResults)

	st := c.Snapshot()
	assert.Equal(t, StepInputTopic, st.Step)
	assert.Equal(t, ErrNoResults.Error(), st.Error)
}

func TestSubmitTopicSearchFailureStoresUserMessage(t *testing.T) {
	gw := happyGateway("")
	gw.searchFn = func(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
		return nil, gateway.ErrSearchFailed
	}
	c := NewController(gw, nil)

	err := c.SubmitTopic(context.Background(), "主题")
	assert.ErrorIs(t, err, gateway.ErrSearchFailed)

	st := c.Snapshot()
	assert.Equal(t, StepInputTopic, st.Step)
	assert.Equal(t, gateway.ErrSearchFailed.Error(), st.Error)
}

func TestEndToEndHappyPath(t *testing.T) {
	const planDoc = "# 牛顿定律教案\n\n正文。"
	gw := happyGateway(planDoc)
	c := NewController(gw, nil)
	ctx := context.Background()

	require.NoError(t, c.SubmitTopic(ctx, "Newton's laws"))
	st := c.Snapshot()
	require.Equal(t, StepSelectVideo, st.Step)
	require.Len(t, st.Candidates, 3)

	require.NoError(t, c.SelectVideo(2))
	require.NoError(t, c.ConfirmVideo(ctx))
	st = c.Snapshot()
	require.Equal(t, StepSelectAssessment, st.Step)
	require.NotNil(t, st.Analysis)
	require.Len(t, st.Analysis.Assessments, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{
		st.Analysis.Assessments[0].ID,
		st.Analysis.Assessments[1].ID,
		st.Analysis.Assessments[2].ID,
	})

	require.NoError(t, c.SelectAssessment(1))
	require.NoError(t, c.ConfirmAssessment(ctx))
	st = c.Snapshot()
	assert.Equal(t, StepViewPlan, st.Step)
	assert.Equal(t, planDoc, st.Plan)
	assert.Empty(t, st.Error)
}

func TestConfirmVideoRequiresSelection(t *testing.T) {
	gw := happyGateway("plan")
	c := NewController(gw, nil)
	require.NoError(t, c.SubmitTopic(context.Background(), "主题"))

	err := c.ConfirmVideo(context.Background())
	assert.ErrorIs(t, err, ErrNoVideoSelected)
	assert.Equal(t, StepSelectVideo, c.Snapshot().Step)
}

func TestSelectVideoInvalidID(t *testing.T) {
	gw := happyGateway("plan")
	c := NewController(gw, nil)
	require.NoError(t, c.SubmitTopic(context.Background(), "主题"))

	assert.ErrorIs(t, c.SelectVideo(99), ErrInvalidSelection)
}

func TestSelectVideoWrongStep(t *testing.T) {
	c := NewController(happyGateway("plan"), nil)
	assert.ErrorIs(t, c.SelectVideo(1), ErrWrongStep)
}

func TestAnalysisFailureStaysOnSelectVideo(t *testing.T) {
	gw := happyGateway("plan")
	gw.analyzeFn = func(ctx context.Context, title, url string) (model.VideoAnalysis, error) {
		return model.VideoAnalysis{}, gateway.ErrAnalysisFailed
	}
	c := NewController(gw, nil)
	ctx := context.Background()
	require.NoError(t, c.SubmitTopic(ctx, "主题"))
	require.NoError(t, c.SelectVideo(1))

	err := c.ConfirmVideo(ctx)
	assert.ErrorIs(t, err, gateway.ErrAnalysisFailed)

	st := c.Snapshot()
	assert.Equal(t, StepSelectVideo, st.Step)
	assert.Equal(t, gateway.ErrAnalysisFailed.Error(), st.Error)
}

func TestGoBackKeepsFetchedDataAndClearsError(t *testing.T) {
	gw := happyGateway("plan")
	c := NewController(gw, nil)
	ctx := context.Background()
	require.NoError(t, c.SubmitTopic(ctx, "主题"))
	require.NoError(t, c.SelectVideo(2))
	require.NoError(t, c.ConfirmVideo(ctx))

	// 制造一个错误横幅再回退。
	_ = c.ConfirmAssessment(ctx)
	require.NoError(t, c.GoBack())

	st := c.Snapshot()
	assert.Equal(t, StepSelectVideo, st.Step)
	assert.Len(t, st.Candidates, 3)
	assert.Empty(t, st.Error)
	assert.Equal(t, int32(1), gw.searchCalls.Load(), "回到选视频步骤不应重新检索")
}

func TestResubmitTopicInvalidatesDownstreamSelections(t *testing.T) {
	gw := happyGateway("plan")
	gw.searchFn = func(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
		if topic == "新主题" {
			return []model.VideoCandidate{{ID: 1, Title: "全新视频", URL: "https://example.com/new"}}, nil
		}
		return threeCandidates(), nil
	}
	c := NewController(gw, nil)
	ctx := context.Background()

	require.NoError(t, c.SubmitTopic(ctx, "旧主题"))
	require.NoError(t, c.SelectVideo(3))
	require.NoError(t, c.ConfirmVideo(ctx))
	require.NoError(t, c.SelectAssessment(1))

	require.NoError(t, c.GoBack())
	require.NoError(t, c.GoBack())
	require.NoError(t, c.SubmitTopic(ctx, "新主题"))

	st := c.Snapshot()
	require.Len(t, st.Candidates, 1)
	assert.Nil(t, st.SelectedVideo, "旧候选列表上的选择不能带进新列表")
	assert.Nil(t, st.Analysis)
	assert.Nil(t, st.SelectedAssessment)

	// 没有针对新列表的选择之前不允许确认。
	assert.ErrorIs(t, c.ConfirmVideo(ctx), ErrNoVideoSelected)
}

func TestReconfirmVideoInvalidatesSelectedAssessment(t *testing.T) {
	gw := happyGateway("plan")
	gw.analyzeFn = func(ctx context.Context, title, url string) (model.VideoAnalysis, error) {
		if title == "视频二" {
			return model.VideoAnalysis{
				Summary: "新摘要。",
				Assessments: []model.AssessmentOption{
					{ID: 1, Title: "全新任务", Description: "另一套评估"},
				},
			}, nil
		}
		return threeAssessments(), nil
	}
	c := NewController(gw, nil)
	ctx := context.Background()

	require.NoError(t, c.SubmitTopic(ctx, "主题"))
	require.NoError(t, c.SelectVideo(1))
	require.NoError(t, c.ConfirmVideo(ctx))
	require.NoError(t, c.SelectAssessment(3))

	require.NoError(t, c.GoBack())
	require.NoError(t, c.SelectVideo(2))
	require.NoError(t, c.ConfirmVideo(ctx))

	st := c.Snapshot()
	require.NotNil(t, st.Analysis)
	require.Len(t, st.Analysis.Assessments, 1)
	assert.Nil(t, st.SelectedAssessment, "旧分析上的选择不能带进新分析")

	assert.ErrorIs(t, c.ConfirmAssessment(ctx), ErrNoAssessmentSelected)
}

func TestGoBackFromInitialStepRejected(t *testing.T) {
	c := NewController(happyGateway("plan"), nil)
	assert.ErrorIs(t, c.GoBack(), ErrWrongStep)
}

func TestGoBackFromPlanViewClearsPlan(t *testing.T) {
	gw := happyGateway("# 教案")
	c := NewController(gw, nil)
	ctx := context.Background()
	require.NoError(t, c.SubmitTopic(ctx, "主题"))
	require.NoError(t, c.SelectVideo(1))
	require.NoError(t, c.ConfirmVideo(ctx))
	require.NoError(t, c.SelectAssessment(1))
	require.NoError(t, c.ConfirmAssessment(ctx))

	require.NoError(t, c.GoBack())
	st := c.Snapshot()
	assert.Equal(t, StepSelectAssessment, st.Step)
	assert.Empty(t, st.Plan, "教案只在终点步骤存在")
	assert.NotNil(t, st.Analysis)
}

func TestResetClearsEverything(t *testing.T) {
	gw := happyGateway("# 教案")
	c := NewController(gw, nil)
	ctx := context.Background()
	require.NoError(t, c.SubmitTopic(ctx, "主题"))
	require.NoError(t, c.SelectVideo(1))
	require.NoError(t, c.ConfirmVideo(ctx))

	c.Reset()
	st := c.Snapshot()
	assert.Equal(t, StepInputTopic, st.Step)
	assert.Empty(t, st.Topic)
	assert.Empty(t, st.Candidates)
	assert.Nil(t, st.SelectedVideo)
	assert.Nil(t, st.Analysis)
	assert.Nil(t, st.SelectedAssessment)
	assert.Empty(t, st.Plan)
	assert.Empty(t, st.Error)
}

func TestBusyBlocksSecondTransition(t *testing.T) {
	release := make(chan struct{})
	gw := happyGateway("plan")
	gw.searchFn = func(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
		<-release
		return threeCandidates(), nil
	}
	c := NewController(gw, nil)

	done := make(chan error, 1)
	go func() { done <- c.SubmitTopic(context.Background(), "主题") }()

	// 等第一笔请求占住流水线。
	require.Eventually(t, func() bool { return c.Snapshot().Busy }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.SubmitTopic(context.Background(), "另一个主题"), ErrBusy)
	assert.ErrorIs(t, c.GoBack(), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepSelectVideo, c.Snapshot().Step)
}

func TestStaleResultDiscardedAfterReset(t *testing.T) {
	release := make(chan struct{})
	gw := happyGateway("plan")
	gw.searchFn = func(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
		<-release
		return threeCandidates(), nil
	}
	c := NewController(gw, nil)

	done := make(chan error, 1)
	go func() { done <- c.SubmitTopic(context.Background(), "主题") }()
	require.Eventually(t, func() bool { return c.Snapshot().Busy }, time.Second, 5*time.Millisecond)

	c.Reset()
	close(release)
	require.NoError(t, <-done)

	// 复位后迟到的结果被丢弃，流水线保持初始状态。
	st := c.Snapshot()
	assert.Equal(t, StepInputTopic, st.Step)
	assert.Empty(t, st.Candidates)
	assert.Empty(t, st.Topic)
}
