// Package gateway 封装对生成式 AI 服务的三次请求：搜视频、析视频、出教案。
// 三个操作彼此独立，只读不写流程状态，失败时返回面向用户的错误种类。
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ai_lesson_planner/model"
	"ai_lesson_planner/parser"
)

// PlanFallback 模型成功返回却没有内容时的兜底教案文本，
// 保证下游永远拿不到空文档。
const PlanFallback = "# 教案生成未返回内容\n\n模型本次没有产出教案正文，请返回上一步重新生成。"

// Gateway 负责提示词组装、模型调用与输出解析。
// 内部不做重试：是否重试由界面上的用户决定。
type Gateway struct {
	llm LLMClient

	// searchModel 需要联网搜索能力；planModel 用更强的档位，
	// 教案是最长也最关键的输出。两者为空时用客户端默认模型。
	searchModel string
	planModel   string

	log *logrus.Entry
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithSearchModel 指定搜索操作使用的模型。
func WithSearchModel(m string) Option {
	return func(g *Gateway) { g.searchModel = m }
}

// WithPlanModel 指定教案生成使用的模型。
func WithPlanModel(m string) Option {
	return func(g *Gateway) { g.planModel = m }
}

// WithLogger 指定日志器。
func WithLogger(log *logrus.Entry) Option {
	return func(g *Gateway) { g.log = log }
}

func New(llm LLMClient, opts ...Option) (*Gateway, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	g := &Gateway{
		llm: llm,
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SearchVideos 按主题检索候选视频。成功但一条都解析不出时返回空列表，
// 是否当作错误由调用方决定。
func (g *Gateway) SearchVideos(ctx context.Context, topic string) ([]model.VideoCandidate, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: 主题为空", ErrSearchFailed)
	}

	prompt := BuildSearchPrompt(topic)
	prompt.Model = g.searchModel

	start := time.Now()
	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		g.log.WithError(err).Warn("video search request failed")
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	candidates := parser.ParseVideoList(raw)
	g.log.WithFields(logrus.Fields{
		"topic":      topic,
		"candidates": len(candidates),
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Info("video search done")
	return candidates, nil
}

// AnalyzeVideo 为选定视频生成摘要和评估建议。
// 解析失败与传输失败对用户是同一种错误。
func (g *Gateway) AnalyzeVideo(ctx context.Context, title, url string) (model.VideoAnalysis, error) {
	start := time.Now()
	raw, err := g.llm.Complete(ctx, BuildAnalysisPrompt(title, url))
	if err != nil {
		g.log.WithError(err).Warn("video analysis request failed")
		return model.VideoAnalysis{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	analysis, err := parser.ParseAnalysis(raw)
	if err != nil {
		g.log.WithError(err).Warn("video analysis response malformed")
		return model.VideoAnalysis{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	g.log.WithFields(logrus.Fields{
		"title":       title,
		"assessments": len(analysis.Assessments),
		"elapsed":     time.Since(start).Round(time.Millisecond),
	}).Info("video analysis done")
	return analysis, nil
}

// GeneratePlan 生成完整教案文档，原文透传不再解析。
func (g *Gateway) GeneratePlan(ctx context.Context, topic, videoTitle, assessmentTitle string) (string, error) {
	prompt := BuildPlanPrompt(topic, videoTitle, assessmentTitle)
	prompt.Model = g.planModel

	start := time.Now()
	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		g.log.WithError(err).Warn("plan generation request failed")
		return "", fmt.Errorf("%w: %v", ErrPlanGenerationFailed, err)
	}

	doc := strings.TrimSpace(raw)
	if doc == "" {
		g.log.Warn("plan generation returned empty document, using fallback")
		doc = PlanFallback
	}

	g.log.WithFields(logrus.Fields{
		"topic":   topic,
		"bytes":   len(doc),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("plan generation done")
	return doc, nil
}
