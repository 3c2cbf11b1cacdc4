// Package server 提供流程的 HTTP 界面：四个顺序屏幕各对应一组端点，
// 每个会话一条独立流水线。
package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ai_lesson_planner/export"
	"ai_lesson_planner/flow"
)

type Server struct {
	gw    flow.Gateway
	store *sessionStore
	log   *logrus.Entry
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*flow.Controller
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*flow.Controller)}
}

func (s *sessionStore) set(id string, c *flow.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = c
}

func (s *sessionStore) get(id string) (*flow.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	return c, ok
}

func New(gw flow.Gateway, log *logrus.Entry) (*Server, error) {
	if gw == nil {
		return nil, errors.New("gateway is required")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		gw:    gw,
		store: newStore(),
		log:   log,
	}, nil
}

func (s *Server) Routes() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	api.POST("/sessions", s.handleSessionCreate)
	api.GET("/sessions/:id", s.handleSnapshot)
	api.POST("/sessions/:id/topic", s.handleSubmitTopic)
	api.POST("/sessions/:id/video/select", s.handleSelectVideo)
	api.POST("/sessions/:id/video/confirm", s.handleConfirmVideo)
	api.POST("/sessions/:id/assessment/select", s.handleSelectAssessment)
	api.POST("/sessions/:id/assessment/confirm", s.handleConfirmAssessment)
	api.POST("/sessions/:id/back", s.handleGoBack)
	api.POST("/sessions/:id/reset", s.handleReset)
	api.GET("/sessions/:id/export", s.handleExport)

	return router
}

// --- 请求/响应形态 ---

type sessionResp struct {
	SessionID  string `json:"session_id"`
	StepIndex  int    `json:"step_index"`
	TotalSteps int    `json:"total_steps"`
	flow.State
}

type topicReq struct {
	Topic string `json:"topic"`
}

type selectReq struct {
	ID int `json:"id"`
}

type resetReq struct {
	Confirm bool `json:"confirm"`
}

func snapshotOf(id string, c *flow.Controller) sessionResp {
	st := c.Snapshot()
	return sessionResp{
		SessionID:  id,
		StepIndex:  st.Step.Index(),
		TotalSteps: flow.TotalSteps,
		State:      st,
	}
}

// --- Handlers ---

func (s *Server) handleSessionCreate(c *gin.Context) {
	id := uuid.NewString()
	ctrl := flow.NewController(s.gw, s.log.WithField("session_id", id))
	s.store.set(id, ctrl)
	s.log.WithField("session_id", id).Info("session created")
	c.JSON(http.StatusCreated, snapshotOf(id, ctrl))
}

func (s *Server) handleSnapshot(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snapshotOf(id, ctrl))
}

func (s *Server) handleSubmitTopic(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	var req topicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式"})
		return
	}
	err := ctrl.SubmitTopic(c.Request.Context(), req.Topic)
	s.respond(c, id, ctrl, err)
}

func (s *Server) handleSelectVideo(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式"})
		return
	}
	s.respond(c, id, ctrl, ctrl.SelectVideo(req.ID))
}

func (s *Server) handleConfirmVideo(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	s.respond(c, id, ctrl, ctrl.ConfirmVideo(c.Request.Context()))
}

func (s *Server) handleSelectAssessment(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式"})
		return
	}
	s.respond(c, id, ctrl, ctrl.SelectAssessment(req.ID))
}

func (s *Server) handleConfirmAssessment(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	s.respond(c, id, ctrl, ctrl.ConfirmAssessment(c.Request.Context()))
}

func (s *Server) handleGoBack(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	s.respond(c, id, ctrl, ctrl.GoBack())
}

// handleReset 是破坏性操作，必须带确认标记。
func (s *Server) handleReset(c *gin.Context) {
	id, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "重置会清空全部进度，需要 confirm=true"})
		return
	}
	ctrl.Reset()
	c.JSON(http.StatusOK, snapshotOf(id, ctrl))
}

// handleExport 返回双格式导出载荷，剪贴板写入由前端协作方完成。
func (s *Server) handleExport(c *gin.Context) {
	_, ctrl, ok := s.session(c)
	if !ok {
		return
	}
	plan := ctrl.Plan()
	if plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "教案尚未生成"})
		return
	}
	doc, err := export.ToRichDocument(plan)
	if err != nil {
		s.log.WithError(err).Error("plan render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": export.ErrExportFailed.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// --- Helpers ---

func (s *Server) session(c *gin.Context) (string, *flow.Controller, bool) {
	id := c.Param("id")
	ctrl, ok := s.store.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return "", nil, false
	}
	return id, ctrl, true
}

// respond 把转移结果折算成 HTTP 状态码，响应体始终带最新快照，
// 错误横幅文本在快照的 error 字段里。
func (s *Server) respond(c *gin.Context, id string, ctrl *flow.Controller, err error) {
	var status int
	switch {
	case err == nil:
		status = http.StatusOK
	case errors.Is(err, flow.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, flow.ErrEmptyTopic),
		errors.Is(err, flow.ErrWrongStep),
		errors.Is(err, flow.ErrInvalidSelection),
		errors.Is(err, flow.ErrNoVideoSelected),
		errors.Is(err, flow.ErrNoAssessmentSelected):
		status = http.StatusBadRequest
	default:
		// 协作方失败：步骤不动，快照里带用户可见的错误提示。
		status = http.StatusBadGateway
	}
	c.JSON(status, snapshotOf(id, ctrl))
}
