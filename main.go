package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"ai_lesson_planner/config"
	"ai_lesson_planner/flow"
	"ai_lesson_planner/gateway"
	"ai_lesson_planner/server"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	gw, err := buildGateway(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	srv, err := server.New(gw, logrus.NewEntry(logrus.StandardLogger()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listen := cfg.ServerAddr
	if *addr != "" {
		listen = *addr
	}

	httpSrv := &http.Server{
		Addr:    listen,
		Handler: srv.Routes(),
	}

	go func() {
		logrus.Infof("lesson planner listening on %s", listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// 等待中断信号后关停。
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")
	if err := httpSrv.Close(); err != nil {
		logrus.Fatalf("shutdown failed: %v", err)
	}
}

// buildGateway 按 provider 构造模型客户端并组装网关。
// deepseek 走 OpenAI 兼容接口，必须显式给 base_url。
func buildGateway(cfg config.Config) (flow.Gateway, error) {
	llmCfg := cfg.LLM
	apiKey := llmCfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("api key missing; set env %s", llmCfg.APIKeyEnv)
	}

	switch llmCfg.Provider {
	case "openai":
		// ok
	case "deepseek":
		if llmCfg.BaseURL == "" {
			return nil, errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return nil, fmt.Errorf("llm provider %s not supported", llmCfg.Provider)
	}

	llm, err := gateway.NewOpenAILLMFromConfig(&gateway.LLMSettings{
		Provider: llmCfg.Provider,
		Model:    llmCfg.Model,
		APIKey:   apiKey,
		BaseURL:  llmCfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	return gateway.New(llm,
		gateway.WithSearchModel(llmCfg.SearchModel),
		gateway.WithPlanModel(llmCfg.PlanModel),
		gateway.WithLogger(logrus.NewEntry(logrus.StandardLogger())),
	)
}
