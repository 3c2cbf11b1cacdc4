package gateway

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt 表示一次补全请求。三个操作对模型能力的要求不同：
// 搜索需要联网检索，分析需要严格 JSON schema，生成教案两者都不要。
type Prompt struct {
	System string
	User   string

	// Model 覆盖客户端默认模型，空值用默认。
	Model string

	// WebSearch 开启联网搜索增强，保证结果引用真实视频。
	WebSearch bool

	// Schema 非空时要求模型按严格 JSON schema 输出。
	Schema *ResponseSchema
}

// ResponseSchema 结构化输出约束。Schema 为 JSON Schema 的 map 形式。
type ResponseSchema struct {
	Name   string
	Schema map[string]any
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
