package gateway

import (
	"context"
	"errors"
	"sync"
)

// MockResult 一次脚本化的模型回复。
type MockResult struct {
	Content string
	Err     error
}

// MockLLM 按脚本顺序回放回复的占位实现，便于测试，不调用外部模型。
// 记录收到的所有 Prompt 供断言。
type MockLLM struct {
	mu      sync.Mutex
	Results []MockResult
	Calls   []Prompt
	next    int
}

func (m *MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, prompt)
	if m.next >= len(m.Results) {
		return "", errors.New("mock llm: no scripted result left")
	}
	r := m.Results[m.next]
	m.next++
	return r.Content, r.Err
}

// CallCount 返回已收到的请求数。
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
