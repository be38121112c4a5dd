// Package avalai 封装对 AvalaAI（OpenAI 兼容网关）的两种单次调用：
// /responses 形态（{"model","input"} -> output_text）和
// /chat/completions 形态（消息列表 -> choices[0].message.content）。
// 不做重试、退避和限流，每次失败只终结当前这一次调用。
package avalai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// 默认端点与模型
const (
	DefaultBaseURL = "https://api.avalai.ir/v1"
	DefaultModel   = "gemini-2.5-flash-lite"
)

// 连通性检查的结论文案
const (
	MsgKeyValid   = "API Key is valid"
	MsgKeyInvalid = "API Key is invalid or expired"
)

// ErrMissingOutputText 响应体中缺少 output_text 字段
var ErrMissingOutputText = errors.New("no 'output_text' field in response")

// Config 客户端配置
type Config struct {
	// APIKey 必填，进程启动时从外部配置解析，绝不内置默认值
	APIKey string

	// BaseURL API 根地址，空值取 DefaultBaseURL
	BaseURL string

	// Model 模型名，空值取 DefaultModel
	Model string

	// Timeout 单次请求超时，空值取 30s
	Timeout time.Duration
}

// StatusError 非 2xx 状态码错误，保留原始响应体供打印
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: status %d", e.Code)
}

// CallStats 单次调用的展示用统计
type CallStats struct {
	StatusCode int
	Elapsed    time.Duration
}

// ElapsedMS 返回毫秒耗时（保留两位小数的原始值由调用方格式化）
func (s CallStats) ElapsedMS() float64 {
	return float64(s.Elapsed.Microseconds()) / 1000.0
}

// Status 连通性检查结果
type Status struct {
	Code    int
	Valid   bool
	Message string
	Body    string
}

// Client AvalaAI 客户端
type Client struct {
	config     Config
	httpClient *http.Client
	chatClient *openai.Client
}

// New 创建新的客户端
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	chatCfg := openai.DefaultConfig(cfg.APIKey)
	chatCfg.BaseURL = cfg.BaseURL
	chatCfg.HTTPClient = httpClient

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		chatClient: openai.NewClientWithConfig(chatCfg),
	}
}

// Model 返回配置的模型名
func (c *Client) Model() string {
	return c.config.Model
}

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type responsesBody struct {
	OutputText *string `json:"output_text"`
}

// Respond 执行一次 /responses 形态的调用，返回去除首尾空白和包裹引号后的文本。
// 非 2xx 返回 *StatusError；响应体缺少 output_text 返回 ErrMissingOutputText。
// 两种情况下 stats 都已填充，供调用方打印状态码和耗时。
func (c *Client) Respond(ctx context.Context, input string) (string, CallStats, error) {
	var stats CallStats

	body, err := json.Marshal(responsesRequest{
		Model: c.config.Model,
		Input: input,
	})
	if err != nil {
		return "", stats, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", stats, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	stats.Elapsed = time.Since(start)
	if err != nil {
		return "", stats, err
	}
	defer resp.Body.Close()

	stats.StatusCode = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", stats, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", stats, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var parsed responsesBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", stats, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.OutputText == nil {
		return "", stats, ErrMissingOutputText
	}

	translation := strings.TrimSpace(*parsed.OutputText)
	translation = strings.Trim(translation, `"`)
	return translation, stats, nil
}

// Chat 执行一次 chat/completions 形态的调用，返回 choices[0].message.content
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	resp, err := c.chatClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// CheckConnectivity 发送一次最小的 /responses 探测请求并归类状态码。
// 连接层失败返回 error；拿到任何状态码都算检查完成，不视为 error。
func (c *Client) CheckConnectivity(ctx context.Context) (Status, error) {
	body, err := json.Marshal(responsesRequest{
		Model: c.config.Model,
		Input: "Hello, world!",
	})
	if err != nil {
		return Status{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return Status{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{}, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	status := Status{Code: resp.StatusCode, Body: string(raw)}
	switch resp.StatusCode {
	case http.StatusOK:
		status.Valid = true
		status.Message = MsgKeyValid
	case http.StatusUnauthorized:
		status.Message = MsgKeyInvalid
	default:
		status.Message = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}
	return status, nil
}

// IsTimeout 判断错误是否为请求超时（客户端超时或 context 截止）
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
