package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1/chat/completions"

// ErrOracleUnavailable возвращается после исчерпания всех попыток.
// Вызывающий компонент обязан иметь статический fallback — эта ошибка
// никогда не должна доходить до пользователя как есть.
var ErrOracleUnavailable = errors.New("LLM API недоступен после всех повторных попыток")

// CallRecorder получает исход каждого завершенного вызова API.
// Выполняется internal/metrics.Metrics.
type CallRecorder interface {
	IncrementOracleCall(success bool)
}

// Client — клиент OpenAI chat completions API с повторными попытками
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client

	maxRetries  int
	minInterval time.Duration
	recorder    CallRecorder

	mu           sync.Mutex
	lastCallTime time.Time
}

// SetRecorder подключает учет вызовов API. Вызывать до начала работы.
func (c *Client) SetRecorder(r CallRecorder) {
	c.recorder = r
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Usage   Usage     `json:"usage"`
	Error   *APIError `json:"error,omitempty"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewClient создает клиент с увеличенным таймаутом для сложных запросов
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		maxRetries:  3,
		minInterval: 500 * time.Millisecond,
	}
}

// NewClientWithConfig создает клиент с расширенной конфигурацией
func NewClientWithConfig(apiKey, model, baseURL string, timeout time.Duration, maxRetries int) *Client {
	c := NewClient(apiKey, model)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	if timeout > 0 {
		c.client.Timeout = timeout
	}
	if maxRetries > 0 {
		c.maxRetries = maxRetries
	}
	return c
}

// enforcePacing выдерживает минимальный интервал между вызовами,
// чтобы не упираться в rate limit при быстрых сериях запросов
func (c *Client) enforcePacing(ctx context.Context) error {
	c.mu.Lock()
	wait := time.Duration(0)
	if !c.lastCallTime.IsZero() {
		elapsed := time.Since(c.lastCallTime)
		if elapsed < c.minInterval {
			wait = c.minInterval - elapsed
		}
	}
	c.lastCallTime = time.Now().Add(wait)
	c.mu.Unlock()

	if wait > 0 {
		return sleepWithContext(ctx, wait)
	}
	return nil
}

// GenerateResponse отправляет промпт и возвращает текст ответа модели.
// Временные сбои (таймауты, 5xx) повторяются с экспоненциальной задержкой,
// rate limit (429) — с отдельным, более длинным рядом задержек.
func (c *Client) GenerateResponse(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if err := c.enforcePacing(ctx); err != nil {
		return "", err
	}

	request := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		content, retryable, err := c.doRequest(ctx, jsonData)
		if c.recorder != nil {
			c.recorder.IncrementOracleCall(err == nil)
		}
		if err == nil {
			return content, nil
		}
		lastErr = err

		if !retryable || attempt == c.maxRetries-1 {
			break
		}

		delay := transientBackoff(attempt)
		if errors.Is(err, errRateLimited) {
			delay = rateLimitBackoff(attempt)
			log.Printf("Rate limit от API, ждем %s перед повтором (попытка %d)", delay, attempt+1)
		} else {
			log.Printf("Временная ошибка API: %v, повтор через %s (попытка %d)", err, delay, attempt+1)
		}

		if sleepErr := sleepWithContext(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
	}

	return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, lastErr)
}

var errRateLimited = errors.New("rate limit exceeded")

// doRequest выполняет один HTTP запрос. Второй результат — можно ли повторять.
func (c *Client) doRequest(ctx context.Context, jsonData []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		// Сетевые ошибки и таймауты считаем временными
		return "", true, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, fmt.Errorf("%w: %s", errRateLimited, string(body))
	case resp.StatusCode >= 500:
		return "", true, fmt.Errorf("HTTP ошибка %d: %s", resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("HTTP ошибка %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", false, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if chatResp.Error != nil {
		return "", false, fmt.Errorf("OpenAI API ошибка: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", false, fmt.Errorf("пустой ответ от OpenAI")
	}

	return chatResp.Choices[0].Message.Content, false, nil
}

// transientBackoff: 1s, 2s, 4s для таймаутов и 5xx
func transientBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// rateLimitBackoff: 15s, 30s, 60s с потолком 120s — после 429 нужна заметно
// большая пауза, чем после обычного сбоя
func rateLimitBackoff(attempt int) time.Duration {
	delay := time.Duration(15*(1<<uint(attempt))) * time.Second
	if delay > 120*time.Second {
		delay = 120 * time.Second
	}
	return delay
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
