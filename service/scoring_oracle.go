package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"loan-eligibility/domain"
)

// ScoringOracle proposes a loan decision for one request. Implementations
// return the oracle's raw text; callers parse and bound it.
type ScoringOracle interface {
	Assess(ctx context.Context, in OracleContext) (string, error)
}

type LLMOracleConfig struct {
	APIURL      string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// LLMOracle asks an OpenAI-compatible chat-completions endpoint for a decision.
type LLMOracle struct {
	cfg    LLMOracleConfig
	client *fasthttp.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewLLMOracle(cfg LLMOracleConfig) *LLMOracle {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &LLMOracle{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:         "loan-eligibility",
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
	}
}

func (o *LLMOracle) Assess(ctx context.Context, in OracleContext) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: oracleSystemPrompt},
			{Role: "user", Content: BuildAssessmentPrompt(in)},
		},
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode oracle request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(o.cfg.APIURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	req.SetBody(body)

	deadline := time.Now().Add(o.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := o.client.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return "", fmt.Errorf("%w: timed out", domain.ErrOracleResponse)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrOracleResponse, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOracleResponse, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("%w: API error (status %d): %s", domain.ErrOracleResponse, resp.StatusCode(), resp.Body())
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: decode completion: %v", domain.ErrOracleResponse, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", domain.ErrOracleResponse)
	}
	return out.Choices[0].Message.Content, nil
}
