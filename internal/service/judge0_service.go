package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/rs/zerolog/log"
)

// judge0StatusAccepted is the "Accepted" status id; 4 and above are failures.
const judge0StatusAccepted = 3

// Languages lists the Judge0 language ids accepted for challenges.
var Languages = map[int]string{
	50: "C (GCC 9.2.0)",
	51: "C# (Mono 6.6.0.161)",
	54: "C++ (GCC 9.2.0)",
	60: "Go (1.13.5)",
	62: "Java (OpenJDK 13.0.1)",
	63: "JavaScript (Node.js 12.14.0)",
	68: "PHP (7.4.1)",
	71: "Python (3.8.1)",
	72: "Ruby (2.7.0)",
	73: "Rust (1.40.0)",
	74: "TypeScript (3.7.4)",
}

func LanguageName(id int) (string, bool) {
	name, ok := Languages[id]
	return name, ok
}

type RunRequest struct {
	Code           string
	LanguageID     int
	Stdin          string
	ExpectedOutput string
	TimeLimitMs    int
	MemoryLimitKb  int
}

type RunResult struct {
	Stdout            string
	Stderr            string
	CompileOutput     string
	TimeSec           float64
	MemoryKb          int
	StatusID          int
	StatusDescription string
}

func (r *RunResult) Passed() bool {
	return r.StatusID == judge0StatusAccepted
}

type CodeExecutionService interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

type judge0Service struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	rapidAPIHost string
	timeout      time.Duration
	retries      int
}

func NewJudge0Service(cfg *config.Config) CodeExecutionService {
	return &judge0Service{
		httpClient:   &http.Client{},
		baseURL:      cfg.Judge0.BaseURL,
		apiKey:       cfg.Judge0.APIKey,
		rapidAPIHost: cfg.Judge0.RapidAPIHost,
		timeout:      cfg.Judge0.Timeout,
		retries:      cfg.Judge0.Retries,
	}
}

type judge0Submission struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin,omitempty"`
	ExpectedOutput string  `json:"expected_output,omitempty"`
	CPUTimeLimit   float64 `json:"cpu_time_limit,omitempty"`
	MemoryLimit    int     `json:"memory_limit,omitempty"`
}

type judge0Response struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          *string `json:"time"`
	Memory        *int    `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Run submits one program and waits for its verdict. Transport failures and
// gateway errors get up to s.retries more tries; timeouts are not retried.
func (s *judge0Service) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	payload := judge0Submission{
		SourceCode:     req.Code,
		LanguageID:     req.LanguageID,
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
		MemoryLimit:    req.MemoryLimitKb,
	}
	if req.TimeLimitMs > 0 {
		payload.CPUTimeLimit = float64(req.TimeLimitMs) / 1000
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode judge0 submission: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		result, retryable, err := s.submit(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Int("languageID", req.LanguageID).Msg("Judge0 call failed, retrying")
	}
	return nil, lastErr
}

func (s *judge0Service) submit(ctx context.Context, body []byte) (*RunResult, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := s.baseURL + "/submissions?base64_encoded=false&wait=true"
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build judge0 request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		if s.rapidAPIHost != "" {
			httpReq.Header.Set("X-RapidAPI-Key", s.apiKey)
			httpReq.Header.Set("X-RapidAPI-Host", s.rapidAPIHost)
		} else {
			httpReq.Header.Set("X-Auth-Token", s.apiKey)
		}
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, false, fmt.Errorf("judge0 did not answer within %s: %w", s.timeout, apperror.ErrUpstreamTimeout)
		}
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("judge0 call cancelled: %w", ctx.Err())
		}
		return nil, true, fmt.Errorf("judge0 request failed: %v: %w", err, apperror.ErrUpstreamFailure)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("read judge0 response: %v: %w", err, apperror.ErrUpstreamFailure)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("body", truncate(string(raw), 512)).Msg("Judge0 returned an error status")
		retryable := resp.StatusCode == http.StatusBadGateway ||
			resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode == http.StatusGatewayTimeout
		return nil, retryable, fmt.Errorf("judge0 returned status %d: %w", resp.StatusCode, apperror.ErrUpstreamFailure)
	}

	var decoded judge0Response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Error().Err(err).Str("body", truncate(string(raw), 512)).Msg("Judge0 returned an unreadable body")
		return nil, false, fmt.Errorf("decode judge0 response: %w", apperror.ErrUpstreamFailure)
	}
	return decoded.toResult(), false, nil
}

func (r *judge0Response) toResult() *RunResult {
	result := &RunResult{
		Stdout:            deref(r.Stdout),
		Stderr:            deref(r.Stderr),
		CompileOutput:     deref(r.CompileOutput),
		StatusID:          r.Status.ID,
		StatusDescription: r.Status.Description,
	}
	if r.Time != nil {
		if t, err := strconv.ParseFloat(strings.TrimSpace(*r.Time), 64); err == nil {
			result.TimeSec = t
		}
	}
	if r.Memory != nil {
		result.MemoryKb = *r.Memory
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
