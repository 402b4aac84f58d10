package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/internal/apperror"
)

// fakeExecutor accepts code containing "correct" and rejects the rest.
// Timings come from the code text so tests can steer judging.
type fakeExecutor struct {
	mu       sync.Mutex
	stdins   []string
	inFlight atomic.Int32
	peak     atomic.Int32
	failFor  string
	timeSec  map[string]float64
	memoryKb map[string]int
	delay    time.Duration
}

func (f *fakeExecutor) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.stdins = append(f.stdins, req.Stdin)
	f.mu.Unlock()

	if f.failFor != "" && strings.Contains(req.Code, f.failFor) {
		return nil, apperror.ErrUpstreamFailure
	}
	res := &RunResult{StatusID: 4, StatusDescription: "Wrong Answer", TimeSec: 0.1, MemoryKb: 1000}
	if strings.Contains(req.Code, "correct") {
		res.StatusID = judge0StatusAccepted
		res.StatusDescription = "Accepted"
		res.Stdout = req.ExpectedOutput
	}
	if t, ok := f.timeSec[req.Code]; ok {
		res.TimeSec = t
	}
	if m, ok := f.memoryKb[req.Code]; ok {
		res.MemoryKb = m
	}
	return res, nil
}

func (f *fakeExecutor) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stdins...)
}

type fakeAI struct {
	code string
	err  error
	last GenerateRequest
}

func (f *fakeAI) GenerateSolution(_ context.Context, req GenerateRequest) (string, error) {
	f.last = req
	return f.code, f.err
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Judge0: config.Judge0{MaxConcurrency: 2, Timeout: time.Second},
		Leaderboard: config.Leaderboard{
			CacheTTL:       time.Minute,
			TopLimit:       50,
			ChallengeLimit: 10,
		},
	}
}
