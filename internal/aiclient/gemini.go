// Package aiclient calls the Gemini API to correct the letter case of
// product model names. Calls draw credentials from the key pool and degrade
// to the original names when every key fails; a batch never aborts the run.
package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/catalog-tools/catqa/internal/keypool"
)

// Cleaner corrects a batch of model names, returning a mapping from the
// original spelling to the corrected one. On persistent failure the mapping
// is the identity and the error describes why; callers report the
// degradation instead of stopping.
type Cleaner interface {
	TitleCaseBatch(ctx context.Context, names []string) (map[string]string, error)
}

// Config holds GeminiCleaner settings.
type Config struct {
	Model     string
	RetryBase time.Duration
	RetryMax  time.Duration
}

// GeminiCleaner implements Cleaner over the Gemini generate-content API
// with structured JSON output.
type GeminiCleaner struct {
	pool    *keypool.Pool
	model   string
	log     zerolog.Logger
	back    *backoff
	clients map[string]*genai.Client

	// generate performs one API call; replaced in tests.
	generate func(ctx context.Context, credential, prompt string) ([]string, error)
}

// New creates a GeminiCleaner drawing credentials from pool.
func New(pool *keypool.Pool, cfg Config, log zerolog.Logger) *GeminiCleaner {
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 10 * time.Second
	}
	c := &GeminiCleaner{
		pool:    pool,
		model:   cfg.Model,
		log:     log,
		back:    newBackoff(cfg.RetryBase, cfg.RetryMax),
		clients: make(map[string]*genai.Client),
	}
	c.generate = c.callGemini
	return c
}

// TitleCaseBatch corrects one batch of names. Each key is tried at most
// once per batch; quota errors mark the key exhausted so later batches skip
// it. On total failure the identity mapping is returned with the error.
func (c *GeminiCleaner) TitleCaseBatch(ctx context.Context, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	prompt := buildPrompt(names)
	tried := make(map[int]bool)
	c.back.Reset()

	var lastErr error
	for attempt := 0; attempt < c.pool.Size(); attempt++ {
		key, err := c.pool.Next(ctx)
		if err != nil {
			lastErr = err
			break
		}
		if tried[key.ID] {
			break
		}
		tried[key.ID] = true

		c.log.Debug().Int("key", key.Number).Int("names", len(names)).Msg("requesting name correction")
		fixed, err := c.generate(ctx, key.Credential, prompt)
		if err != nil {
			lastErr = err
			if isQuotaError(err) {
				c.log.Warn().Int("key", key.Number).Msg("key quota exhausted, rotating")
				c.pool.MarkExhausted(key)
			} else {
				c.log.Warn().Int("key", key.Number).Err(err).Msg("name correction call failed, rotating")
				c.pool.RecordCall(key)
				c.pool.Advance(key)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if serr := c.back.Sleep(ctx); serr != nil {
				lastErr = serr
				break
			}
			continue
		}

		if len(fixed) != len(names) {
			lastErr = fmt.Errorf("response carried %d names, want %d", len(fixed), len(names))
			c.pool.RecordCall(key)
			c.pool.Advance(key)
			continue
		}

		c.pool.RecordCall(key)
		mapping := make(map[string]string, len(names))
		for i, name := range names {
			mapping[name] = fixed[i]
		}
		return mapping, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no usable key")
	}
	c.log.Warn().Err(lastErr).Msg("all keys failed for batch, keeping original names")

	identity := make(map[string]string, len(names))
	for _, name := range names {
		identity[name] = name
	}
	return identity, fmt.Errorf("name correction degraded: %w", lastErr)
}

// namesSchema constrains the response to {"names": [...strings]}.
var namesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"names": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"names"},
}

func (c *GeminiCleaner) clientFor(ctx context.Context, credential string) (*genai.Client, error) {
	if client, ok := c.clients[credential]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: credential})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.clients[credential] = client
	return client, nil
}

func (c *GeminiCleaner) callGemini(ctx context.Context, credential, prompt string) ([]string, error) {
	client, err := c.clientFor(ctx, credential)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   namesSchema,
		})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	var out struct {
		Names []string `json:"names"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Names, nil
}

// isQuotaError matches provider quota and rate responses.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource has been exhausted") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "429")
}
