package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/kilianp07/chargetime/core/logger"
	"github.com/kilianp07/chargetime/core/model"
)

// Messages shown instead of advice.
const (
	MsgNotConfigured = "AI advice unavailable: API Key not configured."
	MsgUnreachable   = "Unable to connect to AI assistant."
	MsgEmpty         = "Could not generate advice at this time."
)

// ErrNotConfigured is reported alongside MsgNotConfigured.
var ErrNotConfigured = errors.New("advisor api key not configured")

// Config defines the Gemini endpoint and credentials. Endpoint is the API
// base URL; APIVersion is appended to it by the client.
type Config struct {
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`
	Endpoint   string `json:"endpoint"`
	APIVersion string `json:"api_version"`
}

// SetDefaults fills the model, endpoint and API version.
func (c *Config) SetDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.Endpoint == "" {
		c.Endpoint = "https://generativelanguage.googleapis.com/"
	}
	if c.APIVersion == "" {
		c.APIVersion = "v1beta"
	}
}

// Validate checks the endpoint. An empty key is valid and yields
// MsgNotConfigured at request time.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("advisor endpoint %q must be an http(s) URL", c.Endpoint)
	}
	if c.Model == "" {
		return errors.New("advisor model is required")
	}
	return nil
}

// GeminiService asks a Gemini model through the genai SDK.
type GeminiService struct {
	cfg         Config
	capacityKWh float64
	now         func() time.Time
	log         logger.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiService builds a service. The SDK client is created on the first
// request; the call is bounded only by the request context.
func NewGeminiService(cfg Config, capacityKWh float64, now func() time.Time, log logger.Logger) *GeminiService {
	cfg.SetDefaults()
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &GeminiService{cfg: cfg, capacityKWh: capacityKWh, now: now, log: log}
}

// Advise asks the model for a recommendation. It never returns an empty
// string: missing configuration, transport errors and empty answers map to
// the fixed messages above, with the cause in the error.
func (g *GeminiService) Advise(ctx context.Context, batteryPct int, options []model.CalculatedOption) (string, error) {
	if g.cfg.APIKey == "" {
		return MsgNotConfigured, ErrNotConfigured
	}
	text, err := g.generate(ctx, BuildPrompt(g.capacityKWh, batteryPct, g.now(), options))
	if err != nil {
		g.log.Errorf("gemini request: %v", err)
		return MsgUnreachable, err
	}
	if strings.TrimSpace(text) == "" {
		return MsgEmpty, nil
	}
	return strings.TrimSpace(text), nil
}

func (g *GeminiService) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    g.cfg.Endpoint,
			APIVersion: g.cfg.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = c
	return c, nil
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	c, err := g.genaiClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := c.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
