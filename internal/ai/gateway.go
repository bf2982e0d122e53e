// Package ai wraps the hosted generative-AI service used for line-item
// extraction and financial insights.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/andy/invoicer/internal/domain"
)

// Generator is the single call the gateway makes against the model API.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ExtractedItem is one line item as returned by the model, before it is
// given an identity.
type ExtractedItem struct {
	Description string
	Quantity    float64
	Price       float64
}

// Gateway turns free text into line items and financial summaries into
// insight text. It does not retry, deduplicate or cache.
type Gateway struct {
	gen        Generator
	model      string
	configured bool
	logger     *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for failure reports.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGateway builds a gateway over gen. An empty model selects DefaultModel.
func NewGateway(gen Generator, model string, opts ...Option) *Gateway {
	if model == "" {
		model = DefaultModel
	}
	_, unconfigured := gen.(unconfiguredGenerator)
	g := &Gateway{
		gen:        gen,
		model:      model,
		configured: !unconfigured,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the model name requests are sent to.
func (g *Gateway) Model() string { return g.model }

// Configured reports whether the gateway has real credentials behind it.
func (g *Gateway) Configured() bool { return g.configured }

// ExtractLineItems asks the model for structured line items describing text.
//
// Any failure, including a response that is not a JSON array of complete
// items, returns a *ServiceError and no items. An explicit empty array is a
// success with zero items.
func (g *Gateway) ExtractLineItems(ctx context.Context, text string) ([]ExtractedItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPrompt
	}

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(extractPrompt(text)), extractConfig())
	if err != nil {
		return nil, g.fail("extract", err)
	}

	body := strings.TrimSpace(responseText(resp))
	if body == "" {
		return nil, g.fail("extract", errors.New("empty response"))
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, g.fail("extract", err)
	}

	g.logger.Debug("extracted line items", "count", len(items), "model", g.model)
	return items, nil
}

// SummarizeFinancials returns short insights for summary. It never fails:
// errors become UnavailableFallback and an empty answer NoInsightsFallback.
func (g *Gateway) SummarizeFinancials(ctx context.Context, summary string) string {
	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(summaryPrompt(summary)), nil)
	if err != nil {
		g.logger.Warn("ai summarize failed", "model", g.model, "error", err)
		return UnavailableFallback
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return NoInsightsFallback
	}
	return text
}

func (g *Gateway) fail(op string, err error) error {
	g.logger.Warn("ai "+op+" failed", "model", g.model, "error", err)
	return &ServiceError{Op: op, Err: err}
}

// ToLineItems gives each extracted item a fresh UUID.
func ToLineItems(items []ExtractedItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LineItem{
			ID:          uuid.NewString(),
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return out
}

// wireItem uses pointers so missing required fields can be told apart from
// zero values.
type wireItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	Price       *float64 `json:"price"`
}

func decodeItems(body string) ([]ExtractedItem, error) {
	var raw []wireItem
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decode line items: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode line items: response is not an array")
	}

	items := make([]ExtractedItem, 0, len(raw))
	for i, w := range raw {
		switch {
		case w.Description == nil:
			return nil, fmt.Errorf("item %d: missing description", i)
		case w.Quantity == nil:
			return nil, fmt.Errorf("item %d: missing quantity", i)
		case w.Price == nil:
			return nil, fmt.Errorf("item %d: missing price", i)
		}
		items = append(items, ExtractedItem{
			Description: *w.Description,
			Quantity:    *w.Quantity,
			Price:       *w.Price,
		})
	}
	return items, nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
