package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mapmymeal/api/internal/client"
	"github.com/mapmymeal/api/internal/entity"
)

// ChatCompleter sends a chat conversation to a completion endpoint.
type ChatCompleter interface {
	Complete(ctx context.Context, req client.ChatRequest) (*client.ChatResponse, error)
}

// PlanGenerator produces meal-plan text for the pipeline.
type PlanGenerator interface {
	Generate(ctx context.Context, in PromptInput) string
}

// PromptInput is everything the meal-plan prompt is built from.
type PromptInput struct {
	Location    string
	Budget      int
	Diet        entity.Diet
	Restaurants []entity.Restaurant
	Menus       *entity.MenuTable
}

// PlannerConfig fixes the model and the regional flavour of the prompt.
type PlannerConfig struct {
	Model    string
	Cuisine  string
	Currency string
}

// Planner builds the meal-plan prompt and interprets the model's reply.
type Planner struct {
	chat ChatCompleter
	cfg  PlannerConfig
}

// NewPlanner wires a planner to a chat backend.
func NewPlanner(chat ChatCompleter, cfg PlannerConfig) *Planner {
	if cfg.Model == "" {
		cfg.Model = "inflection/inflection-3-pi"
	}
	if cfg.Cuisine == "" {
		cfg.Cuisine = "Indian"
	}
	if cfg.Currency == "" {
		cfg.Currency = "₹"
	}
	return &Planner{chat: chat, cfg: cfg}
}

// SystemPrompt is the instruction sent ahead of the user prompt.
func (p *Planner) SystemPrompt() string {
	return fmt.Sprintf("You format concise, budget-friendly %s meal suggestions.", p.cfg.Cuisine)
}

// BuildPrompt renders the user prompt. When any restaurant has menu items the
// menu block is embedded; otherwise the restaurant summary block is.
func (p *Planner) BuildPrompt(in PromptInput) string {
	block := restaurantBlock(in.Restaurants)
	if in.Menus.HasAny() {
		block = menuBlock(in.Menus)
	}

	cur := p.cfg.Currency
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful %s meal planner.\n", p.cfg.Cuisine)
	fmt.Fprintf(&b, "City/Area: %s\n", in.Location)
	fmt.Fprintf(&b, "Budget per meal: %s%d\n", cur, in.Budget)
	fmt.Fprintf(&b, "Diet: %s\n\n", in.Diet)
	b.WriteString("Nearby restaurants & menus:\n")
	b.WriteString(block)
	b.WriteString("\n\nTask:\n")

	labels := make([]string, 0, len(entity.MealSlots))
	for _, slot := range entity.MealSlots {
		labels = append(labels, slot.Label())
	}
	fmt.Fprintf(&b, "1) Suggest exactly four meal times: %s.\n", strings.Join(labels, ", "))
	b.WriteString("2) Each meal should have 2–3 items.\n")
	fmt.Fprintf(&b, "3) Use dishes ONLY from menus if available; otherwise realistic %s dishes.\n", p.cfg.Cuisine)
	b.WriteString("4) Respect the diet strictly.\n")
	b.WriteString("5) Estimate prices under the budget.\n")
	b.WriteString("6) Output ONLY in this format:\n\n")
	for i, slot := range entity.MealSlots {
		fmt.Fprintf(&b, "%s: <dish 1>, <dish 2> at <restaurant> (~%sprice)", slot.Label(), cur)
		if i < len(entity.MealSlots)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Generate asks the model for a plan. It never fails: transport problems and
// malformed replies come back as a diagnostic line shown in place of the plan.
func (p *Planner) Generate(ctx context.Context, in PromptInput) string {
	logger := zerolog.Ctx(ctx)

	resp, err := p.chat.Complete(ctx, client.ChatRequest{
		Model: p.cfg.Model,
		Messages: []client.ChatMessage{
			{Role: "system", Content: p.SystemPrompt()},
			{Role: "user", Content: p.BuildPrompt(in)},
		},
	})
	if err != nil {
		logger.Error().Err(err).Str("model", p.cfg.Model).Msg("chat completion failed")
		return fmt.Sprintf("OpenRouter request failed: %v", err)
	}

	logger.Debug().RawJSON("response", resp.Raw).Msg("chat completion response")

	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content
	}
	if msg, ok := resp.ErrorMessage(); ok {
		logger.Warn().Str("error", msg).Msg("chat completion returned an error")
		return fmt.Sprintf("❌ OpenRouter error: %s", msg)
	}
	logger.Warn().Msg("chat completion returned no choices")
	return fmt.Sprintf("⚠ Unexpected response: %s", resp.Raw)
}

func restaurantBlock(restaurants []entity.Restaurant) string {
	if len(restaurants) == 0 {
		return "No restaurants found."
	}
	lines := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		lines = append(lines, fmt.Sprintf("- %s | ⭐ %s | %s | %s",
			r.Title().Or("Unknown"),
			r.Rating().Or("N/A"),
			r.Price().Or("N/A"),
			r.Address().Or(""),
		))
	}
	return strings.Join(lines, "\n")
}

func menuBlock(menus *entity.MenuTable) string {
	var lines []string
	for _, name := range menus.Names() {
		items := menus.Items(name).Or(nil)
		if len(items) == 0 {
			continue
		}
		lines = append(lines, name+" menu: "+strings.Join(items, ", "))
	}
	return strings.Join(lines, "\n")
}

// SplitPlanLines returns the non-blank lines of a plan, trimmed.
func SplitPlanLines(plan string) []string {
	var lines []string
	for _, line := range strings.Split(plan, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
