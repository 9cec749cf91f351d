package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mapmymeal/api/internal/client"
	"github.com/mapmymeal/api/internal/entity"
)

type fakeChat struct {
	resp  *client.ChatResponse
	err   error
	calls int
	last  client.ChatRequest
}

func (f *fakeChat) Complete(_ context.Context, req client.ChatRequest) (*client.ChatResponse, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

func chatReply(content string) *client.ChatResponse {
	return &client.ChatResponse{
		Choices: []client.ChatChoice{{Message: client.ChatMessage{Role: "assistant", Content: content}}},
		Raw:     json.RawMessage(`{"choices":[]}`),
	}
}

func TestPlannerBuildPromptWithMenus(t *testing.T) {
	p := NewPlanner(nil, PlannerConfig{})
	menus := entity.NewMenuTable()
	menus.Set("Saravana Bhavan", []string{"Idli", "Dosa"})
	menus.Set("A2B", []string{})

	prompt := p.BuildPrompt(PromptInput{
		Location: "Chennai",
		Budget:   200,
		Diet:     entity.DietVegetarian,
		Menus:    menus,
		Restaurants: []entity.Restaurant{
			entity.NewRestaurant(map[string]any{"title": "Saravana Bhavan"}),
		},
	})

	for _, want := range []string{
		"City/Area: Chennai",
		"Budget per meal: ₹200",
		"Diet: Vegetarian",
		"Saravana Bhavan menu: Idli, Dosa",
		"🍲 Breakfast: <dish 1>, <dish 2> at <restaurant> (~₹price)",
		"🥗 Dinner: <dish 1>, <dish 2> at <restaurant> (~₹price)",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "A2B menu") {
		t.Fatalf("restaurants without items should be skipped:\n%s", prompt)
	}
	if strings.Contains(prompt, "- Saravana Bhavan |") {
		t.Fatalf("restaurant block should not be used when menus exist:\n%s", prompt)
	}
}

func TestPlannerBuildPromptFallsBackToRestaurants(t *testing.T) {
	p := NewPlanner(nil, PlannerConfig{})
	restaurants := []entity.Restaurant{
		entity.NewRestaurant(map[string]any{"title": "A2B", "rating": 4.3, "price": "₹", "address": "Anna Nagar"}),
		entity.NewRestaurant(map[string]any{}),
	}

	prompt := p.BuildPrompt(PromptInput{
		Location:    "Chennai",
		Budget:      150,
		Diet:        entity.DietAny,
		Restaurants: restaurants,
		Menus:       ExtractMenus(restaurants),
	})
	if !strings.Contains(prompt, "- A2B | ⭐ 4.3 | ₹ | Anna Nagar") {
		t.Fatalf("expected restaurant line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Unknown | ⭐ N/A | N/A | ") {
		t.Fatalf("expected defaults for missing fields:\n%s", prompt)
	}

	empty := p.BuildPrompt(PromptInput{Location: "Nowhere", Budget: 100, Diet: entity.DietVegan})
	if !strings.Contains(empty, "No restaurants found.") {
		t.Fatalf("expected empty marker:\n%s", empty)
	}
}

func TestPlannerGenerate(t *testing.T) {
	chat := &fakeChat{resp: chatReply("🍲 Breakfast: Idli, Vada at Saravana Bhavan (~₹120)")}
	p := NewPlanner(chat, PlannerConfig{Model: "test/model"})

	got := p.Generate(context.Background(), PromptInput{Location: "Chennai", Budget: 200, Diet: entity.DietVegetarian})
	if got != "🍲 Breakfast: Idli, Vada at Saravana Bhavan (~₹120)" {
		t.Fatalf("unexpected plan: %q", got)
	}
	if chat.last.Model != "test/model" || len(chat.last.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", chat.last)
	}
	if chat.last.Messages[0].Content != "You format concise, budget-friendly Indian meal suggestions." {
		t.Fatalf("unexpected system prompt: %q", chat.last.Messages[0].Content)
	}
}

func TestPlannerGenerateDiagnostics(t *testing.T) {
	cases := map[string]struct {
		chat *fakeChat
		want string
	}{
		"transport failure": {
			chat: &fakeChat{err: errors.New("timeout")},
			want: "OpenRouter request failed: timeout",
		},
		"error payload": {
			chat: &fakeChat{resp: &client.ChatResponse{Error: json.RawMessage(`{"message":"No endpoints found"}`)}},
			want: "❌ OpenRouter error: No endpoints found",
		},
		"unexpected payload": {
			chat: &fakeChat{resp: &client.ChatResponse{Raw: json.RawMessage(`{"id":"x"}`)}},
			want: `⚠ Unexpected response: {"id":"x"}`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := NewPlanner(tc.chat, PlannerConfig{})
			if got := p.Generate(context.Background(), PromptInput{}); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSplitPlanLines(t *testing.T) {
	got := SplitPlanLines("🍲 Breakfast: Idli\n\n  🍛 Lunch: Meals  \n")
	if !reflect.DeepEqual(got, []string{"🍲 Breakfast: Idli", "🍛 Lunch: Meals"}) {
		t.Fatalf("unexpected lines: %#v", got)
	}
	if SplitPlanLines("") != nil {
		t.Fatalf("expected nil for empty plan")
	}
}
