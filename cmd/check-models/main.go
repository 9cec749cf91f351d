// Command check-models lists the models the configured OpenRouter key can use.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mapmymeal/api/internal/config"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := config.LoadChat()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	clientCfg := openai.DefaultConfig(cfg.OpenRouterAPIKey)
	clientCfg.BaseURL = cfg.Chat.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Chat.Timeout}
	c := openai.NewClientWithConfig(clientCfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Chat.Timeout)
	defer cancel()

	models, err := c.ListModels(ctx)
	if err != nil {
		fmt.Println("Status:", statusOf(err))
		log.Fatal().Err(err).Str("base_url", cfg.Chat.BaseURL).Msg("list models failed")
	}

	fmt.Println("Status:", http.StatusOK)
	fmt.Println("Content-Type:", models.Header().Get("Content-Type"))

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Printf("%d models\n", len(ids))
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
