package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"clemfr/grantwatch/config"
	"clemfr/grantwatch/internal/digest"
	"clemfr/grantwatch/internal/extractor"
	"clemfr/grantwatch/internal/fetcher"
	"clemfr/grantwatch/services/notifier"
	"clemfr/grantwatch/services/worker"

	"github.com/stretchr/testify/assert"
)

// A listing page that mimics a grant registry
const registryHTML = `
<!DOCTYPE html>
<html>
<head><title>Appels à projets</title></head>
<body>
	<nav>Accueil | Programmes</nav>
	<div class="calls">
		<h1>Appels à projets en cours</h1>
		<p>AAP Santé Numérique 2024 - financement jusqu'à 2M€, clôture le 30 juin 2024.</p>
		<p>Concours d'innovation IA - publié le 1er mars 2024.</p>
	</div>
</body>
</html>
`

// newFakeLLMServer returns a chat-completions server whose model output is
// the given JSON array of grants.
func newFakeLLMServer(t *testing.T, grantsJSON string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		response := map[string]interface{}{
			"id":    "cmpl-test",
			"model": "grok-2",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": grantsJSON},
					"finish_reason": "stop",
				},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
}

func integrationConfig(llmURL, webhookURL string, sources []config.SourceConfig) *config.Config {
	return &config.Config{
		LLMAPIKey:         "test-key",
		LLMBaseURL:        llmURL,
		LLMModel:          "grok-2",
		LLMTimeout:        5 * time.Second,
		WebhookURL:        webhookURL,
		FetchTimeout:      5 * time.Second,
		FetchConcurrency:  1,
		MaxPagesPerSource: 3,
		ChunkSize:         4000,
		ChunkOverlap:      200,
		MaxChunksPerPage:  5,
		MaxDigestEntries:  10,
		MaxMessageLength:  4000,
		Sources:           sources,
		Keywords:          []string{"santé", "AI", "healthtech"},
		Environment:       "test",
	}
}

func buildPipeline(cfg *config.Config, not notifier.Notifier) *worker.Worker {
	strategies := fetcher.CreateStrategies(cfg)
	ext := extractor.New(cfg)
	formatter := digest.NewFormatter(cfg.MaxDigestEntries, cfg.MaxMessageLength)
	return worker.NewWorker(strategies, ext, not, formatter, cfg)
}

func TestPipelineEndToEnd(t *testing.T) {
	// Fake grant registry
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, registryHTML)
	}))
	defer registry.Close()

	// Fake LLM that extracts one grant
	llm := newFakeLLMServer(t, `[
		{
			"title": "AAP Santé Numérique 2024",
			"organization": "Bpifrance",
			"amount": "€2M",
			"deadline": "2024-06-30",
			"published_date": "2024-03-01",
			"description": "Funding for digital health projects.",
			"url": "https://grants.test/aap-sante-2024",
			"tags": ["healthtech"],
			"relevance_score": 9
		}
	]`)
	defer llm.Close()

	// Fake webhook capturing delivered messages
	var mu sync.Mutex
	var delivered []string
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		delivered = append(delivered, payload["text"])
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	cfg := integrationConfig(llm.URL, webhook.URL, []config.SourceConfig{
		{Name: "Test Registry", URL: registry.URL, Enabled: true},
	})

	not := notifier.NewWebhookNotifier(cfg.WebhookURL, cfg.FetchTimeout)
	defer not.Close()

	report, err := buildPipeline(cfg, not).Run(context.Background())
	assert.NoError(t, err)
	assert.True(t, report.Notified)
	assert.Equal(t, 1, report.GrantsFound)
	assert.Equal(t, 1, report.SourcesProcessed)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, delivered, 1)
	assert.Contains(t, delivered[0], "AAP Santé Numérique 2024")
	assert.Contains(t, delivered[0], "Deadline: 2024-06-30")
	assert.Contains(t, delivered[0], "<https://grants.test/aap-sante-2024|")
}

func TestPipelineFetchFailureStillNotifies(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, registryHTML)
	}))
	defer registry.Close()

	downRegistry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer downRegistry.Close()

	llm := newFakeLLMServer(t, `[{"title": "Santé Grant", "url": "https://grants.test/g", "relevance_score": 8}]`)
	defer llm.Close()

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	cfg := integrationConfig(llm.URL, webhook.URL, []config.SourceConfig{
		{Name: "Healthy Registry", URL: registry.URL, Enabled: true},
		{Name: "Down Registry", URL: downRegistry.URL, Enabled: true},
	})

	not := notifier.NewWebhookNotifier(cfg.WebhookURL, cfg.FetchTimeout)
	defer not.Close()

	report, err := buildPipeline(cfg, not).Run(context.Background())

	// The failing source is isolated; the run still succeeds
	assert.NoError(t, err)
	assert.True(t, report.Notified)
	assert.Equal(t, 1, report.SourcesProcessed)
	assert.Equal(t, 1, report.SourcesFailed)
	assert.NotZero(t, report.GrantsFound)
}

func TestPipelineWebhookFailureFailsRun(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, registryHTML)
	}))
	defer registry.Close()

	llm := newFakeLLMServer(t, `[{"title": "Santé Grant", "url": "https://grants.test/g", "relevance_score": 8}]`)
	defer llm.Close()

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer webhook.Close()

	cfg := integrationConfig(llm.URL, webhook.URL, []config.SourceConfig{
		{Name: "Test Registry", URL: registry.URL, Enabled: true},
	})

	not := notifier.NewWebhookNotifier(cfg.WebhookURL, cfg.FetchTimeout)
	defer not.Close()

	report, err := buildPipeline(cfg, not).Run(context.Background())
	assert.Error(t, err)
	assert.False(t, report.Notified)
	assert.Contains(t, err.Error(), "notification")
}

func TestPipelineUnparsableLLMOutput(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, registryHTML)
	}))
	defer registry.Close()

	llm := newFakeLLMServer(t, "Sorry, I cannot extract any grants from this page.")
	defer llm.Close()

	notifyCalls := 0
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notifyCalls++
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	cfg := integrationConfig(llm.URL, webhook.URL, []config.SourceConfig{
		{Name: "Test Registry", URL: registry.URL, Enabled: true},
	})

	not := notifier.NewWebhookNotifier(cfg.WebhookURL, cfg.FetchTimeout)
	defer not.Close()

	// Unparsable chunks contribute zero records without failing the run
	report, err := buildPipeline(cfg, not).Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, report.GrantsFound)
	assert.False(t, report.Notified)
	assert.Zero(t, notifyCalls)
}
