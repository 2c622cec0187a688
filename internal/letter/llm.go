package letter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

// LLMConfig selects the chat-completions backend. Provider is informational;
// OpenAI, Mistral and Ollama all expose the same /v1/chat/completions shape,
// so only the base URL, model and key differ.
type LLMConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"-"`
}

// DefaultModel returns the default model for a provider.
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "gpt-4o-mini"
	case "mistral":
		return "mistral-medium"
	default:
		return "llama3.2"
	}
}

// DefaultBaseURL returns the default endpoint root for a provider.
func DefaultBaseURL(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "https://api.openai.com"
	case "mistral":
		return "https://api.mistral.ai"
	default:
		return "http://localhost:11434"
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
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

// LLMGenerator writes letters through an OpenAI-compatible chat endpoint.
type LLMGenerator struct {
	cfg    LLMConfig
	client *http.Client
}

func NewLLMGenerator(cfg LLMConfig) *LLMGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL(cfg.Provider)
	}
	return &LLMGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

const systemPrompt = `Tu es un assistant de candidature. Rédige une lettre de motivation en français, ` +
	`professionnelle et concise (250 à 350 mots), adaptée à l'offre fournie. ` +
	`Pas de markdown, pas d'objet, uniquement le corps de la lettre.`

func (g *LLMGenerator) Generate(job models.Job, info PersonalInfo) (string, error) {
	prompt := buildPrompt(job, info)

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint := strings.TrimRight(g.cfg.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", g.cfg.Provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s http %d: %s", g.cfg.Provider, resp.StatusCode, truncateBody(raw))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", g.cfg.Provider)
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s returned an empty letter", g.cfg.Provider)
	}
	return text, nil
}

func buildPrompt(job models.Job, info PersonalInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Poste: %s\nEntreprise: %s\nLieu: %s\n", job.Title, job.Company, job.Location)
	if job.Description != "" {
		fmt.Fprintf(&b, "\nDescription de l'offre:\n%s\n", truncateRunes(job.Description, 2500))
	}
	fmt.Fprintf(&b, "\nCandidat: %s (%s)\n", info.Name, info.Email)
	if info.Intro != "" {
		fmt.Fprintf(&b, "Présentation: %s\n", info.Intro)
	}
	if info.Experience != "" {
		fmt.Fprintf(&b, "Expérience: %s\n", info.Experience)
	}
	return b.String()
}

func truncateBody(raw []byte) string {
	return truncateRunes(strings.TrimSpace(string(raw)), 200)
}

func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max]) + "..."
}
