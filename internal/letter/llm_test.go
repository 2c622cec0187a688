package letter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/rs/zerolog"
)

func newChatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			return
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: content}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestLLMGenerate(t *testing.T) {
	server := newChatServer(t, http.StatusOK, "Madame, Monsieur, ...")
	defer server.Close()

	generator := NewLLMGenerator(LLMConfig{Provider: "ollama", Model: "llama3.2", BaseURL: server.URL})
	text, err := generator.Generate(models.Job{Title: "Data Engineer", Company: "Acme"}, PersonalInfo{Name: "Jean", Email: "jean@example.com"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.HasPrefix(text, "Madame, Monsieur") {
		t.Fatalf("unexpected letter: %q", text)
	}
}

func TestLLMGenerateHTTPError(t *testing.T) {
	server := newChatServer(t, http.StatusInternalServerError, "")
	defer server.Close()

	generator := NewLLMGenerator(LLMConfig{Provider: "openai", BaseURL: server.URL, APIKey: "sk-test"})
	if _, err := generator.Generate(models.Job{}, PersonalInfo{}); err == nil {
		t.Fatalf("expected error on http 500")
	}
}

func TestProducerFallsBackToTemplates(t *testing.T) {
	server := newChatServer(t, http.StatusBadGateway, "")
	defer server.Close()

	llm := NewLLMGenerator(LLMConfig{Provider: "ollama", BaseURL: server.URL})
	producer := NewProducer(llm, zerolog.Nop())

	text, err := producer.Generate(
		models.Job{Title: "Data Analyst", Company: "Acme"},
		PersonalInfo{Name: "Jean", Email: "jean@example.com"},
	)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(text, "Data Analyst") {
		t.Fatalf("fallback letter missing job title:\n%s", text)
	}
}

func TestDefaultsPerProvider(t *testing.T) {
	if DefaultModel("openai") != "gpt-4o-mini" {
		t.Fatalf("unexpected openai default model")
	}
	if DefaultBaseURL("mistral") != "https://api.mistral.ai" {
		t.Fatalf("unexpected mistral base url")
	}
	if !strings.Contains(DefaultBaseURL("ollama"), "11434") {
		t.Fatalf("unexpected ollama base url")
	}
}
