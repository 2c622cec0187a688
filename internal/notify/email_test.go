package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yann31150/Rechercheannonces/internal/config"
	"github.com/Yann31150/Rechercheannonces/internal/models"
)

var digestTime = time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

func digestJobs() []models.Job {
	return []models.Job{
		{
			Title:    "Data Scientist H/F",
			Company:  "ACME <Labs>",
			Location: "Toulouse",
			Source:   "wttj",
			URL:      "https://jobs.example.com/offre/123",
			Date:     "2026-08-27",
		},
		{Title: "Data Engineer"},
	}
}

func TestSendRejectsIncompleteConfig(t *testing.T) {
	n := NewNotifier(config.SMTPConfig{Server: "smtp.example.com"}, zerolog.Nop())
	err := n.Send(context.Background(), digestJobs(), 10)
	if !errors.Is(err, ErrIncompleteConfig) {
		t.Fatalf("err = %v, want ErrIncompleteConfig", err)
	}
}

func TestTextBody(t *testing.T) {
	body := textBody(digestJobs(), 42, digestTime)

	if !strings.Contains(body, "2 nouvelle(s) offre(s) détectée(s)") {
		t.Errorf("new count missing:\n%s", body)
	}
	if !strings.Contains(body, "42 offre(s) au total") {
		t.Errorf("total missing:\n%s", body)
	}
	if !strings.Contains(body, "1. Data Scientist H/F") {
		t.Errorf("first posting missing:\n%s", body)
	}
	if !strings.Contains(body, "Entreprise: Entreprise non spécifiée") {
		t.Errorf("missing company placeholder:\n%s", body)
	}
	if !strings.Contains(body, "Rapport du 28/08/2026 à 09:30") {
		t.Errorf("timestamp missing:\n%s", body)
	}
}

func TestTextBodyEmpty(t *testing.T) {
	body := textBody(nil, 42, digestTime)
	if !strings.Contains(body, "Aucune nouvelle offre détectée aujourd'hui.") {
		t.Errorf("empty marker missing:\n%s", body)
	}
}

func TestHTMLBodyEscapes(t *testing.T) {
	body := htmlBody(digestJobs(), 42, digestTime)

	if strings.Contains(body, "ACME <Labs>") {
		t.Error("company name not escaped")
	}
	if !strings.Contains(body, "ACME &lt;Labs&gt;") {
		t.Errorf("escaped company missing:\n%s", body)
	}
	if !strings.Contains(body, `<a href="https://jobs.example.com/offre/123">Voir l'offre</a>`) {
		t.Errorf("link missing:\n%s", body)
	}
}

func TestHTMLBodySkipsMissingFields(t *testing.T) {
	body := htmlBody([]models.Job{{Title: "Dev"}}, 1, digestTime)
	if strings.Contains(body, "<strong>Date:</strong>") {
		t.Error("empty date rendered")
	}
	if strings.Contains(body, "Voir l'offre") {
		t.Error("empty url rendered as link")
	}
}
