package letter

import (
	"os"
	"strings"
	"testing"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

func TestDetectRole(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Data Scientist H/F", roleDataScientist},
		{"Senior Data Analyst", roleDataAnalyst},
		{"Data Engineer", roleDataEngineer},
		{"Ingénieur Data", roleDataEngineer},
		{"Alternance Data Science", roleAlternance},
		{"Stage data", roleAlternance},
		{"Machine Learning Lead", roleDataScientist},
	}

	for _, tc := range cases {
		if got := detectRole(tc.title); got != tc.want {
			t.Errorf("detectRole(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestTemplateGenerate(t *testing.T) {
	job := models.Job{
		Title:       "Data Analyst",
		Company:     "Acme",
		Description: "Nous cherchons un profil Python et SQL avec Tableau.",
	}
	info := PersonalInfo{
		Name:  "Jean Dupont",
		Email: "jean@example.com",
		Phone: "0601020304",
	}

	text, err := NewTemplateGenerator().Generate(job, info)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, want := range []string{"Data Analyst", "Jean Dupont", "jean@example.com", "Tél: 0601020304", "Python"} {
		if !strings.Contains(text, want) {
			t.Errorf("letter missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "{") {
		t.Fatalf("unfilled placeholder in letter:\n%s", text)
	}
}

func TestTemplateGenerateFallbackSkills(t *testing.T) {
	generator := NewTemplateGenerator()
	generator.SetFallbackSkills([]string{"Go", "Kafka"})

	text, err := generator.Generate(models.Job{Title: "Poste data", Company: "Beta"}, PersonalInfo{Name: "A", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(text, "Go, Kafka") {
		t.Fatalf("expected fallback skills in letter:\n%s", text)
	}
}

func TestWhyCompanyDeterministic(t *testing.T) {
	job := models.Job{Company: "Acme"}
	if whyCompany(job) != whyCompany(job) {
		t.Fatalf("whyCompany must be deterministic per company")
	}
	if !strings.Contains(whyCompany(job), "Acme") {
		t.Fatalf("whyCompany should mention the company: %q", whyCompany(job))
	}
}

func TestEnsureContactBlock(t *testing.T) {
	info := PersonalInfo{Name: "Jean", Email: "jean@example.com"}

	withContact := "Lettre...\njean@example.com"
	if got := ensureContactBlock(withContact, info); got != withContact {
		t.Fatalf("contact already present, letter must be unchanged")
	}

	got := ensureContactBlock("Lettre sans contact", info)
	if !strings.Contains(got, "jean@example.com") {
		t.Fatalf("contact block not appended: %q", got)
	}
}

func TestContactInfoSkipsEmptyFields(t *testing.T) {
	got := contactInfo(PersonalInfo{Phone: "06 12 34 56 78"})
	if got != "Tél: 06 12 34 56 78" {
		t.Fatalf("contact block = %q, want phone line only", got)
	}
	if strings.HasPrefix(got, "\n") {
		t.Fatal("contact block starts with a blank line")
	}

	full := contactInfo(PersonalInfo{
		Email:   "jean@example.com",
		Phone:   "06 12 34 56 78",
		Address: "Toulouse",
	})
	want := "jean@example.com\nTél: 06 12 34 56 78\nToulouse"
	if full != want {
		t.Fatalf("contact block = %q, want %q", full, want)
	}

	if empty := contactInfo(PersonalInfo{}); empty != "" {
		t.Fatalf("contact block for empty info = %q, want empty", empty)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	job := models.Job{Title: "Data Scientist (H/F) — Équipe IA !"}

	path, err := Save(dir, "contenu", job)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read letter: %v", err)
	}
	if string(data) != "contenu" {
		t.Fatalf("letter content = %q", string(data))
	}
	if strings.ContainsAny(path[len(dir):], "()!") {
		t.Fatalf("unsafe characters in filename: %q", path)
	}
}
