package letter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/rs/zerolog"
)

// PersonalInfo carries the applicant details substituted into letters.
type PersonalInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	Intro      string `json:"intro,omitempty"`
	Experience string `json:"experience,omitempty"`
	CVPath     string `json:"cv_path,omitempty"`
}

// Generator produces a cover letter for one posting.
type Generator interface {
	Generate(job models.Job, info PersonalInfo) (string, error)
}

// Producer tries the configured LLM backend first and falls back to the
// built-in templates when the backend is absent or fails.
type Producer struct {
	llm      Generator
	template *TemplateGenerator
	logger   zerolog.Logger
}

// NewProducer builds a producer; llm may be nil (templates only).
func NewProducer(llm Generator, logger zerolog.Logger) *Producer {
	return &Producer{
		llm:      llm,
		template: NewTemplateGenerator(),
		logger:   logger,
	}
}

func (p *Producer) Generate(job models.Job, info PersonalInfo) (string, error) {
	if p.llm != nil {
		text, err := p.llm.Generate(job, info)
		if err == nil {
			return ensureContactBlock(text, info), nil
		}
		p.logger.Warn().Err(err).Str("job", job.Title).Msg("llm generation failed, falling back to templates")
	}
	return p.template.Generate(job, info)
}

// ensureContactBlock appends the applicant's contact details when the LLM
// output left them out.
func ensureContactBlock(text string, info PersonalInfo) string {
	if info.Email == "" || strings.Contains(text, info.Email) {
		return text
	}
	return text + "\n\n" + info.Name + "\n" + contactInfo(info)
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// Save writes the letter under dir with a filename derived from the posting
// title and the current date, and returns the path.
func Save(dir string, text string, job models.Job) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	title := job.Title
	if title == "" {
		title = "offre"
	}
	safeTitle := unsafeFilename.ReplaceAllString(title, "")
	if runes := []rune(safeTitle); len(runes) > 50 {
		safeTitle = string(runes[:50])
	}
	safeTitle = strings.ReplaceAll(strings.TrimSpace(safeTitle), " ", "_")

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", safeTitle, time.Now().Format("20060102")))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
