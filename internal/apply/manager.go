package apply

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yann31150/Rechercheannonces/internal/letter"
	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/rs/zerolog"
)

const timestampLayout = "2006-01-02 15:04:05"

// Manager tracks applications in a flat JSON file keyed by job URL.
// Single-process use only: every mutation rewrites the whole file, so
// concurrent writers would lose updates.
type Manager struct {
	path       string
	lettersDir string
	generator  letter.Generator
	logger     zerolog.Logger
	now        func() time.Time

	applications []models.Application
}

// NewManager loads the application file; a missing file is an empty tracker.
func NewManager(path, lettersDir string, generator letter.Generator, logger zerolog.Logger) (*Manager, error) {
	manager := &Manager{
		path:       path,
		lettersDir: lettersDir,
		generator:  generator,
		logger:     logger,
		now:        time.Now,
	}
	if err := manager.load(); err != nil {
		return nil, err
	}
	return manager, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.applications = []models.Application{}
			return nil
		}
		return err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		m.applications = []models.Application{}
		return nil
	}
	if err := json.Unmarshal(data, &m.applications); err != nil {
		return fmt.Errorf("parse %s: %w", m.path, err)
	}
	if m.applications == nil {
		m.applications = []models.Application{}
	}
	return nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.applications, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(m.path, append(data, '\n'), 0o644)
}

// HasApplied reports whether an application exists for url, regardless of
// status. An empty url always returns false.
func (m *Manager) HasApplied(url string) bool {
	if url == "" {
		return false
	}
	for _, app := range m.applications {
		if app.JobURL == url {
			return true
		}
	}
	return false
}

// Prepare generates the cover letter, persists it and records a new
// application in status prepared. A duplicate URL is a no-op: the existing
// application wins and (nil, nil) is returned with a warning logged.
func (m *Manager) Prepare(job models.Job, info letter.PersonalInfo) (*models.Application, error) {
	if m.HasApplied(job.URL) {
		m.logger.Warn().Str("title", job.Title).Str("url", job.URL).Msg("already applied, skipping")
		return nil, nil
	}

	text, err := m.generator.Generate(job, info)
	if err != nil {
		return nil, fmt.Errorf("generate letter: %w", err)
	}
	letterPath, err := letter.Save(m.lettersDir, text, job)
	if err != nil {
		return nil, fmt.Errorf("save letter: %w", err)
	}

	application := models.Application{
		JobTitle:        job.Title,
		Company:         job.Company,
		Location:        job.Location,
		JobURL:          job.URL,
		Source:          job.Source,
		CoverLetterPath: letterPath,
		CVPath:          info.CVPath,
		Status:          models.StatusPrepared,
		PreparedAt:      m.now().Format(timestampLayout),
		SentAt:          nil,
		Notes:           "",
	}

	m.applications = append(m.applications, application)
	if err := m.save(); err != nil {
		return nil, err
	}
	return &application, nil
}

// MarkSent sets status sent and stamps sent_at (given value or now).
// Returns whether an application was found; not-found is a no-op.
func (m *Manager) MarkSent(url string, sentAt string) (bool, error) {
	for i := range m.applications {
		if m.applications[i].JobURL != url {
			continue
		}
		if sentAt == "" {
			sentAt = m.now().Format(timestampLayout)
		}
		m.applications[i].Status = models.StatusSent
		m.applications[i].SentAt = &sentAt
		return true, m.save()
	}
	return false, nil
}

// UpdateStatus overwrites the status unconditionally; any transition is
// allowed, including backwards ones, for manual correction. Moving to sent
// stamps sent_at when not already set. A non-nil notes replaces the notes
// wholesale.
func (m *Manager) UpdateStatus(url, newStatus string, notes *string) (bool, error) {
	for i := range m.applications {
		if m.applications[i].JobURL != url {
			continue
		}
		m.applications[i].Status = newStatus
		if newStatus == models.StatusSent && m.applications[i].SentAt == nil {
			stamp := m.now().Format(timestampLayout)
			m.applications[i].SentAt = &stamp
		}
		if notes != nil {
			m.applications[i].Notes = *notes
		}
		return true, m.save()
	}
	return false, nil
}

// UpdateNotes replaces the notes of the application for url.
func (m *Manager) UpdateNotes(url, notes string) (bool, error) {
	for i := range m.applications {
		if m.applications[i].JobURL != url {
			continue
		}
		m.applications[i].Notes = notes
		return true, m.save()
	}
	return false, nil
}

// Delete removes the application for url; the file is rewritten only when
// something was actually removed.
func (m *Manager) Delete(url string) (bool, error) {
	kept := m.applications[:0]
	for _, app := range m.applications {
		if app.JobURL == url {
			continue
		}
		kept = append(kept, app)
	}

	removed := len(kept) < len(m.applications)
	m.applications = kept
	if !removed {
		return false, nil
	}
	return true, m.save()
}

// ByStatus returns the applications with the given status, or all of them
// when status is empty, in stored order.
func (m *Manager) ByStatus(status string) []models.Application {
	if status == "" {
		out := make([]models.Application, len(m.applications))
		copy(out, m.applications)
		return out
	}

	var out []models.Application
	for _, app := range m.applications {
		if app.Status == status {
			out = append(out, app)
		}
	}
	return out
}

// Statistics summarizes the tracker grouped by current status.
type Statistics struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	Prepared int            `json:"prepared"`
	Sent     int            `json:"sent"`
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
}

func (m *Manager) Statistics() Statistics {
	stats := Statistics{
		Total:    len(m.applications),
		ByStatus: map[string]int{},
	}
	for _, app := range m.applications {
		status := app.Status
		if status == "" {
			status = models.StatusPrepared
		}
		stats.ByStatus[status]++
	}
	stats.Prepared = stats.ByStatus[models.StatusPrepared]
	stats.Sent = stats.ByStatus[models.StatusSent]
	stats.Accepted = stats.ByStatus[models.StatusAccepted]
	stats.Rejected = stats.ByStatus[models.StatusRejected]
	return stats
}
