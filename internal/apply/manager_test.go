package apply

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Yann31150/Rechercheannonces/internal/letter"
	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/rs/zerolog"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(models.Job, letter.PersonalInfo) (string, error) {
	return s.text, s.err
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	manager, err := NewManager(
		filepath.Join(dir, "applications.json"),
		filepath.Join(dir, "cover_letters"),
		stubGenerator{text: "Bonjour, ..."},
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return manager
}

func testJob(url string) models.Job {
	return models.Job{
		Title:    "Data Scientist",
		Company:  "Acme",
		Location: "Toulouse",
		Source:   "wttj",
		URL:      url,
	}
}

func TestPrepare(t *testing.T) {
	manager := newTestManager(t)

	app, err := manager.Prepare(testJob("https://example.com/1"), letter.PersonalInfo{Name: "Jean", Email: "j@e.fr"})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if app == nil {
		t.Fatalf("expected an application")
	}
	if app.Status != models.StatusPrepared {
		t.Fatalf("Status = %q, want prepared", app.Status)
	}
	if app.SentAt != nil {
		t.Fatalf("SentAt should be nil on preparation")
	}
	if app.CoverLetterPath == "" {
		t.Fatalf("expected a cover letter path")
	}
	if !manager.HasApplied("https://example.com/1") {
		t.Fatalf("HasApplied should be true after Prepare")
	}
}

func TestPrepareDuplicateIsNoop(t *testing.T) {
	manager := newTestManager(t)
	job := testJob("https://example.com/1")

	first, err := manager.Prepare(job, letter.PersonalInfo{Name: "Jean"})
	if err != nil || first == nil {
		t.Fatalf("first Prepare failed: app=%v err=%v", first, err)
	}

	second, err := manager.Prepare(job, letter.PersonalInfo{Name: "Jean"})
	if err != nil {
		t.Fatalf("duplicate Prepare must not error: %v", err)
	}
	if second != nil {
		t.Fatalf("duplicate Prepare must return nil, got %+v", second)
	}
	if got := len(manager.ByStatus("")); got != 1 {
		t.Fatalf("expected exactly 1 stored application, got %d", got)
	}
}

func TestHasAppliedEmptyURL(t *testing.T) {
	manager := newTestManager(t)
	if manager.HasApplied("") {
		t.Fatalf("empty url can never have been applied to")
	}
}

func TestMarkSent(t *testing.T) {
	manager := newTestManager(t)
	manager.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

	if _, err := manager.Prepare(testJob("u1"), letter.PersonalInfo{}); err != nil {
		t.Fatal(err)
	}

	found, err := manager.MarkSent("u1", "")
	if err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}
	if !found {
		t.Fatalf("expected application to be found")
	}

	app := manager.ByStatus(models.StatusSent)
	if len(app) != 1 {
		t.Fatalf("expected 1 sent application, got %d", len(app))
	}
	if app[0].SentAt == nil || *app[0].SentAt != "2025-03-01 09:30:00" {
		t.Fatalf("SentAt = %v", app[0].SentAt)
	}

	found, err = manager.MarkSent("unknown", "")
	if err != nil {
		t.Fatalf("MarkSent(unknown) error = %v", err)
	}
	if found {
		t.Fatalf("unknown url must report not found")
	}
}

func TestUpdateStatusUnchecked(t *testing.T) {
	manager := newTestManager(t)
	if _, err := manager.Prepare(testJob("u1"), letter.PersonalInfo{}); err != nil {
		t.Fatal(err)
	}

	// Any transition is allowed, including backwards.
	for _, status := range []string{models.StatusAccepted, models.StatusPrepared, models.StatusRejected} {
		found, err := manager.UpdateStatus("u1", status, nil)
		if err != nil || !found {
			t.Fatalf("UpdateStatus(%s): found=%v err=%v", status, found, err)
		}
	}

	apps := manager.ByStatus("")
	if apps[0].Status != models.StatusRejected {
		t.Fatalf("Status = %q, want rejected", apps[0].Status)
	}
	if apps[0].SentAt != nil {
		t.Fatalf("SentAt must stay nil, application never went through sent")
	}
}

func TestUpdateStatusSentStampsOnce(t *testing.T) {
	manager := newTestManager(t)
	manager.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }
	if _, err := manager.Prepare(testJob("u1"), letter.PersonalInfo{}); err != nil {
		t.Fatal(err)
	}

	if _, err := manager.UpdateStatus("u1", models.StatusSent, nil); err != nil {
		t.Fatal(err)
	}
	first := *manager.ByStatus("")[0].SentAt

	manager.now = func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }
	if _, err := manager.UpdateStatus("u1", models.StatusSent, nil); err != nil {
		t.Fatal(err)
	}
	if got := *manager.ByStatus("")[0].SentAt; got != first {
		t.Fatalf("sent_at restamped: %q -> %q", first, got)
	}
}

func TestUpdateStatusNotesReplace(t *testing.T) {
	manager := newTestManager(t)
	if _, err := manager.Prepare(testJob("u1"), letter.PersonalInfo{}); err != nil {
		t.Fatal(err)
	}

	notes := "premier entretien le 12/03"
	if _, err := manager.UpdateStatus("u1", models.StatusSent, &notes); err != nil {
		t.Fatal(err)
	}
	replacement := "offre reçue"
	if _, err := manager.UpdateNotes("u1", replacement); err != nil {
		t.Fatal(err)
	}

	if got := manager.ByStatus("")[0].Notes; got != replacement {
		t.Fatalf("Notes = %q, want full replace %q", got, replacement)
	}
}

func TestDelete(t *testing.T) {
	manager := newTestManager(t)
	if _, err := manager.Prepare(testJob("u1"), letter.PersonalInfo{}); err != nil {
		t.Fatal(err)
	}

	removed, err := manager.Delete("u1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !removed {
		t.Fatalf("expected removal")
	}

	removed, err = manager.Delete("u1")
	if err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}
	if removed {
		t.Fatalf("second delete must be a no-op")
	}
}

func TestStatisticsConsistency(t *testing.T) {
	manager := newTestManager(t)
	for _, url := range []string{"u1", "u2", "u3"} {
		if _, err := manager.Prepare(testJob(url), letter.PersonalInfo{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := manager.MarkSent("u2", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := manager.UpdateStatus("u3", models.StatusRejected, nil); err != nil {
		t.Fatal(err)
	}

	stats := manager.Statistics()
	if stats.Total != len(manager.ByStatus("")) {
		t.Fatalf("Total = %d, want %d", stats.Total, len(manager.ByStatus("")))
	}

	sum := 0
	for _, count := range stats.ByStatus {
		sum += count
	}
	if sum != stats.Total {
		t.Fatalf("by_status sum = %d, total = %d", sum, stats.Total)
	}
	if stats.Prepared != 1 || stats.Sent != 1 || stats.Rejected != 1 || stats.Accepted != 0 {
		t.Fatalf("unexpected convenience counters: %+v", stats)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "applications.json")

	manager, err := NewManager(path, filepath.Join(dir, "letters"), stubGenerator{text: "x"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Prepare(testJob("u1"), letter.PersonalInfo{}); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewManager(path, filepath.Join(dir, "letters"), stubGenerator{text: "x"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if !reloaded.HasApplied("u1") {
		t.Fatalf("application lost across reload")
	}
}
