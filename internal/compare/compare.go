package compare

import (
	"github.com/Yann31150/Rechercheannonces/internal/models"
)

// Signature derives the stable identity of a posting. The URL wins when
// present; otherwise title, company and source are joined. Postings that
// share an empty URL and identical composite fields collide on purpose:
// robust entity resolution is out of scope, the approximation is accepted.
func Signature(job models.Job) string {
	if job.URL != "" {
		return job.URL
	}
	return job.Title + "_" + job.Company + "_" + job.Source
}

// Stats captures counts from one snapshot comparison.
type Stats struct {
	TotalPrevious int
	TotalCurrent  int
	New           int
	Removed       int
}

// Diff compares two snapshots by signature. New postings appear in current
// but not previous; removed postings appear in previous but not current.
// Postings present on both sides are neither, even when non-identity fields
// such as the description drifted. Pure function, no side effects; output
// keeps the input slice order. Each signature is emitted at most once per
// result slice, so duplicates within a snapshot collapse to one entry.
func Diff(previous, current []models.Job) (newJobs, removedJobs []models.Job, stats Stats) {
	stats = Stats{
		TotalPrevious: len(previous),
		TotalCurrent:  len(current),
	}

	previousSigs := make(map[string]struct{}, len(previous))
	for _, job := range previous {
		previousSigs[Signature(job)] = struct{}{}
	}

	currentSigs := make(map[string]struct{}, len(current))
	emitted := make(map[string]struct{}, len(current))
	for _, job := range current {
		sig := Signature(job)
		currentSigs[sig] = struct{}{}

		if _, exists := previousSigs[sig]; exists {
			continue
		}
		if _, dup := emitted[sig]; dup {
			continue
		}
		emitted[sig] = struct{}{}
		newJobs = append(newJobs, job)
	}

	removed := make(map[string]struct{}, len(previous))
	for _, job := range previous {
		sig := Signature(job)
		if _, exists := currentSigs[sig]; exists {
			continue
		}
		if _, dup := removed[sig]; dup {
			continue
		}
		removed[sig] = struct{}{}
		removedJobs = append(removedJobs, job)
	}

	stats.New = len(newJobs)
	stats.Removed = len(removedJobs)
	return newJobs, removedJobs, stats
}
