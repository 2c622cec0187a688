package models

// Job is the normalized posting produced by the site adapters.
// Date keeps whatever the site published (formats vary per site);
// ScrapedAt is stamped by the adapter at capture time.
type Job struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Source          string   `json:"source"`
	URL             string   `json:"url"`
	Date            string   `json:"date,omitempty"`
	Description     string   `json:"description,omitempty"`
	FullDescription string   `json:"full_description,omitempty"`
	Criteria        []string `json:"criteria,omitempty"`
	ScrapedAt       string   `json:"scraped_at,omitempty"`
}

// Text concatenates the free-text fields used for skill matching.
func (j Job) Text() string {
	text := j.Title + " " + j.Description + " " + j.FullDescription
	for _, criterion := range j.Criteria {
		text += " " + criterion
	}
	return text
}
