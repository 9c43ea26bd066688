package grant

import (
	"strings"
	"time"
)

// Record represents one grant opportunity extracted from a source page
type Record struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Link         string     `json:"link,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	SourceName   string     `json:"source_name"`
	SourceURL    string     `json:"source_url,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Organization string     `json:"organization,omitempty"`
	Amount       string     `json:"amount,omitempty"`
	Eligibility  string     `json:"eligibility,omitempty"`
	Relevance    int        `json:"relevance,omitempty"`
}

// Key returns the dedupe key for the record: the normalized link when one is
// present, otherwise the normalized title plus source name.
func (r Record) Key() string {
	if link := NormalizeLink(r.Link); link != "" {
		return link
	}
	return strings.ToLower(strings.TrimSpace(r.Title)) + "\x00" + strings.ToLower(r.SourceName)
}

// SearchText returns the combined text the keyword filter matches against.
func (r Record) SearchText() string {
	parts := []string{r.Title, r.Description}
	parts = append(parts, r.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// NormalizeLink lower-cases a link and strips any trailing slash so that
// otherwise identical listings dedupe to one key.
func NormalizeLink(link string) string {
	link = strings.ToLower(strings.TrimSpace(link))
	link = strings.TrimRight(link, "/")
	return link
}

// ParseDate parses a date field coming back from extraction. Values the model
// could not determine ("", "Not specified", "null") yield nil.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "not specified") || strings.EqualFold(value, "null") {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "02/01/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
