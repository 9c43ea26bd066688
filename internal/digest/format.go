package digest

import (
	"fmt"
	"strings"
	"time"

	"clemfr/grantwatch/helpers"
	"clemfr/grantwatch/internal/grant"
)

const (
	descriptionLimit = 150
	recentWindow     = 7 * 24 * time.Hour
)

// Formatter renders a digest into webhook messages
type Formatter struct {
	MaxEntries       int
	MaxMessageLength int
	Now              func() time.Time
}

// NewFormatter creates a formatter with the configured limits
func NewFormatter(maxEntries, maxMessageLength int) *Formatter {
	return &Formatter{
		MaxEntries:       maxEntries,
		MaxMessageLength: maxMessageLength,
		Now:              time.Now,
	}
}

// Format renders the digest as one or more messages, splitting at record
// boundaries when a message would exceed the channel limit.
func (f *Formatter) Format(records []grant.Record) []string {
	if len(records) == 0 {
		return nil
	}

	total := len(records)
	if f.MaxEntries > 0 && len(records) > f.MaxEntries {
		records = records[:f.MaxEntries]
	}

	var messages []string
	current := f.header(records, total)

	for i, r := range records {
		entry := f.formatRecord(i+1, r)
		if len(current)+len(entry) > f.MaxMessageLength && current != "" {
			messages = append(messages, strings.TrimRight(current, "\n"))
			current = ""
		}
		current += entry
	}
	if current != "" {
		messages = append(messages, strings.TrimRight(current, "\n"))
	}

	return messages
}

// header summarizes the run: total count and how many were published within
// the last week.
func (f *Formatter) header(records []grant.Record, total int) string {
	now := f.Now()
	recent := 0
	for _, r := range records {
		if r.PublishedAt != nil && now.Sub(*r.PublishedAt) <= recentWindow {
			recent++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Weekly Grants Digest* - %s\n\n", now.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Found *%d* relevant funding opportunities", total)
	if total > len(records) {
		fmt.Fprintf(&b, " (showing top %d)", len(records))
	}
	b.WriteString(":\n")
	if recent > 0 {
		fmt.Fprintf(&b, "*%d new* (published in last 7 days)\n", recent)
	}
	b.WriteString("\n")
	return b.String()
}

// titleEscaper rewrites the characters Slack treats as mrkdwn control
// characters so they cannot break the <url|title> link syntax
var titleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "|", "¦")

// formatRecord renders one grant entry. Missing dates are omitted rather
// than printed as placeholders. A record without its own link falls back to
// the source page URL so every entry stays clickable.
func (f *Formatter) formatRecord(position int, r grant.Record) string {
	var b strings.Builder

	link := r.Link
	if link == "" {
		link = r.SourceURL
	}

	title := titleEscaper.Replace(r.Title)
	if link != "" {
		link = strings.ReplaceAll(link, "|", "%7C")
		title = fmt.Sprintf("<%s|%s>", link, title)
	}
	fmt.Fprintf(&b, "*%d. %s*\n", position, title)

	if r.Organization != "" {
		fmt.Fprintf(&b, "Organization: %s\n", r.Organization)
	}
	if r.Amount != "" {
		fmt.Fprintf(&b, "Amount: %s\n", r.Amount)
	}
	if r.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", r.Deadline.Format("2006-01-02"))
	}
	if r.PublishedAt != nil {
		fmt.Fprintf(&b, "Published: %s\n", r.PublishedAt.Format("2006-01-02"))
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", helpers.TruncateRunes(r.Description, descriptionLimit))
	}
	fmt.Fprintf(&b, "Source: %s\n\n", r.SourceName)

	return b.String()
}
