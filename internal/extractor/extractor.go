package extractor

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"clemfr/grantwatch/config"
	"clemfr/grantwatch/internal/fetcher"
	"clemfr/grantwatch/internal/grant"
	"clemfr/grantwatch/logger"
	"clemfr/grantwatch/pkg/errors"
)

// Extractor turns raw page text into grant records via the LLM service
type Extractor struct {
	client       ChatClient
	keywords     []string
	chunkSize    int
	chunkOverlap int
	maxChunks    int
}

// New creates an extractor backed by the configured chat endpoint
func New(cfg *config.Config) *Extractor {
	client := NewOpenAIChatClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout)
	return NewWithClient(client, cfg)
}

// NewWithClient creates an extractor with a caller-supplied chat client
func NewWithClient(client ChatClient, cfg *config.Config) *Extractor {
	return &Extractor{
		client:       client,
		keywords:     cfg.Keywords,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		maxChunks:    cfg.MaxChunksPerPage,
	}
}

// ExtractRecords sends the page text to the model, chunked when it exceeds
// the input bound, and concatenates the records from all chunks. Failures on
// one chunk are logged and that chunk contributes zero records.
func (e *Extractor) ExtractRecords(ctx context.Context, page fetcher.RawPage) []grant.Record {
	log := logger.ForExtractor().WithField("source", page.Source.Name)

	chunks := SplitText(page.Text, e.chunkSize, e.chunkOverlap)
	if len(chunks) > e.maxChunks {
		chunks = chunks[:e.maxChunks]
	}

	var records []grant.Record
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}

		prompt := BuildPrompt(page.Source.Name, e.keywords, chunk)
		response, err := e.client.Complete(ctx, prompt)
		if err != nil {
			log.Warn().Err(err).Int("chunk", i+1).Msg("Extraction request failed")
			continue
		}

		chunkRecords, err := ParseResponse(response)
		if err != nil {
			parseErr := errors.NewExtractionParse(page.Source.Name, i+1, "unparsable extraction response", err)
			log.Warn().Err(parseErr).Msg("Dropping chunk output")
			continue
		}

		for j := range chunkRecords {
			chunkRecords[j].SourceName = page.Source.Name
			chunkRecords[j].SourceURL = page.Source.URL
		}
		records = append(records, chunkRecords...)
	}

	return records
}

// extractedGrant is the field shape the prompt asks the model for
type extractedGrant struct {
	Title          string   `json:"title"`
	Organization   string   `json:"organization"`
	Amount         string   `json:"amount"`
	Deadline       string   `json:"deadline"`
	PublishedDate  string   `json:"published_date"`
	Description    string   `json:"description"`
	Eligibility    string   `json:"eligibility"`
	URL            string   `json:"url"`
	Tags           []string `json:"tags"`
	RelevanceScore flexInt  `json:"relevance_score"`
}

// flexInt tolerates the model returning a score as a number or a string
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(int(v))
	return nil
}

// ParseResponse parses a model response into grant records. Markdown code
// fences around the JSON array are tolerated.
func ParseResponse(response string) ([]grant.Record, error) {
	text := stripCodeFence(response)

	var rows []extractedGrant
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, err
	}

	var records []grant.Record
	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			continue
		}

		amount := strings.TrimSpace(row.Amount)
		if strings.EqualFold(amount, "not specified") {
			amount = ""
		}

		records = append(records, grant.Record{
			Title:        title,
			Description:  strings.TrimSpace(row.Description),
			Link:         normalizeExtractedURL(row.URL),
			Deadline:     grant.ParseDate(row.Deadline),
			PublishedAt:  grant.ParseDate(row.PublishedDate),
			Tags:         row.Tags,
			Organization: strings.TrimSpace(row.Organization),
			Amount:       amount,
			Eligibility:  strings.TrimSpace(row.Eligibility),
			Relevance:    int(row.RelevanceScore),
		})
	}

	return records, nil
}

// stripCodeFence removes a surrounding ```/```json fence, if any
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// normalizeExtractedURL drops placeholder values the model emits for a
// missing URL
func normalizeExtractedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "not specified") || !strings.HasPrefix(raw, "http") {
		return ""
	}
	return raw
}
