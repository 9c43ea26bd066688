package extractor

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are an expert grant analyst who reads multiple languages (English, French, German).

Extract funding opportunities from the following text from "%s".

Focus on grants that match these keywords: %s

For EACH grant found, return a JSON object with these fields:
- "title": grant name/title (translate to English if needed)
- "organization": funding organization or agency
- "amount": funding amount with currency (e.g. "€2M", "$500K", or "Not specified")
- "deadline": application deadline in YYYY-MM-DD format (or "Not specified")
- "published_date": date the grant was published/announced in YYYY-MM-DD format (look for "publié le", "published on", "date de publication")
- "description": brief description, 2-3 sentences max, in English
- "eligibility": who can apply (companies, universities, individuals, ...)
- "url": any specific URL mentioned for this grant
- "tags": array of short topic tags (e.g. ["healthtech", "AI"])
- "relevance_score": 1-10 rating of relevance for tech/innovation/research projects

Rules:
1. Look for terms like "funding", "grant", "call for proposals", "appel à projets", "financement", "subvention", "concours", "bourse"
2. Extract specific monetary amounts when mentioned
3. Only include grants with relevance_score >= 6
4. If the text is in French or another language, translate key info to English

Return ONLY a valid JSON array. If no relevant grants are found, return: []

Text to analyze:
%s

JSON Response:`

// BuildPrompt renders the extraction instruction for one chunk of page text
func BuildPrompt(sourceName string, keywords []string, chunk string) string {
	return fmt.Sprintf(promptTemplate, sourceName, strings.Join(keywords, ", "), chunk)
}
