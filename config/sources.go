package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source file validation errors.
var (
	ErrNoSources         = errors.New("at least one source is required")
	ErrSourceMissingURL  = errors.New("source url is required")
	ErrSourceMissingName = errors.New("source name is required")
)

// SourceConfig represents one grant source website
type SourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Paginate bool   `yaml:"paginate"`
	MaxPages int    `yaml:"max_pages"`
	Discover bool   `yaml:"discover"`
	Enabled  bool   `yaml:"enabled"`
}

// sourcesFile is the on-disk shape of SOURCES_FILE
type sourcesFile struct {
	Sources  []SourceConfig `yaml:"sources"`
	Keywords []string       `yaml:"keywords"`
}

// LoadSourcesFile reads sources and keywords from a YAML file. Disabled
// sources are dropped. An empty keywords list falls back to the defaults.
func LoadSourcesFile(path string) ([]SourceConfig, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse sources file: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, nil, ErrNoSources
	}

	var sources []SourceConfig
	for i, s := range file.Sources {
		if s.Name == "" {
			return nil, nil, fmt.Errorf("source %d: %w", i, ErrSourceMissingName)
		}
		if s.URL == "" {
			return nil, nil, fmt.Errorf("source %q: %w", s.Name, ErrSourceMissingURL)
		}
		if !s.Enabled {
			continue
		}
		sources = append(sources, s)
	}
	if len(sources) == 0 {
		return nil, nil, ErrNoSources
	}

	keywords := file.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}

	return sources, keywords, nil
}

// DefaultSources returns the built-in registry of French and EU grant
// publication sites.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:     "Bpifrance - Concours et Appels à Projets",
			URL:      "https://www.bpifrance.fr/nos-appels-a-projets-concours",
			Paginate: true,
			Discover: true,
			Enabled:  true,
		},
		{
			Name:    "BOAMP - Bulletin Officiel des Annonces de Marchés Publics",
			URL:     "https://www.boamp.fr/",
			Enabled: true,
		},
		{
			Name:     "ANR - Appels à Projets en Cours",
			URL:      "https://anr.fr/fr/appels-a-projets/",
			Paginate: true,
			Discover: true,
			Enabled:  true,
		},
		{
			Name:    "European Innovation Council (EIC)",
			URL:     "https://eic.ec.europa.eu/eic-funding-opportunities_en",
			Enabled: true,
		},
		{
			Name:    "Horizon Europe Work Programme",
			URL:     "https://ec.europa.eu/info/funding-tenders/opportunities/portal/screen/programmes/horizon",
			Enabled: true,
		},
		{
			Name:    "Digital Europe Programme",
			URL:     "https://digital-strategy.ec.europa.eu/en/activities/digital-programme",
			Enabled: true,
		},
		{
			Name:    "Caisse des Dépôts - Innovation Fund",
			URL:     "https://www.caissedesdepots.fr/",
			Enabled: true,
		},
	}
}

// DefaultKeywords returns the built-in topic keywords used by the filter,
// tuned for an AI healthcare administration startup.
func DefaultKeywords() []string {
	return []string{
		// Core AI & healthcare
		"intelligence artificielle", "IA", "AI", "artificial intelligence", "machine learning",
		"santé", "healthcare", "health", "médical", "medical", "administration", "administratif",
		"assurance", "insurance", "mutuelle", "sécurité sociale", "social security",

		// Healthcare tech
		"healthtech", "medtech", "e-santé", "e-health", "digital health", "santé numérique",
		"télémédecine", "telemedicine", "dossier médical", "medical records", "EHR",
		"facturation médicale", "medical billing", "remboursement", "reimbursement",

		// Technology & innovation
		"deeptech", "startup", "innovation", "numérique", "digital", "transformation digitale",
		"automatisation", "automation", "traitement automatique", "processing",
		"algorithme", "algorithm", "données", "data", "big data", "analytics",

		// Business & funding
		"PME", "entreprise innovante", "innovative company", "small business",
		"financement", "funding", "investissement", "investment", "subvention", "grant",
		"développement", "development", "recherche", "research", "R&D",

		// Specific French programs
		"France 2030", "Bpifrance", "PIA", "programme d'investissements d'avenir",
		"french tech", "concours innovation", "appel à projets",
	}
}
