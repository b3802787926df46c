package types

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	// DocsDir is the directory containing the reference markdown documents.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// CatalogDir is the base directory for catalog data (contains extracted/, index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`
}

// ValidationMode selects how the validator exercises each statement.
type ValidationMode string

const (
	// ModePrepare compiles statements without executing them.
	ModePrepare ValidationMode = "prepare"
	// ModeExecute runs statements in order against a throwaway database.
	ModeExecute ValidationMode = "execute"
)

// ValidateConfig holds settings for the snippet validation stage.
type ValidateConfig struct {
	// DocsDir is the directory containing the reference markdown documents.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// Mode selects prepare or execute validation (default prepare).
	Mode ValidationMode `json:"mode" yaml:"mode"`

	// FixturesPath is an optional SQL file applied to the database before
	// validating, so examples referencing shared tables resolve.
	FixturesPath string `json:"fixtures_path,omitempty" yaml:"fixtures_path,omitempty"`

	// SkipPatterns lists substrings marking dialect-specific examples the
	// embedded engine cannot accept. Matching entries are skipped, not failed.
	SkipPatterns []string `json:"skip_patterns,omitempty" yaml:"skip_patterns,omitempty"`
}

// CatalogConfig holds settings for the catalog stage.
type CatalogConfig struct {
	// CatalogDir is the base directory for catalog data (contains extracted/, index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// DocsDir is the directory containing the source markdown, used for
	// provenance traces.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extract  ExtractConfig  `json:"extract" yaml:"extract"`
	Validate ValidateConfig `json:"validate" yaml:"validate"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog"`
}
