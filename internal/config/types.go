package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level cdsx configuration, corresponding to .cdsx.yml.
type Config struct {
	Provider          ProviderType    `yaml:"provider" koanf:"provider"`
	Model             string          `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string          `yaml:"embedding_model" koanf:"embedding_model"`
	Corpus            CorpusConfig    `yaml:"corpus" koanf:"corpus"`
	Chunking          ChunkingConfig  `yaml:"chunking" koanf:"chunking"`
	Retrieval         RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	DataDir           string          `yaml:"data_dir" koanf:"data_dir"`
	IndexDir          string          `yaml:"index_dir" koanf:"index_dir"`
	Port              int             `yaml:"port" koanf:"port"`
}

// CorpusConfig describes the source guideline document and the provenance
// metadata stamped onto every segment extracted from it.
type CorpusConfig struct {
	SourcePath   string `yaml:"source_path" koanf:"source_path"`
	DocID        string `yaml:"doc_id" koanf:"doc_id"`
	Source       string `yaml:"source" koanf:"source"`
	URL          string `yaml:"url" koanf:"url"`
	Jurisdiction string `yaml:"jurisdiction" koanf:"jurisdiction"`
	Topic        string `yaml:"topic" koanf:"topic"`
}

// ChunkingConfig controls the sliding-window chunker.
type ChunkingConfig struct {
	MaxChars int `yaml:"max_chars" koanf:"max_chars"`
	Overlap  int `yaml:"overlap" koanf:"overlap"`
}

// RetrievalConfig controls evidence retrieval at request time.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" koanf:"top_k"`
}
