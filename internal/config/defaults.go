package config

// DefaultConfig returns a Config with sensible defaults, pointed at the
// NICE NG109 visual summary corpus.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-large",
		Corpus: CorpusConfig{
			SourcePath:   "data/raw/nice_ng109_visual_summary.pdf",
			DocID:        "nice_ng109_visual_summary",
			Source:       "NICE",
			URL:          "https://www.nice.org.uk/guidance/ng109/resources/visual-summary-pdf-6544021069",
			Jurisdiction: "UK",
			Topic:        "lower_uti_antimicrobial",
		},
		Chunking: ChunkingConfig{
			MaxChars: 2400,
			Overlap:  250,
		},
		Retrieval: RetrievalConfig{
			TopK: 6,
		},
		DataDir:  "data/processed",
		IndexDir: "indexes/chromem",
		Port:     8080,
	}
}
