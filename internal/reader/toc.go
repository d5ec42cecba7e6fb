package reader

// TOCEntry represents a single entry in a table of contents. WordIndex is
// an offset into the engine's word stream for the extracted text.
type TOCEntry struct {
	Title     string
	Preview   string
	WordIndex int
	Level     int
}

// Chapter represents extracted chapter content with word stream boundaries.
type Chapter struct {
	Title     string
	WordStart int
	WordEnd   int
}

// TOCProvider is an optional interface for formats that support TOC
// extraction.
type TOCProvider interface {
	TOC(filename string) ([]TOCEntry, error)
}

// ChapterExtractor is an optional interface for chapter-aware extraction.
// The returned text keeps paragraph breaks; chapter boundaries index the
// word stream the engine builds from that text.
type ChapterExtractor interface {
	ExtractChapters(filename string) ([]Chapter, string, error)
}
