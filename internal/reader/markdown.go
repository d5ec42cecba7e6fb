package reader

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/tmckay/skim/internal/rsvp"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// Extract returns the raw file content; Markdown already separates
// paragraphs with blank lines.
func (f *MarkdownFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// TOC extracts the table of contents from a Markdown file by parsing
// headers. Word indices are engine-tokenizer counts, so a TOC jump seeks
// to the header's own tokens.
func (f *MarkdownFormat) TOC(filename string) ([]TOCEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []TOCEntry
	wordCount := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if match := headerRegex.FindStringSubmatch(line); match != nil {
			entries = append(entries, TOCEntry{
				Title:     strings.TrimSpace(match[2]),
				WordIndex: wordCount,
				Level:     len(match[1]) - 1, // h1 = level 0, h2 = level 1
			})
		}

		wordCount += len(rsvp.Tokenize(line))
	}

	return entries, scanner.Err()
}

// ExtractChapters extracts the file content with chapter boundaries taken
// from headers. Files without headers become a single "Document" chapter.
func (f *MarkdownFormat) ExtractChapters(filename string) ([]Chapter, string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", err
	}
	text := string(data)

	var chapters []Chapter
	var current *Chapter
	wordCount := 0

	for _, line := range strings.Split(text, "\n") {
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			if current != nil && wordCount > current.WordStart {
				current.WordEnd = wordCount - 1
				chapters = append(chapters, *current)
			}
			current = &Chapter{
				Title:     strings.TrimSpace(match[2]),
				WordStart: wordCount,
			}
		}
		wordCount += len(rsvp.Tokenize(line))
	}

	if current != nil && wordCount > current.WordStart {
		current.WordEnd = wordCount - 1
		chapters = append(chapters, *current)
	}

	if len(chapters) == 0 && wordCount > 0 {
		chapters = append(chapters, Chapter{
			Title:     "Document",
			WordStart: 0,
			WordEnd:   wordCount - 1,
		})
	}

	return chapters, text, nil
}
