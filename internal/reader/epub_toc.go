package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"

	"github.com/tmckay/skim/internal/rsvp"
)

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Label     navLabel   `xml:"navLabel"`
	Content   navContent `xml:"content"`
	Children  []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// TOC extracts the table of contents from an EPUB file. Word indices are
// counted with the engine tokenizer over the same extraction used for the
// reading text, so they land on the tokens a TOC jump should seek to.
func (f *EPUBFormat) TOC(filename string) ([]TOCEntry, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]

	ncxData, err := findAndReadNCX(filename, book)
	if err != nil {
		return nil, err
	}

	var toc ncx
	if err := xml.Unmarshal(ncxData, &toc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}

	spineMap := buildSpineMap(book)
	return flattenNavPoints(toc.NavMap.NavPoints, spineMap, 0), nil
}

// ExtractChapters extracts the book text with chapter boundaries preserved.
// One chapter per spine item, titled from the NCX when it names that item.
func (f *EPUBFormat) ExtractChapters(filename string) ([]Chapter, string, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, "", fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	tocByHref := buildTOCHrefMap(filename, book)

	var parts []string
	var chapters []Chapter
	wordCount := 0

	for i, ref := range book.Spine.Itemrefs {
		text := spineItemText(ref)
		tokens := rsvp.Tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		parts = append(parts, text)

		title := fmt.Sprintf("Section %d", i+1)
		if ref.Item.HREF != "" {
			if t, ok := tocByHref[ref.Item.HREF]; ok {
				title = t
			} else if t, ok := tocByHref[path.Base(ref.Item.HREF)]; ok {
				title = t
			}
		}

		chapters = append(chapters, Chapter{
			Title:     title,
			WordStart: wordCount,
			WordEnd:   wordCount + len(tokens) - 1,
		})
		wordCount += len(tokens)
	}

	return chapters, strings.Join(parts, "\n\n"), nil
}

// buildTOCHrefMap parses the NCX and returns a map of href to title.
func buildTOCHrefMap(filename string, book *epub.Rootfile) map[string]string {
	result := make(map[string]string)

	ncxData, err := findAndReadNCX(filename, book)
	if err != nil {
		return result
	}

	var toc ncx
	if err := xml.Unmarshal(ncxData, &toc); err != nil {
		return result
	}

	var extract func(points []navPoint)
	extract = func(points []navPoint) {
		for _, np := range points {
			href := np.Content.Src
			title := strings.TrimSpace(np.Label.Text)

			if _, exists := result[href]; !exists {
				result[href] = title
			}
			if idx := strings.Index(href, "#"); idx != -1 {
				baseHref := href[:idx]
				if _, exists := result[baseHref]; !exists {
					result[baseHref] = title
				}
			}
			baseHref := path.Base(href)
			if idx := strings.Index(baseHref, "#"); idx != -1 {
				baseHref = baseHref[:idx]
			}
			if _, exists := result[baseHref]; !exists {
				result[baseHref] = title
			}

			extract(np.Children)
		}
	}
	extract(toc.NavMap.NavPoints)

	return result
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}

	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}

type spineInfo struct {
	wordIndex int
	preview   string
}

// buildSpineMap walks the spine once, recording each item's starting word
// index and a short preview.
func buildSpineMap(book *epub.Rootfile) map[string]spineInfo {
	m := make(map[string]spineInfo)
	wordCount := 0

	for _, ref := range book.Spine.Itemrefs {
		tokens := rsvp.Tokenize(spineItemText(ref))

		preview := ""
		if len(tokens) > 0 {
			previewTokens := tokens
			if len(previewTokens) > 10 {
				previewTokens = previewTokens[:10]
			}
			preview = strings.Join(previewTokens, " ") + "..."
		}

		if ref.Item != nil && ref.Item.HREF != "" {
			m[ref.Item.HREF] = spineInfo{wordIndex: wordCount, preview: preview}
			m[path.Base(ref.Item.HREF)] = spineInfo{wordIndex: wordCount, preview: preview}
		}

		wordCount += len(tokens)
	}

	return m
}

func flattenNavPoints(points []navPoint, spineMap map[string]spineInfo, level int) []TOCEntry {
	var entries []TOCEntry

	for _, np := range points {
		href := np.Content.Src
		baseHref := href
		if idx := strings.Index(href, "#"); idx != -1 {
			baseHref = href[:idx]
		}

		wordIndex := 0
		preview := ""
		if info, ok := spineMap[baseHref]; ok {
			wordIndex = info.wordIndex
			preview = info.preview
		} else if info, ok := spineMap[path.Base(baseHref)]; ok {
			wordIndex = info.wordIndex
			preview = info.preview
		}

		entries = append(entries, TOCEntry{
			Title:     strings.TrimSpace(np.Label.Text),
			Preview:   preview,
			WordIndex: wordIndex,
			Level:     level,
		})
		if len(np.Children) > 0 {
			entries = append(entries, flattenNavPoints(np.Children, spineMap, level+1)...)
		}
	}

	return entries
}
