// Package extract turns uploaded files into page texts for indexing.
// The chunking core never parses file formats itself; it consumes the page
// sequences produced here.
package extract

import (
	"path/filepath"
	"strings"
)

// Extractor produces one text per page from raw file content.
type Extractor interface {
	Pages(content []byte) ([]string, error)
}

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the default extractors for
// .pdf and .md files.
func NewRegistry() *Registry {
	return &Registry{
		byExt: map[string]Extractor{
			".pdf":      NewPDFExtractor(),
			".md":       NewMarkdownExtractor(),
			".markdown": NewMarkdownExtractor(),
		},
	}
}

// ForFile returns the extractor for the file's extension, or false if the
// format is unsupported.
func (r *Registry) ForFile(name string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	e, ok := r.byExt[ext]
	return e, ok
}
