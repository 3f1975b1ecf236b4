package domain

import (
	"strings"
	"time"
)

// ArticleMIMEType is the content type of generated documents.
const ArticleMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Article is the readable text of a generated document.
type Article struct {
	Filename   string
	Title      string
	Paragraphs []string
}

// Text joins the paragraphs with blank lines.
func (a *Article) Text() string {
	return strings.Join(a.Paragraphs, "\n\n")
}

// WordCount returns the number of whitespace-separated words in the body.
func (a *Article) WordCount() int {
	n := 0
	for _, p := range a.Paragraphs {
		n += len(strings.Fields(p))
	}
	return n
}

// ArtifactInfo describes a generated document the server can hand out.
type ArtifactInfo struct {
	Filename  string
	Title     string
	Size      int64
	CreatedAt time.Time
}
