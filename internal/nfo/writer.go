package nfo

import (
	"fmt"

	"github.com/beevik/etree"

	"keywordtagger/internal/keywords"
)

// AppendKeywords adds one <tag> element per keyword after the existing
// children of the root, in sorted order, and returns the keywords written.
// The whitespace preceding the last existing element is reused so the
// appended lines line up with their siblings.
func (r *Record) AppendKeywords(set keywords.Set) []string {
	if set.Len() == 0 {
		return nil
	}

	indent, at := r.insertionPoint()
	added := set.Sorted()
	for _, keyword := range added {
		if indent != "" {
			r.root.InsertChildAt(at, etree.NewCharData(indent))
			at++
		}
		el := etree.NewElement(keywordTag)
		el.SetText(keyword)
		r.root.InsertChildAt(at, el)
		at++
	}
	return added
}

// insertionPoint returns the indentation used by the last child element and
// the token index just before any trailing whitespace of the root.
func (r *Record) insertionPoint() (string, int) {
	children := r.root.Child
	at := len(children)
	if at > 0 {
		if cd, ok := children[at-1].(*etree.CharData); ok && cd.IsWhitespace() {
			at--
		}
	}

	for i := at - 1; i >= 0; i-- {
		if _, ok := children[i].(*etree.Element); !ok {
			continue
		}
		if i > 0 {
			if cd, ok := children[i-1].(*etree.CharData); ok && cd.IsWhitespace() {
				return cd.Data, at
			}
		}
		break
	}
	return "", at
}

// Save serializes the document back to the record's path, replacing the file
// in place. Text is escaped canonically, so quotes and apostrophes already in
// the file are written back as they were read.
func (r *Record) Save() error {
	r.doc.WriteSettings.CanonicalText = true
	if err := r.doc.WriteToFile(r.Path); err != nil {
		return fmt.Errorf("write nfo %s: %w", r.Path, err)
	}
	return nil
}
