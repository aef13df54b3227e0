package nfo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"

	"keywordtagger/internal/keywords"
)

const (
	rootTag    = "movie"
	idTag      = "id"
	keywordTag = "tag"
	imdbPrefix = "tt"
)

// ErrNotRecord marks files that are not movie NFOs carrying an IMDb id.
var ErrNotRecord = errors.New("not a movie record")

// Record is one parsed NFO file. The document tree is owned by the record and
// mutated only through AppendKeywords.
type Record struct {
	Path string
	ID   string

	doc  *etree.Document
	root *etree.Element

	remote    keywords.Set
	hasRemote bool
}

// Load parses path and returns a Record when the document has a <movie> root
// with exactly one <id> child whose text starts with "tt". Any other shape,
// including malformed XML, yields an error wrapping ErrNotRecord. Read
// failures are returned unwrapped.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nfo: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, notRecord("malformed xml: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, notRecord("empty document")
	}
	if root.Space != "" || root.Tag != rootTag {
		return nil, notRecord("root element is <%s>", root.FullTag())
	}

	ids := root.SelectElements(idTag)
	switch len(ids) {
	case 0:
		return nil, notRecord("missing <%s>", idTag)
	case 1:
	default:
		return nil, notRecord("%d <%s> elements", len(ids), idTag)
	}

	id := strings.TrimSpace(ids[0].Text())
	if !strings.HasPrefix(id, imdbPrefix) {
		return nil, notRecord("id %q is not an IMDb identifier", id)
	}

	return &Record{
		Path: path,
		ID:   id,
		doc:  doc,
		root: root,
	}, nil
}

func notRecord(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotRecord, fmt.Sprintf(format, args...))
}

// LocalKeywords returns the keywords stored in direct <tag> children of the root.
func (r *Record) LocalKeywords() keywords.Set {
	set := keywords.New()
	for _, el := range r.root.SelectElements(keywordTag) {
		set.Add(el.Text())
	}
	return set
}

// CachedRemote returns the remote keywords recorded by CacheRemote, if any.
func (r *Record) CachedRemote() (keywords.Set, bool) {
	if !r.hasRemote {
		return nil, false
	}
	return r.remote, true
}

// CacheRemote stores the result of a successful remote fetch for reuse during
// the rest of the run.
func (r *Record) CacheRemote(set keywords.Set) {
	if set == nil {
		set = keywords.New()
	}
	r.remote = set
	r.hasRemote = true
}
