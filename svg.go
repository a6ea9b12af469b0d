package costumy

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// SVGPath is one path element extracted from an SVG document.
type SVGPath struct {
	ID      string
	Label   string
	Class   string
	GroupID string
	Data    string
}

// SVGDocument holds the path elements of an SVG file in document
// order. Only path elements and their enclosing groups are read; the
// rest of the document is skipped.
type SVGDocument struct {
	Paths []SVGPath
}

// ParseSVGDocument reads an SVG document and collects its path
// elements. Documents in any IANA-registered encoding are accepted.
func ParseSVGDocument(r io.Reader) (*SVGDocument, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	doc := &SVGDocument{}
	var groups []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid svg: %v", ErrSerialization, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "g":
				groups = append(groups, xmlAttr(t, "id"))
			case "path":
				p := SVGPath{
					ID:    xmlAttr(t, "id"),
					Label: inkscapeLabel(t),
					Class: xmlAttr(t, "class"),
					Data:  xmlAttr(t, "d"),
				}
				for i := len(groups) - 1; i >= 0; i-- {
					if groups[i] != "" {
						p.GroupID = groups[i]
						break
					}
				}
				doc.Paths = append(doc.Paths, p)
			}
		case xml.EndElement:
			if t.Name.Local == "g" && len(groups) > 0 {
				groups = groups[:len(groups)-1]
			}
		}
	}
	return doc, nil
}

func xmlAttr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// inkscapeLabel finds the inkscape:label attribute whether or not the
// inkscape namespace is declared in the document.
func inkscapeLabel(e xml.StartElement) string {
	for _, a := range e.Attr {
		if a.Name.Local == "label" && strings.Contains(strings.ToLower(a.Name.Space), "inkscape") {
			return a.Value
		}
	}
	return ""
}

// NamedPath pairs a panel name with raw path data.
type NamedPath struct {
	Name string
	Data string
}

// NamedPaths flattens the document into name and path-data pairs in
// document order. A path is named by its editor label when present,
// then by its own id. Anonymous paths are assigned NoName_0,
// NoName_1, and so on.
func (doc *SVGDocument) NamedPaths() []NamedPath {
	out := make([]NamedPath, 0, len(doc.Paths))
	anonymous := 0
	for _, p := range doc.Paths {
		name := p.Label
		if name == "" {
			name = p.ID
		}
		if name == "" {
			name = fmt.Sprintf("NoName_%d", anonymous)
			anonymous++
		}
		out = append(out, NamedPath{Name: name, Data: p.Data})
	}
	return out
}

// GroupNamedPaths names each path after its enclosing group, the way
// generator output arranges panels, with the path's own id as the
// fallback. When prefix is non-empty, paths whose resolved name does
// not start with it are dropped; generators mark panel outlines with a
// known id prefix and this filters out grid lines, labels and other
// decoration.
func (doc *SVGDocument) GroupNamedPaths(prefix string) []NamedPath {
	out := make([]NamedPath, 0, len(doc.Paths))
	anonymous := 0
	for _, p := range doc.Paths {
		name := p.GroupID
		if name == "" {
			name = p.ID
		}
		if name == "" {
			name = fmt.Sprintf("NoName_%d", anonymous)
			anonymous++
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, NamedPath{Name: name, Data: p.Data})
	}
	return out
}
