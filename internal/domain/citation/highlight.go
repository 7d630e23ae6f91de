package citation

import "strings"

// Segment is a run of text. Citation is set when the run is a citation token.
type Segment struct {
	Text     string `json:"text"`
	Citation *Entry `json:"citation,omitempty"`
}

// Paragraph is one blank-line separated block of text.
type Paragraph []Segment

// Highlight splits text into paragraphs of plain and citation segments.
// Concatenating a paragraph's segment texts yields the paragraph unchanged.
func (r *Resolver) Highlight(text string) []Paragraph {
	if text == "" {
		return nil
	}
	blocks := strings.Split(text, "\n\n")
	out := make([]Paragraph, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, r.paragraph(b))
	}
	return out
}

func (r *Resolver) paragraph(text string) Paragraph {
	var p Paragraph
	last := 0
	for _, loc := range Pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			p = append(p, Segment{Text: text[last:loc[0]]})
		}
		token := text[loc[0]:loc[1]]
		e := r.Resolve(token)
		p = append(p, Segment{Text: token, Citation: &e})
		last = loc[1]
	}
	if last < len(text) || len(p) == 0 {
		p = append(p, Segment{Text: text[last:]})
	}
	return p
}

// Highlight highlights against the default table.
func Highlight(text string) []Paragraph { return defaultResolver.Highlight(text) }
