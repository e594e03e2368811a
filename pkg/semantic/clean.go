package semantic

import (
	"regexp"
	"strings"
)

// whitespaceRunRe matches a maximal run of the whitespace characters the
// cleaner treats as collapsible: space, tab, form feed, CR, LF, and the
// zero-width space U+200B (which Wikipedia markup uses as a soft line
// break and which should not survive into clean text).
var whitespaceRunRe = regexp.MustCompile("[ \t\f\r\n​]+")

func collapseWhitespace(s string) string {
	return whitespaceRunRe.ReplaceAllString(s, " ")
}

// Clean re-emits only top-level structural events and accepted paragraphs
// from a flattened event stream, per §4.6. A paragraph holding only text
// runs is dropped entirely when that text is all whitespace; a paragraph
// containing any inline node is always kept.
func Clean(events []Event) []Event {
	var out []Event
	i := 0
	for i < len(events) {
		ev := events[i]
		if ev.Kind == Open && ev.Node != nil && ev.Node.Tag == TagP {
			j := i + 1
			for !(events[j].Kind == Close && events[j].Node != nil && events[j].Node.Tag == TagP) {
				j++
			}
			out = append(out, cleanParagraph(ev.Node, events[i+1:j])...)
			i = j + 1
			continue
		}
		out = append(out, ev)
		i++
	}
	return out
}

// cleanParagraph applies the buffer/flush algorithm of §4.6 to one
// paragraph's interior events, returning the accepted open/text/close
// sequence, or nil if the paragraph ends up empty.
func cleanParagraph(p *Node, interior []Event) []Event {
	var out []Event
	var buf strings.Builder
	sawNonText := false

	flush := func(trimLeft, trimRight bool) {
		s := collapseWhitespace(buf.String())
		if trimLeft {
			s = strings.TrimLeft(s, " ")
		}
		if trimRight {
			s = strings.TrimRight(s, " ")
		}
		if s != "" {
			out = append(out, textEvent(s))
		}
		buf.Reset()
	}

	for _, ev := range interior {
		if ev.Node == nil {
			buf.WriteString(ev.Text)
			continue
		}
		if !sawNonText {
			sawNonText = true
			out = append(out, openEvent(p))
			flush(true, false)
		} else {
			flush(false, false)
		}
		out = append(out, ev)
	}

	if sawNonText {
		flush(false, true)
		out = append(out, closeEvent(p))
		return out
	}

	final := strings.TrimSpace(collapseWhitespace(buf.String()))
	if final == "" {
		return nil
	}
	return []Event{openEvent(p), textEvent(final), closeEvent(p)}
}
