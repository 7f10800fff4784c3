package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxPlainPasses = 4

// htmlSanitizer cleans user-supplied markup before it is stored.
type htmlSanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

func newHTMLSanitizer() htmlSanitizer {
	return htmlSanitizer{
		rich:  bluemonday.UGCPolicy(),
		plain: bluemonday.StrictPolicy(),
	}
}

// Rich keeps safe formatting markup and drops scripts, handlers and the
// like. A nil pointer is left alone.
func (h htmlSanitizer) Rich(v *string) *string {
	if v == nil {
		return nil
	}
	out := h.rich.Sanitize(*v)
	return &out
}

// Plain strips every tag and returns unescaped text. Unescaping can expose
// markup that was entity-encoded in the input, so the text is sanitised
// again until a pass removes nothing.
func (h htmlSanitizer) Plain(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	for range maxPlainPasses {
		next := html.UnescapeString(h.plain.Sanitize(out))
		if next == out {
			out = strings.TrimSpace(out)
			return &out
		}
		out = next
	}
	// Still changing: keep the escaped form, which renders as text.
	out = strings.TrimSpace(h.plain.Sanitize(out))
	return &out
}
