package samup

import (
	"io"
	"strconv"
)

// tagKind identifies an open-construct variant.
type tagKind uint8

const (
	tagParagraph tagKind = iota
	tagHeading
	tagItalic
	tagStrong
	tagLink
	tagFootnoteRef
	tagFootnoteDef
)

// linkMode tracks what a link construct is currently accumulating.
type linkMode uint8

const (
	modeHref linkMode = iota
	modeLabel
)

const maxHeadingLevel = 6

var headingOpen = [...]string{"", "<h1>", "<h2>", "<h3>", "<h4>", "<h5>", "<h6>"}
var headingClose = [...]string{"", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>"}

// tag is one open construct on the stack: the variant plus its payload.
// Emphasis and heading tags start out pending: pushed before their open
// fragment is written, so a doubled delimiter can still collapse to a
// literal character without revisiting emitted output.
type tag struct {
	kind    tagKind
	level   int
	index   int
	mode    linkMode
	url     []byte
	pending bool
}

func newHeading() tag { return tag{kind: tagHeading, level: 1, pending: true} }

func newEmphasis(kind tagKind) tag { return tag{kind: kind, pending: true} }

func newLink(seed byte) tag { return tag{kind: tagLink, url: []byte{seed}} }

func newFootnoteRef(digit byte) tag {
	return tag{kind: tagFootnoteRef, index: int(digit - '0')}
}

// pushDigit extends a footnote index by one decimal digit.
func (t *tag) pushDigit(b byte) error {
	if t.kind != tagFootnoteRef && t.kind != tagFootnoteDef {
		return ErrStackMismatch
	}
	t.index = t.index*10 + int(b-'0')
	return nil
}

// appendURL buffers one byte of a link URL.
func (t *tag) appendURL(b byte) error {
	if t.kind != tagLink || t.mode != modeHref {
		return ErrStackMismatch
	}
	t.url = append(t.url, b)
	return nil
}

// incLevel bumps a heading level. It reports false once the level has
// saturated at six; further markers are literal content.
func (t *tag) incLevel() (bool, error) {
	if t.kind != tagHeading {
		return false, ErrStackMismatch
	}
	if t.level >= maxHeadingLevel {
		return false, nil
	}
	t.level++
	return true, nil
}

// writeOpen emits the construct's opening HTML fragment. For a link it
// emits the anchor open tag using the buffered URL; for a footnote
// reference the rendering is atomic and writeOpen emits the whole
// superscript anchor.
func (t *tag) writeOpen(w io.Writer) error {
	switch t.kind {
	case tagParagraph:
		return writeStr(w, "<p>")
	case tagHeading:
		return writeStr(w, headingOpen[t.level])
	case tagItalic:
		return writeStr(w, "<i>")
	case tagStrong:
		return writeStr(w, "<strong>")
	case tagLink:
		if err := writeStr(w, `<a href="`); err != nil {
			return err
		}
		if _, err := w.Write(t.url); err != nil {
			return err
		}
		return writeStr(w, `" target="_blank">`)
	case tagFootnoteRef:
		n := strconv.Itoa(t.index)
		return writeStr(w, `<a id="link-`+n+`" target="#ref-`+n+`"><sup>`+n+`</sup></a>`)
	case tagFootnoteDef:
		n := strconv.Itoa(t.index)
		return writeStr(w, `<p class="footnote" id="ref-`+n+`"><span class="footnote">`+n+`:</span>`)
	}
	return ErrStackMismatch
}

// writeClose emits the construct's closing HTML fragment.
func (t *tag) writeClose(w io.Writer) error {
	switch t.kind {
	case tagParagraph:
		return writeStr(w, "</p>")
	case tagHeading:
		return writeStr(w, headingClose[t.level])
	case tagItalic:
		return writeStr(w, "</i>")
	case tagStrong:
		return writeStr(w, "</strong>")
	case tagLink:
		return writeStr(w, "</a>")
	case tagFootnoteDef:
		n := strconv.Itoa(t.index)
		return writeStr(w, `<a href="#link-`+n+`">🔙</a></p>`)
	}
	return ErrStackMismatch
}

// writeBare emits a resolved no-label link: URL as both href and text.
func (t *tag) writeBare(w io.Writer) error {
	if t.kind != tagLink {
		return ErrStackMismatch
	}
	if err := t.writeOpen(w); err != nil {
		return err
	}
	if _, err := w.Write(t.url); err != nil {
		return err
	}
	return writeStr(w, "</a>")
}

// writeLiteral flushes an unfinished construct as the raw prefix it
// consumed. Only accumulating constructs have a literal form.
func (t *tag) writeLiteral(w io.Writer) error {
	switch t.kind {
	case tagLink:
		if err := writeStr(w, "["); err != nil {
			return err
		}
		_, err := w.Write(t.url)
		return err
	case tagFootnoteRef:
		return writeStr(w, "[^"+strconv.Itoa(t.index))
	case tagFootnoteDef:
		return writeStr(w, "[^"+strconv.Itoa(t.index)+"]:")
	}
	return ErrStackMismatch
}

func writeStr(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
