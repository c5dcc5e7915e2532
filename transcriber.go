package samup

import "io"

// transcriber is the single-pass transcoding engine. It consumes one byte
// per step, dispatching on the byte's class, the previous byte's class and
// the innermost open construct. Output is emitted eagerly and never
// revisited; anything that cannot be decided from lookbehind alone is
// deferred by recording the byte's class in prev and resolving it when the
// next byte (or end of input) arrives.
//
// An instance is single-use per document unless reset between documents,
// and must not be shared across goroutines.
type transcriber struct {
	cursor int
	prev   charClass
	stack  tagStack
	w      io.Writer
}

func newTranscriber(w io.Writer) *transcriber {
	return &transcriber{prev: classNewline, w: w}
}

// reset prepares the engine for a new document, keeping allocations.
func (t *transcriber) reset(w io.Writer) {
	t.cursor = 0
	t.prev = classNewline
	t.stack.reset()
	t.w = w
}

// step consumes one input byte.
func (t *transcriber) step(b byte) error {
	c := classify(b)
	if err := t.dispatch(b, c); err != nil {
		return err
	}
	t.cursor++
	return nil
}

func (t *transcriber) dispatch(b byte, c charClass) error {
	// A link accumulating its URL absorbs nearly every byte. Only "]"
	// (ends the href), "[" (restarts the link) and a newline (aborts it)
	// break the accumulation.
	if top := t.stack.peek(); top != nil && top.kind == tagLink && top.mode == modeHref && t.prev != classBracketClose {
		switch c {
		case classBracketClose, classNewline:
			// handled below
		case classBracketOpen:
			lk, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := lk.writeLiteral(t.w); err != nil {
				return err
			}
			t.prev = classBracketOpen
			return nil
		default:
			if err := top.appendURL(b); err != nil {
				return err
			}
			t.prev = classContent
			return nil
		}
		if c == classNewline {
			lk, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := lk.writeLiteral(t.w); err != nil {
				return err
			}
			t.prev = classContent
		}
	}
	// The byte after "[" either marks a footnote, aborts the bracket, or
	// seeds the URL of a new link.
	if t.prev == classBracketOpen {
		switch c {
		case classCaret:
			t.prev = classCaret
			return nil
		case classBracketOpen:
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := writeStr(t.w, "["); err != nil {
				return err
			}
			t.prev = classBracketOpen
			return nil
		case classBracketClose:
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := writeStr(t.w, "[]"); err != nil {
				return err
			}
			t.prev = classContent
			return nil
		case classWhitespace:
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if _, err := t.w.Write([]byte{'[', b}); err != nil {
				return err
			}
			t.prev = classWhitespace
			return nil
		case classNewline:
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := writeStr(t.w, "["); err != nil {
				return err
			}
			t.prev = classContent
			return t.onNewline()
		default:
			t.stack.push(newLink(b))
			t.prev = classContent
			return nil
		}
	}
	switch c {
	case classWhitespace:
		return t.onWhitespace(b)
	case classNewline:
		return t.onNewline()
	case classUnderscore:
		return t.onEmphasis(b, tagItalic, tagStrong)
	case classAsterisk:
		return t.onEmphasis(b, tagStrong, tagItalic)
	case classOctothorpe:
		return t.onOctothorpe()
	case classCaret:
		return t.onCaret()
	case classColon:
		return t.onColon()
	case classBracketOpen:
		return t.onBracketOpen()
	case classBracketClose:
		return t.onBracketClose()
	case classParenOpen:
		return t.onParenOpen()
	case classParenClose:
		return t.onParenClose()
	case classDigit:
		return t.onDigit(b)
	default:
		return t.onContent(b)
	}
}

// ensureBlock opens an implicit paragraph when no block construct is open.
func (t *transcriber) ensureBlock() error {
	if !t.stack.empty() {
		return nil
	}
	p := tag{kind: tagParagraph}
	if err := p.writeOpen(t.w); err != nil {
		return err
	}
	t.stack.push(p)
	return nil
}

func (t *transcriber) hasKind(k tagKind) bool {
	for i := range t.stack.tags {
		if t.stack.tags[i].kind == k {
			return true
		}
	}
	return false
}

// wordish reports whether a class continues a word, which keeps an
// adjacent emphasis delimiter literal instead of closing it.
func wordish(c charClass) bool {
	return c == classContent || c == classDigit
}

// boundary reports whether the resolved previous class marks a position
// where an emphasis delimiter may open a construct.
func boundary(c charClass) bool {
	switch c {
	case classWhitespace, classNewline, classParenOpen, classOctothorpe, classColon:
		return true
	}
	return false
}

// settle resolves the deferred meaning of the previous byte, given the
// class of the byte now being processed. Every handler calls it first.
func (t *transcriber) settle(curr charClass) error {
	switch t.prev {
	case classNewline:
		top := t.stack.peek()
		if top == nil {
			return nil
		}
		if top.kind == tagHeading {
			h, _ := t.stack.pop()
			if err := h.writeClose(t.w); err != nil {
				return err
			}
			return writeStr(t.w, "\n")
		}
		return writeStr(t.w, "\n")
	case classUnderscore:
		return t.settleEmphasis(curr, tagItalic, "_")
	case classAsterisk:
		return t.settleEmphasis(curr, tagStrong, "*")
	case classOctothorpe:
		top := t.stack.peek()
		if top == nil || top.kind != tagHeading || !top.pending {
			if err := t.ensureBlock(); err != nil {
				return err
			}
			return writeStr(t.w, "#")
		}
		if curr == classNewline {
			h, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			return writeRepeat(t.w, '#', h.level)
		}
		top.pending = false
		return top.writeOpen(t.w)
	case classCaret:
		if err := t.ensureBlock(); err != nil {
			return err
		}
		return writeStr(t.w, "[^")
	case classColon:
		top := t.stack.peek()
		if top == nil || top.kind != tagFootnoteDef || !top.pending {
			if err := t.ensureBlock(); err != nil {
				return err
			}
			return writeStr(t.w, ":")
		}
		top.pending = false
		return top.writeOpen(t.w)
	case classBracketOpen:
		if err := t.ensureBlock(); err != nil {
			return err
		}
		return writeStr(t.w, "[")
	case classBracketClose:
		top := t.stack.peek()
		if top == nil {
			return nil
		}
		switch top.kind {
		case tagLink:
			if top.mode != modeHref {
				return nil
			}
			lk, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			return lk.writeBare(t.w)
		case tagFootnoteRef:
			ref, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			return ref.writeOpen(t.w)
		}
		return nil
	case classDigit:
		top := t.stack.peek()
		if top == nil || top.kind != tagFootnoteRef {
			return nil
		}
		ref, _ := t.stack.pop()
		if err := t.ensureBlock(); err != nil {
			return err
		}
		return ref.writeLiteral(t.w)
	}
	return nil
}

// settleEmphasis resolves a deferred emphasis delimiter: a pending opener
// either commits (open tag) or falls back to a literal character; a
// delimiter following a word either closes the open construct or, when
// the next byte continues the word, stays literal.
func (t *transcriber) settleEmphasis(curr charClass, kind tagKind, lit string) error {
	top := t.stack.peek()
	if top != nil && top.kind == kind {
		if top.pending {
			if curr == classWhitespace || curr == classNewline {
				t.stack.pop()
				if err := t.ensureBlock(); err != nil {
					return err
				}
				return writeStr(t.w, lit)
			}
			em, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			em.pending = false
			if err := em.writeOpen(t.w); err != nil {
				return err
			}
			t.stack.push(em)
			return nil
		}
		if wordish(curr) {
			return writeStr(t.w, lit)
		}
		em, _ := t.stack.pop()
		return em.writeClose(t.w)
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	return writeStr(t.w, lit)
}

func (t *transcriber) onWhitespace(b byte) error {
	// The single space after a heading marker run is part of the marker.
	if t.prev == classOctothorpe {
		if top := t.stack.peek(); top != nil && top.kind == tagHeading && top.pending {
			top.pending = false
			if err := top.writeOpen(t.w); err != nil {
				return err
			}
			t.prev = classWhitespace
			return nil
		}
	}
	if err := t.settle(classWhitespace); err != nil {
		return err
	}
	if t.stack.empty() {
		// leading whitespace before any block is dropped
		t.prev = classWhitespace
		return nil
	}
	if _, err := t.w.Write([]byte{b}); err != nil {
		return err
	}
	t.prev = classWhitespace
	return nil
}

func (t *transcriber) onNewline() error {
	if t.prev == classColon {
		return syntaxErr(t.cursor, "line break inside footnote definition marker")
	}
	if t.prev == classNewline {
		return t.onBlankLine()
	}
	if err := t.settle(classNewline); err != nil {
		return err
	}
	t.prev = classNewline
	return nil
}

// onBlankLine handles the second and later newlines of a run: it closes
// the open block construct, once, and otherwise emits nothing.
func (t *transcriber) onBlankLine() error {
	top := t.stack.peek()
	if top == nil {
		return nil
	}
	switch top.kind {
	case tagParagraph, tagHeading, tagFootnoteDef:
		blk, _ := t.stack.pop()
		if err := blk.writeClose(t.w); err != nil {
			return err
		}
		return writeStr(t.w, "\n")
	}
	return writeStr(t.w, "\n")
}

// onEmphasis handles "_" and "*". The other kind is the conflicting
// construct: no italic opens inside strong and vice versa.
func (t *transcriber) onEmphasis(b byte, kind, conflicting tagKind) error {
	own := classUnderscore
	if kind == tagStrong {
		own = classAsterisk
	}
	if t.prev == own {
		top := t.stack.peek()
		if top != nil && top.kind == kind {
			if top.pending {
				// doubled delimiter collapses to one literal character
				t.stack.pop()
				if err := t.ensureBlock(); err != nil {
					return err
				}
				if _, err := t.w.Write([]byte{b}); err != nil {
					return err
				}
				t.prev = classContent
				return nil
			}
			em, _ := t.stack.pop()
			if err := em.writeClose(t.w); err != nil {
				return err
			}
			t.prev = own
			return nil
		}
		if err := t.ensureBlock(); err != nil {
			return err
		}
		if _, err := t.w.Write([]byte{b}); err != nil {
			return err
		}
		t.prev = own
		return nil
	}
	prev := t.prev
	if err := t.settle(own); err != nil {
		return err
	}
	if top := t.stack.peek(); top != nil && top.kind == kind {
		// potential closer, resolved by the next byte
		t.prev = own
		return nil
	}
	if boundary(prev) && !t.hasKind(conflicting) {
		t.stack.push(newEmphasis(kind))
	}
	t.prev = own
	return nil
}

func (t *transcriber) onOctothorpe() error {
	switch t.prev {
	case classNewline:
		if err := t.closeAll(); err != nil {
			return err
		}
		t.stack.push(newHeading())
		t.prev = classOctothorpe
		return nil
	case classOctothorpe:
		top := t.stack.peek()
		if top != nil && top.kind == tagHeading && top.pending {
			ok, err := top.incLevel()
			if err != nil {
				return err
			}
			if ok {
				t.prev = classOctothorpe
				return nil
			}
			// marker run beyond the deepest level: open the heading,
			// the excess is literal
			top.pending = false
			if err := top.writeOpen(t.w); err != nil {
				return err
			}
			if err := writeStr(t.w, "#"); err != nil {
				return err
			}
			t.prev = classContent
			return nil
		}
		if err := t.ensureBlock(); err != nil {
			return err
		}
		if err := writeStr(t.w, "#"); err != nil {
			return err
		}
		t.prev = classContent
		return nil
	}
	if err := t.settle(classOctothorpe); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if err := writeStr(t.w, "#"); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

// closeAll drains the stack ahead of a heading marker at line start,
// so that at most one block construct is ever open.
func (t *transcriber) closeAll() error {
	closed := !t.stack.empty()
	for {
		tg, ok := t.stack.pop()
		if !ok {
			break
		}
		var err error
		switch {
		case tg.kind == tagLink && tg.mode == modeHref:
			err = tg.writeLiteral(t.w)
		case tg.kind == tagFootnoteRef:
			err = tg.writeLiteral(t.w)
		case tg.pending:
			// never opened, nothing to close
		default:
			err = tg.writeClose(t.w)
		}
		if err != nil {
			return err
		}
	}
	if closed {
		return writeStr(t.w, "\n")
	}
	return nil
}

func (t *transcriber) onCaret() error {
	// "[^" is recognized pre-dispatch; every other caret is literal.
	if err := t.settle(classCaret); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if err := writeStr(t.w, "^"); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

func (t *transcriber) onColon() error {
	if t.prev == classBracketClose {
		if top := t.stack.peek(); top != nil && top.kind == tagFootnoteRef {
			ref, _ := t.stack.pop()
			t.stack.push(tag{kind: tagFootnoteDef, index: ref.index, pending: true})
			t.prev = classColon
			return nil
		}
	}
	if err := t.settle(classColon); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if err := writeStr(t.w, ":"); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

func (t *transcriber) onBracketOpen() error {
	if top := t.stack.peek(); top != nil && top.kind == tagLink && top.mode == modeLabel {
		if err := writeStr(t.w, "["); err != nil {
			return err
		}
		t.prev = classContent
		return nil
	}
	if err := t.settle(classBracketOpen); err != nil {
		return err
	}
	t.prev = classBracketOpen
	return nil
}

func (t *transcriber) onBracketClose() error {
	if t.prev == classCaret {
		if err := t.settle(classBracketClose); err != nil {
			return err
		}
		if err := writeStr(t.w, "]"); err != nil {
			return err
		}
		t.prev = classContent
		return nil
	}
	if top := t.stack.peek(); top != nil {
		switch {
		case top.kind == tagLink && top.mode == modeHref && t.prev != classBracketClose:
			t.prev = classBracketClose
			return nil
		case top.kind == tagFootnoteRef && t.prev == classDigit:
			t.prev = classBracketClose
			return nil
		}
	}
	if err := t.settle(classBracketClose); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if err := writeStr(t.w, "]"); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

func (t *transcriber) onParenOpen() error {
	if t.prev == classBracketClose {
		if top := t.stack.peek(); top != nil && top.kind == tagLink && top.mode == modeHref {
			lk, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := lk.writeOpen(t.w); err != nil {
				return err
			}
			lk.mode = modeLabel
			t.stack.push(lk)
			t.prev = classParenOpen
			return nil
		}
	}
	if err := t.settle(classParenOpen); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if err := writeStr(t.w, "("); err != nil {
		return err
	}
	t.prev = classParenOpen
	return nil
}

func (t *transcriber) onParenClose() error {
	if err := t.settle(classParenClose); err != nil {
		return err
	}
	if top := t.stack.peek(); top != nil && top.kind == tagLink && top.mode == modeLabel {
		lk, _ := t.stack.pop()
		if err := lk.writeClose(t.w); err != nil {
			return err
		}
		t.prev = classContent
		return nil
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if err := writeStr(t.w, ")"); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

func (t *transcriber) onDigit(b byte) error {
	switch t.prev {
	case classCaret:
		t.stack.push(newFootnoteRef(b))
		t.prev = classDigit
		return nil
	case classDigit:
		if top := t.stack.peek(); top != nil && top.kind == tagFootnoteRef {
			if err := top.pushDigit(b); err != nil {
				return err
			}
			t.prev = classDigit
			return nil
		}
	case classBracketClose:
		if top := t.stack.peek(); top != nil && top.kind == tagFootnoteRef {
			return syntaxErr(t.cursor, "digit after closed footnote marker")
		}
	}
	if err := t.settle(classDigit); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if _, err := t.w.Write([]byte{b}); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

func (t *transcriber) onContent(b byte) error {
	if err := t.settle(classContent); err != nil {
		return err
	}
	if err := t.ensureBlock(); err != nil {
		return err
	}
	if _, err := t.w.Write([]byte{b}); err != nil {
		return err
	}
	t.prev = classContent
	return nil
}

func writeRepeat(w io.Writer, b byte, n int) error {
	for i := 0; i < n; i++ {
		if _, err := w.Write([]byte{b}); err != nil {
			return err
		}
	}
	return nil
}
