package samup

// finish resolves the deferred final byte and drains every remaining open
// construct, top to bottom. Whatever the input looked like, the output is
// balanced when finish returns: constructs that completed render their
// close tag, constructs that never completed flush as the literal prefix
// they consumed.
func (t *transcriber) finish() error {
	switch t.prev {
	case classWhitespace, classNewline, classContent, classParenOpen, classParenClose:
		// a trailing newline or plain byte leaves nothing dangling
	case classColon:
		if top := t.stack.peek(); top != nil && top.kind == tagFootnoteDef && top.pending {
			def, _ := t.stack.pop()
			if err := t.ensureBlock(); err != nil {
				return err
			}
			if err := def.writeLiteral(t.w); err != nil {
				return err
			}
			break
		}
		if err := t.settle(classWhitespace); err != nil {
			return err
		}
	case classOctothorpe:
		// a heading marker run with no body collapses to literal markers
		if err := t.settle(classNewline); err != nil {
			return err
		}
	default:
		if err := t.settle(classWhitespace); err != nil {
			return err
		}
	}
	for {
		tg, ok := t.stack.pop()
		if !ok {
			return nil
		}
		var err error
		switch {
		case tg.kind == tagLink && tg.mode == modeHref:
			err = tg.writeLiteral(t.w)
		case tg.kind == tagFootnoteRef:
			err = tg.writeLiteral(t.w)
		case tg.pending:
			// never opened, nothing to balance
		default:
			err = tg.writeClose(t.w)
		}
		if err != nil {
			return err
		}
	}
}
