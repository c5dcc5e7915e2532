// Package samup transcribes samup, a lightweight Markdown-like markup,
// to HTML in a single forward pass.
//
// This package is built for streaming: input bytes are consumed one at a
// time by a character-class driven state machine and HTML is emitted
// incrementally, with no intermediate tree and no backtracking. Nested,
// not-yet-closed constructs (paragraphs, headings, emphasis, links,
// footnotes) live on an explicit stack; end of input drains the stack so
// that every input, however malformed, yields balanced HTML.
//
// Core properties:
//   - Single pass, byte at a time; emitted output is never revisited
//   - Bounded memory: stack depth plus the longest buffered link URL
//   - Total: unterminated markup is resolved at end of input
//
// Example:
//
//	var out bytes.Buffer
//	err := samup.Transcribe(samup.TranscribeRequest{
//		Reader: strings.NewReader("# Hello\n\n_samup_ in, HTML out."),
//		Writer: &out,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Behavior can be customized using Options such as standalone-document
// wrapping and input validation.
package samup
