package samup

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func sampleDocument() []byte {
	var sb strings.Builder
	for i := 0; i < 64; i++ {
		sb.WriteString("# Section heading\n\n")
		sb.WriteString("A paragraph with _italic_ and *strong* text, a bare\n")
		sb.WriteString("[https://example.com/docs] link and a labeled\n")
		sb.WriteString("[https://example.com](link to the docs), plus a note[^3].\n\n")
		sb.WriteString("[^3]: the footnote body sits on its own line.\n\n")
	}
	return []byte(sb.String())
}

func BenchmarkTranscribe(b *testing.B) {
	data := sampleDocument()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	reader := bytes.NewReader(data)
	for i := 0; i < b.N; i++ {
		reader.Reset(data)
		_ = Transcribe(TranscribeRequest{
			Reader: reader,
			Writer: io.Discard,
		})
	}
}

func BenchmarkTranscribeBytes(b *testing.B) {
	data := sampleDocument()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = TranscribeBytes(data)
	}
}

func BenchmarkTranscribeWithValidation(b *testing.B) {
	data := sampleDocument()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	reader := bytes.NewReader(data)
	for i := 0; i < b.N; i++ {
		reader.Reset(data)
		_ = Transcribe(TranscribeRequest{
			Reader:  reader,
			Writer:  io.Discard,
			Options: []Option{WithValidation(true)},
		})
	}
}
