package samup

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestTranscribeRequiresReaderAndWriter(t *testing.T) {
	var out bytes.Buffer
	if err := Transcribe(TranscribeRequest{Writer: &out}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Transcribe(TranscribeRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestTranscribeWithValidationRejectsBinary(t *testing.T) {
	src := append([]byte("hello"), 0x00)
	_, err := TranscribeBytes(src, WithValidation(true))
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
}

func TestTranscribeWithValidationRejectsInvalidUTF8(t *testing.T) {
	_, err := TranscribeBytes([]byte{'a', 0xff, 'b'}, WithValidation(true))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestTranscribeWithoutValidationPassesBytesThrough(t *testing.T) {
	out, err := TranscribeBytes([]byte{'a', 0xff, 'b'})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if want := "<p>a\xffb</p>"; string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestValidationAcrossChunkBoundaries(t *testing.T) {
	var out bytes.Buffer
	err := Transcribe(TranscribeRequest{
		Reader:  iotest.OneByteReader(strings.NewReader("héllo 🙂")),
		Writer:  &out,
		Options: []Option{WithValidation(true)},
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if want := "<p>héllo 🙂</p>"; out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestValidationRejectsTruncatedRuneAtEOF(t *testing.T) {
	_, err := TranscribeBytes([]byte("ok\xc3"), WithValidation(true))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestTranscribePropagatesReadErrors(t *testing.T) {
	broken := errors.New("disk gone")
	var out bytes.Buffer
	err := Transcribe(TranscribeRequest{
		Reader: iotest.ErrReader(broken),
		Writer: &out,
	})
	if !errors.Is(err, broken) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestTranscribeWithDocument(t *testing.T) {
	out, err := TranscribeBytes([]byte("# Hi"), WithDocument("My <Page>"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>My &lt;Page&gt;</title>",
		"<style>",
		"p.footnote",
		"<body>\n<h1>Hi</h1>\n</body>",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("document output missing %q:\n%s", want, s)
		}
	}
}

func TestTranscribeWithCustomStylesheet(t *testing.T) {
	out, err := TranscribeBytes([]byte("x"), WithDocument(""), WithStylesheet("b { color: red; }"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "b { color: red; }") {
		t.Fatalf("custom stylesheet missing:\n%s", s)
	}
	if strings.Contains(s, "<title>") {
		t.Fatalf("unexpected title in output:\n%s", s)
	}
}

func TestTranscribeConcurrentUseOfPool(t *testing.T) {
	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				out, err := TranscribeBytes([]byte("# t\n\n_a_ *b* [u](l)"))
				if err != nil {
					done <- err
					return
				}
				if !bytes.Contains(out, []byte("<h1>t</h1>")) {
					done <- errors.New("bad output: " + string(out))
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
