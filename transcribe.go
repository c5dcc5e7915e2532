package samup

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

var transcriberPool = sync.Pool{
	New: func() any {
		return newTranscriber(io.Discard)
	},
}

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

var writerPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 4096)
	},
}

var configPool = sync.Pool{
	New: func() any {
		return &config{}
	},
}

// TranscribeRequest configures Transcribe.
type TranscribeRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Options []Option
}

// Transcribe converts markup read from Reader into HTML written to
// Writer, in a single forward pass. Output already written stands even
// when an error is returned.
func Transcribe(req TranscribeRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("transcribe: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("transcribe: writer is nil")
	}
	cfg := configPool.Get().(*config)
	*cfg = config{}
	for _, opt := range req.Options {
		if opt != nil {
			opt(cfg)
		}
	}
	cfgVal := *cfg
	configPool.Put(cfg)
	reader := readerPool.Get().(*bufio.Reader)
	writer := writerPool.Get().(*bufio.Writer)
	eng := transcriberPool.Get().(*transcriber)
	reader.Reset(req.Reader)
	writer.Reset(req.Writer)
	eng.reset(writer)
	err := transcode(eng, reader, writer, cfgVal)
	eng.reset(io.Discard)
	writer.Reset(io.Discard)
	transcriberPool.Put(eng)
	writerPool.Put(writer)
	readerPool.Put(reader)
	return err
}

// TranscribeBytes converts a markup document held in memory and returns
// the HTML.
func TranscribeBytes(src []byte, opts ...Option) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(src) + len(src)/4)
	err := Transcribe(TranscribeRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &out,
		Options: opts,
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func transcode(eng *transcriber, r *bufio.Reader, w *bufio.Writer, cfg config) error {
	if cfg.document {
		if err := writeDocumentHead(w, cfg.title, cfg.stylesheet); err != nil {
			return fmt.Errorf("transcribe: %w", err)
		}
	}
	var val validator
	var tail [utf8.UTFMax]byte
	tailLen := 0
	var buf [4096]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			chunk := buf[:n]
			if cfg.validate {
				var verr error
				tailLen, verr = feedValidator(&val, &tail, tailLen, chunk)
				if verr != nil {
					return fmt.Errorf("transcribe: %w", verr)
				}
			}
			for _, b := range chunk {
				if err := eng.step(b); err != nil {
					return fmt.Errorf("transcribe: %w", err)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("transcribe: read: %w", err)
		}
	}
	if cfg.validate && tailLen > 0 {
		return fmt.Errorf("transcribe: %w", ErrInvalidUTF8)
	}
	if err := eng.finish(); err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if cfg.document {
		if err := writeDocumentFoot(w); err != nil {
			return fmt.Errorf("transcribe: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("transcribe: flush: %w", err)
	}
	return nil
}

// feedValidator runs the UTF-8/binary check over one chunk, carrying the
// bytes of a rune split across chunk boundaries in tail.
func feedValidator(v *validator, tail *[utf8.UTFMax]byte, tailLen int, chunk []byte) (int, error) {
	for tailLen > 0 && len(chunk) > 0 {
		tail[tailLen] = chunk[0]
		tailLen++
		chunk = chunk[1:]
		if utf8.FullRune(tail[:tailLen]) {
			r, size := utf8.DecodeRune(tail[:tailLen])
			if err := v.addRune(r, size); err != nil {
				return 0, err
			}
			tailLen = copy(tail[:], tail[size:tailLen])
		} else if tailLen == utf8.UTFMax {
			return 0, ErrInvalidUTF8
		}
	}
	rest, err := v.addBytes(chunk)
	if err != nil {
		return 0, err
	}
	return copy(tail[:], rest), nil
}
