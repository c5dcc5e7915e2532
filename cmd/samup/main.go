package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/samup"
	"pkt.systems/version"
)

const defaultWrapWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/samup")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		outPath    string
		configPath string
		document   bool
		title      string
		cssPath    string
		validate   bool
		wrapCol    int
		verbose    bool
		showVer    bool
	)
	flags := pflag.NewFlagSet("samup", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringVarP(&configPath, "config", "c", "", "Config file (YAML), default ~/.config/samup/config.yaml")
	flags.BoolVarP(&document, "document", "d", false, "Emit a standalone HTML document instead of a fragment")
	flags.StringVarP(&title, "title", "t", "", "Document title (implies --document)")
	flags.StringVar(&cssPath, "stylesheet", "", "Stylesheet file to embed in the document head")
	flags.BoolVar(&validate, "validate", false, "Reject input that is not UTF-8 or looks binary")
	flags.IntVarP(&wrapCol, "wrap", "w", 0, "Wrap output at column (0 disables, negative uses terminal width)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	flags.BoolVarP(&showVer, "version", "V", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintln(stderr, "Usage: samup [flags] [inputs...]")
		fmt.Fprintln(stderr, "\nInputs are files or http(s) URLs; with none, markup is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if showVer {
		fmt.Fprintln(stdout, version.Current())
		return 0
	}
	logger := log.NewWithOptions(stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		return 1
	}
	if !flags.Changed("wrap") && cfg.Wrap != 0 {
		wrapCol = cfg.Wrap
	}
	if !flags.Changed("validate") && cfg.Validate {
		validate = true
	}
	if !flags.Changed("document") && cfg.Document {
		document = true
	}
	if !flags.Changed("title") && cfg.Title != "" {
		title = cfg.Title
	}
	if !flags.Changed("stylesheet") && cfg.Stylesheet != "" {
		cssPath = cfg.Stylesheet
	}
	if title != "" {
		document = true
	}

	reader, closeIn, err := openInputs(flags.Args(), stdin)
	if err != nil {
		logger.Error("open input", "err", err)
		return 1
	}
	if closeIn != nil {
		defer func() { _ = closeIn.Close() }()
	}
	writer, closeOut, err := resolveOutput(outPath, stdout)
	if err != nil {
		logger.Error("open output", "err", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	var opts []samup.Option
	if validate {
		opts = append(opts, samup.WithValidation(true))
	}
	if document {
		opts = append(opts, samup.WithDocument(title))
	}
	if cssPath != "" {
		css, err := os.ReadFile(normalizePath(cssPath))
		if err != nil {
			logger.Error("read stylesheet", "err", err)
			return 1
		}
		opts = append(opts, samup.WithStylesheet(string(css)))
	}
	if wrapCol < 0 {
		wrapCol = terminalWidth(stdout, defaultWrapWidth)
	}

	start := time.Now()
	if wrapCol > 0 {
		var buf bytes.Buffer
		err = samup.Transcribe(samup.TranscribeRequest{Reader: reader, Writer: &buf, Options: opts})
		if err == nil {
			_, err = io.WriteString(writer, wordwrap.String(buf.String(), wrapCol))
		}
	} else {
		err = samup.Transcribe(samup.TranscribeRequest{Reader: reader, Writer: writer, Options: opts})
	}
	if err != nil {
		logger.Error("transcribe", "err", err)
		return 1
	}
	logger.Debug("transcribed", "duration", time.Since(start))
	return 0
}

// multiReader concatenates lazily opened inputs so that a long list of
// files or URLs streams without holding more than one open at a time.
type multiReader struct {
	open   []func() (io.ReadCloser, error)
	cur    io.ReadCloser
	closed bool
}

func (m *multiReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if len(m.open) == 0 {
				m.closed = true
				return 0, io.EOF
			}
			rc, err := m.open[0]()
			if err != nil {
				return 0, err
			}
			m.open = m.open[1:]
			m.cur = rc
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			_ = m.cur.Close()
			m.cur = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiReader) Close() error {
	m.closed = true
	if m.cur != nil {
		return m.cur.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	mr := &multiReader{}
	for _, raw := range args {
		opener, err := makeOpener(raw, stdin)
		if err != nil {
			return nil, nil, err
		}
		mr.open = append(mr.open, opener)
	}
	return mr, mr, nil
}

func makeOpener(raw string, stdin io.Reader) (func() (io.ReadCloser, error), error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return func() (io.ReadCloser, error) {
			return io.NopCloser(stdin), nil
		}, nil
	}
	if u, err := url.Parse(raw); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return func() (io.ReadCloser, error) {
				return openURL(raw)
			}, nil
		}
	}
	clean := normalizePath(raw)
	if _, err := os.Stat(clean); err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return os.Open(clean)
	}, nil
}

func openURL(raw string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	if dir := filepath.Dir(clean); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}
