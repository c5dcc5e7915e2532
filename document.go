package samup

import (
	"html"
	"io"
)

// DefaultStylesheet is embedded by WithDocument when no stylesheet is
// supplied. It styles the footnote fragments the engine emits.
const DefaultStylesheet = `body { max-width: 42em; margin: 2em auto; padding: 0 1em; font-family: serif; line-height: 1.5; }
p.footnote { font-size: smaller; border-top: 1px solid #ccc; padding-top: 0.5em; }
span.footnote { font-weight: bold; margin-right: 0.25em; }`

func writeDocumentHead(w io.Writer, title, stylesheet string) error {
	if stylesheet == "" {
		stylesheet = DefaultStylesheet
	}
	if err := writeStr(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if title != "" {
		if err := writeStr(w, "<title>"+html.EscapeString(title)+"</title>\n"); err != nil {
			return err
		}
	}
	if err := writeStr(w, "<style>\n"+stylesheet+"\n</style>\n"); err != nil {
		return err
	}
	return writeStr(w, "</head>\n<body>\n")
}

func writeDocumentFoot(w io.Writer) error {
	return writeStr(w, "\n</body>\n</html>\n")
}
