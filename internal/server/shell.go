package server

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Its-donkey/apex/internal/ui/router"
)

// Element IDs the UI looks up in the document shell.
const (
	ContentRootID = "app"
	OpenBlankID   = "open-blank"
)

// ShellError lists what the document shell is missing.
type ShellError struct {
	Problems []string
}

func (e *ShellError) Error() string {
	return "document shell: " + strings.Join(e.Problems, "; ")
}

// VerifyShell checks that the HTML in r carries the elements the UI binds to:
// the content root, the open-blank trigger and every navigation link with
// its expected href.
func VerifyShell(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse shell: %w", err)
	}

	var problems []string
	for _, id := range []string{ContentRootID, OpenBlankID} {
		if doc.Find("#"+id).Length() == 0 {
			problems = append(problems, fmt.Sprintf("missing #%s", id))
		}
	}
	for _, link := range router.NavLinks() {
		sel := doc.Find("a#" + link.ID)
		if sel.Length() == 0 {
			problems = append(problems, fmt.Sprintf("missing a#%s", link.ID))
			continue
		}
		if href := sel.AttrOr("href", ""); href != link.Href {
			problems = append(problems, fmt.Sprintf("a#%s href %q, want %q", link.ID, href, link.Href))
		}
	}
	if len(problems) > 0 {
		return &ShellError{Problems: problems}
	}
	return nil
}

// VerifyShellFile runs VerifyShell on the file at path.
func VerifyShellFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open shell: %w", err)
	}
	defer f.Close()
	return VerifyShell(f)
}
