package projection

import (
	"fmt"

	"github.com/five82/promptdeck/internal/catalog"
)

const (
	shareBodyLimit = 100
	shareHashtag   = "#AcademicAIPrompts"
)

// ShareText formats an entry for pasting into a post.
func ShareText(entry catalog.Entry, lang, link string) string {
	body := []rune(entry.Body(lang))
	if len(body) > shareBodyLimit {
		body = body[:shareBodyLimit]
	}
	return fmt.Sprintf("【%s】\n%s...\n\n%s\n%s", entry.Title(lang), string(body), shareHashtag, link)
}
