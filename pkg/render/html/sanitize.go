package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// sanitizeRichText strips unsafe markup from values rendered without
// escaping. Only textarea-typed item values take this path; everything else
// goes through the template engine's autoescaping.
func sanitizeRichText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(richTextSanitizer().Sanitize(trimmed))
}

func richTextSanitizer() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		richTextPolicy = bluemonday.UGCPolicy()
	})
	return richTextPolicy
}
