// Package sanitize strips script injection patterns from user entered text.
//
// These are pattern level mitigations, not an HTML parser: [ForXSS] is applied to
// everything that is stored and [StripTags] to values inserted into generated text.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRe   = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	jsProtocolRe    = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerDQ  = regexp.MustCompile(`(?i)\bon\w+\s*=\s*"[^"]*"`)
	eventHandlerSQ  = regexp.MustCompile(`(?i)\bon\w+\s*=\s*'[^']*'`)
	dangerousCallRe = regexp.MustCompile(`(?i)\b(eval|Function|setTimeout|setInterval)\s*\(`)
	tagRe           = regexp.MustCompile(`<[^>]*>`)
)

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// defaultCache memoizes ForXSS results.
var defaultCache = newFIFOCache(DefaultCacheSize)

// ForXSS removes script blocks, `javascript:` prefixes, inline event handler
// attributes and calls to eval, Function, setTimeout and setInterval.
func ForXSS(text string) string {
	if text == "" {
		return ""
	}
	if v, ok := defaultCache.get(text); ok {
		return v
	}

	sanitized := forXSS(text)
	defaultCache.put(text, sanitized)

	return sanitized
}

func forXSS(text string) string {
	s := scriptBlockRe.ReplaceAllString(text, "")
	s = jsProtocolRe.ReplaceAllString(s, "")
	s = eventHandlerDQ.ReplaceAllString(s, "")
	s = eventHandlerSQ.ReplaceAllString(s, "")
	s = dangerousCallRe.ReplaceAllString(s, "")
	return s
}

// StripTags removes every HTML tag.
func StripTags(text string) string {
	return tagRe.ReplaceAllString(text, "")
}

// EscapeHTML escapes the HTML special characters.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// ForXSSValue is ForXSS for decoded values, anything that is not a string yields "".
func ForXSSValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return ForXSS(s)
}

// StripTagsValue is StripTags for decoded values, anything that is not a string yields "".
func StripTagsValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return StripTags(s)
}
