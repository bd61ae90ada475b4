package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/slimeboard/internal/sanitize"
)

func TestForXSS(t *testing.T) {
	tests := map[string]struct {
		text    string
		expText string
	}{
		"Script blocks should be removed": {
			text:    `<script>alert("x")</script>Hello`,
			expText: "Hello",
		},

		"Script blocks should be removed regardless of case and new lines": {
			text:    "a<SCRIPT type=\"text/javascript\">\nalert(1)\n</ScRiPt>b",
			expText: "ab",
		},

		"Script blocks should be removed non greedy": {
			text:    "<script>x</script>keep<script>y</script>",
			expText: "keep",
		},

		"The javascript protocol should be removed leaving the rest": {
			text:    "javascript:alert(1)",
			expText: "alert(1)",
		},

		"The javascript protocol should be removed regardless of case": {
			text:    `<a href="JavaScript:go()">x</a>`,
			expText: `<a href="go()">x</a>`,
		},

		"Double quoted event handlers should be removed": {
			text:    `<img onload="alert('XSS')" src="image.jpg">Safe content`,
			expText: `<img  src="image.jpg">Safe content`,
		},

		"Single quoted event handlers should be removed": {
			text:    `<div onClick='steal()'>hi</div>`,
			expText: `<div >hi</div>`,
		},

		"Eval calls should lose the identifier and the parenthesis": {
			text:    `eval("malicious code")Normal text`,
			expText: `"malicious code")Normal text`,
		},

		"Timer and Function calls should lose the identifier and the parenthesis": {
			text:    `setTimeout (a); setInterval(b); new Function(c)`,
			expText: `a); b); new c)`,
		},

		"Safe content should be preserved": {
			text:    "This is safe content with numbers 123 and symbols !@#$%",
			expText: "This is safe content with numbers 123 and symbols !@#$%",
		},

		"Words containing the function names should be preserved": {
			text:    "medieval(ish) evaluation",
			expText: "medieval(ish) evaluation",
		},

		"Empty text should stay empty": {
			text:    "",
			expText: "",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(test.expText, sanitize.ForXSS(test.text))
			// Memoized result must be the same.
			assert.Equal(test.expText, sanitize.ForXSS(test.text))
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := map[string]struct {
		text    string
		expText string
	}{
		"Tags should be removed keeping the content": {
			text:    "<b>bold</b> and <i class=\"x\">italic</i>",
			expText: "bold and italic",
		},
		"Text without tags should be preserved": {
			text:    "2 > 1 is true",
			expText: "2 > 1 is true",
		},
		"Unclosed tags should be kept": {
			text:    "a < b",
			expText: "a < b",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expText, sanitize.StripTags(test.text))
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;&#x2F;x&quot;&gt;Tom &amp; Jerry&#x27;s&lt;&#x2F;a&gt;", sanitize.EscapeHTML(`<a href="/x">Tom & Jerry's</a>`))
}

func TestNonStringValues(t *testing.T) {
	tests := map[string]struct {
		value any
	}{
		"Nil":     {value: nil},
		"Number":  {value: 123},
		"Float":   {value: 1.5},
		"Boolean": {value: true},
		"Object":  {value: map[string]any{"a": "b"}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal("", sanitize.ForXSSValue(test.value))
			assert.Equal("", sanitize.StripTagsValue(test.value))
			assert.Equal("", sanitize.Template(test.value))
		})
	}
}
