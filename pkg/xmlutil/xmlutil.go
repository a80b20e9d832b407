// Package xmlutil provides XML escaping utilities for prompt injection prevention.
package xmlutil

import (
	"encoding/xml"
	"strings"
)

// Escape replaces characters with special meaning in XML so user text cannot
// close or open tags in an XML-delimited prompt. Newlines are escaped too and
// invalid UTF-8 becomes U+FFFD.
func Escape(s string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		// strings.Builder never fails a write.
		return s
	}
	return buf.String()
}

// Element renders <name>escaped content</name>. Line breaks in content are
// kept so multi-line listings stay readable.
func Element(name, content string) string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = Escape(l)
	}
	return "<" + name + ">" + strings.Join(lines, "\n") + "</" + name + ">"
}
