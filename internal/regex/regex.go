package regex

import "regexp"

var (
	// MermaidBlock matches a ```mermaid fence on its own line up to the next
	// closing fence; group 1 is the diagram body.
	MermaidBlock = regexp.MustCompile("(?s)```mermaid[ \\t]*\\r?\\n(.*?)```")

	// OuterMarkdownFence matches a whole document wrapped in a ```markdown
	// (or ```md) fence; group 1 is the document.
	OuterMarkdownFence = regexp.MustCompile("(?s)\\A\\s*```(?:markdown|md)[ \\t]*\\r?\\n(.*?)\\r?\\n```\\s*\\z")
)
