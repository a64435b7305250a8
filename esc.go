//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Escaping of wiki text for Markdown and HTML output.
//

package wiki2gfm

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var htmlEntityReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeHTMLEntities escapes the characters that are unsafe inside HTML
// text content. Quotes are left alone.
func escapeHTMLEntities(text string) string {
	return htmlEntityReplacer.Replace(text)
}

// escapeMarkdown escapes wiki text so it renders as plain text in
// Markdown. Format characters are backslash-escaped, and anything shaped
// like a plugin tag gets its angle brackets turned into entities so GitHub
// does not treat it as HTML.
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", `\*`)
	text = strings.ReplaceAll(text, "_", `\_`)

	for _, re := range []*regexp2.Regexp{pluginRe, pluginEndRe} {
		text = escapeTagMatches(re, text)
	}

	// A newline preceded by two spaces breaks the line in Markdown but
	// not in wiki text, so such endings are stripped off.
	for strings.HasSuffix(text, "  \n") {
		text = text[:len(text)-len("  \n")] + "\n"
	}

	return text
}

func escapeTagMatches(re *regexp2.Regexp, text string) string {
	for {
		m, _ := re.FindStringMatch(text)
		if m == nil {
			return text
		}
		// regexp2 indices are rune offsets.
		runes := []rune(text)
		escaped := strings.ReplaceAll(m.String(), "<", "&lt;")
		escaped = strings.ReplaceAll(escaped, ">", "&gt;")
		text = string(runes[:m.Index]) + escaped + string(runes[m.Index+m.Length:])
	}
}
