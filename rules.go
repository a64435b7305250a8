//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Rule tables for line-level and inline matching.
//
// The wiki grammar is lookaround-heavy (format characters match only next
// to an authorized delimiter, table cells assert their own terminator), so
// the rules are kept as one priority-ordered alternation compiled with
// regexp2 rather than being broken apart into RE2-compatible pieces. The
// order of the alternatives is load-bearing: the first listed rule wins at
// each scan position, exactly as the legacy wiki parser behaved.
//

package wiki2gfm

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Pragma lines sit at the very top of a page: #summary, #labels, #sidebar.
// Anything else shaped like a pragma is consumed and reported as ignored.
var pragmaRe = regexp2.MustCompile(`^#(?<type>\w+)(?<value>.*)$`, 0)

// Code block fences consume whole lines on their own.
const (
	startCodeBlock = "{{{"
	endCodeBlock   = "}}}"
)

const (
	urlSchemes    = `(https?|ftp|nntp|news|mailto|telnet|file|irc)`
	optionalDesc  = `(?:\s+[^\]]+)?`
	validPageName = `(([A-Za-z0-9][A-Za-z0-9_]*)?[A-Za-z0-9])`

	// Link anchors use the Fragment ID pattern from RFC 1630, quotes
	// dropped for security considerations.
	xalpha = `[A-Za-z0-9%$-_@.&!*\(\),]`

	pluginName  = `[a-zA-Z0-9_\-]+`
	pluginID    = `(` + pluginName + `:)?` + pluginName
	pluginParam = `(` + pluginName + `)\s*=\s*("[^"]*"|'[^']*'|\S+)`
	pluginTag   = `<` + pluginID + `(?:\s+` + pluginParam + `)*\s*/?>`
	pluginEnd   = `</` + pluginID + `>`
)

// Only WikiWords matching this pattern are detected and autolinked in text.
const wikiWordAutolink = `(?:[A-Z][a-z0-9]+_*)+(?:[A-Z][a-z0-9]+)(?:[#]` + xalpha + `*?)?`

// The bracketed form is more permissive than the autolinked one.
const wikiWord = `(?:` + validPageName + `?(?:[#]` + xalpha + `*?)?)`

var (
	pluginIDRe    = regexp2.MustCompile(`^`+pluginID, 0)
	pluginParamRe = regexp2.MustCompile(pluginParam, 0)
	pluginRe      = regexp2.MustCompile(pluginTag, 0)
	pluginEndRe   = regexp2.MustCompile(pluginEnd, 0)

	youtubeVideoIDRe = regexp2.MustCompile(`^[a-zA-Z0-9_-]+$`, 0)
)

// simpleFormat builds the rule for a toggling format character: it matches
// the character when preceded or followed by an authorized delimiter, or at
// the start or end of a line.
func simpleFormat(name, char string) string {
	return fmt.Sprintf(`(?<%[1]s>(?:(?<=\W|_)%[2]s)|(?:%[2]s(?=\W|_))|(?:^%[2]s)|(?:%[2]s$))`, name, char)
}

// A rule pairs a name with its pattern and the converter method that
// handles a match. Handlers receive the text captured by the rule's named
// group, which for some rules (superscript, inline code, variables) is the
// interior of the construct rather than the full match.
type rule struct {
	name    string
	pattern string
	handle  func(c *converter, line int, match string)
}

// Line rules consume an entire trimmed line and are tried before any
// inline rule gets a look at it.
var lineRules = []rule{
	{"HRule", `(?<HRule>^----+$)`, (*converter).handleHRule},
	{"Heading", `(?<Heading>^=+\s*.*\s*=+\s*$)`, (*converter).handleHeading},
}

// Inline rules are matched leftmost-first across a line fragment. Do not
// reorder: the relative priority decides, for example, that a table cell
// marker beats the bold marker it starts with.
//
// Assigned in init: some handlers (table cells) rescan their contents
// through inlineRules, so a variable initializer would be cyclic.
var inlineRules []rule

func init() {
	inlineRules = []rule{
		{"Bold", simpleFormat("Bold", `\*`), (*converter).handleBold},
		{"Italic", simpleFormat("Italic", `_`), (*converter).handleItalic},
		{"Strikethrough", simpleFormat("Strikethrough", `~~`), (*converter).handleStrikethrough},
		{"Superscript", `\^(?<Superscript>.+?)\^`, (*converter).handleSuperscript},
		{"Subscript", `,,(?<Subscript>.+?),,`, (*converter).handleSubscript},
		{"InlineCode", "`(?<InlineCode>.+?)`", (*converter).handleInlineCode},
		{"InlineCode2", `\{\{\{(?<InlineCode2>.+?)\}\}\}`, (*converter).handleInlineCode},
		// An entire table cell; any number of leading start markers to
		// support spans, with an assertion that another cell follows.
		{"TableCell", `(?<TableCell>(?:\|\|)+.*?(?=\|\|))`, (*converter).handleTableCell},
		{"TableRowEnd", `(?<TableRowEnd>\|\|\s*$)`, (*converter).handleTableRowEnd},
		// A freestanding URL: a supported schema, then at least one URL
		// character, ending before anything that looks like a terminator.
		{"Url", `(?<Url>\b(?:` + urlSchemes + `://|(mailto:))[^\s'"<]+[^\s'"<.,})\]]+)`, (*converter).handleURL},
		{"UrlBracket", `(?<UrlBracket>\[(?:` + urlSchemes + `://|(mailto:))[^\]\s]+` + optionalDesc + `\])`, (*converter).handleURLBracket},
		// A WikiWord embedded in text, not adjacent to other word characters
		// or a bracket. The optional leading ! suppresses the link but still
		// has to be matched so it can be stripped from the plain text.
		{"WikiWord", `(?:(?<![A-Za-z0-9\[])(?<WikiWord>!?` + wikiWordAutolink + `)(?![A-Za-z0-9]))`, (*converter).handleWikiWord},
		{"WikiWordBracket", `(?<WikiWordBracket>\[` + wikiWord + optionalDesc + `\])`, (*converter).handleWikiWordBracket},
		{"IssueLink", `(?<IssueLink>(\b([Ii][Ss][Ss][Uu][Ee]|[Bb][Uu][Gg])\s*\#?)\d+\b)`, (*converter).handleIssueLink},
		{"RevisionLink", `(?<RevisionLink>(\b[Rr]([Ee][Vv][Ii][Ss][Ii][Oo][Nn]\s*\#?)?)\d+\b)`, (*converter).handleRevisionLink},
		{"Plugin", `(?<Plugin>` + pluginTag + `)`, (*converter).handlePlugin},
		{"PluginEnd", `(?<PluginEnd>` + pluginEnd + `)`, (*converter).handlePluginEnd},
		{"Variable", `%%(?<Variable>[\w|_|\-]+)%%`, (*converter).handleVariable},
	}
}

// Compiled in init: the rule handlers recurse into these combined
// patterns (headings and table cells rescan their contents), so wiring
// them up in the variable initializers would be cyclic.
var (
	lineFormatRe *regexp2.Regexp
	textFormatRe *regexp2.Regexp
)

func init() {
	lineFormatRe = compileRules(lineRules)
	textFormatRe = compileRules(inlineRules)
}

func compileRules(rules []rule) *regexp2.Regexp {
	patterns := make([]string, len(rules))
	for i, r := range rules {
		patterns[i] = r.pattern
	}
	return regexp2.MustCompile(strings.Join(patterns, "|"), 0)
}

// groupText returns the text captured by the named group, and whether the
// group participated in the match at all.
func groupText(m *regexp2.Match, name string) (string, bool) {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.Captures[len(g.Captures)-1].String(), true
}

// matchPluginID extracts the leading namespace-qualified identifier from
// the inside of a plugin tag.
func matchPluginID(core string) string {
	m, _ := pluginIDRe.FindStringMatch(core)
	if m == nil {
		return ""
	}
	return m.String()
}

// List item classification by marker character. Only a literal '1' (not
// any digit) or '#' starts a numbered item; everything else that is
// indented becomes a blockquote, matching the legacy parser.
func listKindFor(marker rune) listKind {
	switch marker {
	case '1', '#':
		return listNumeric
	case '*':
		return listBullet
	}
	return listBlockquote
}
