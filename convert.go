//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Conversion driver.
//
// The converter walks the input line by line, maintaining the block
// state (code blocks, lists, tables, open format tags, plugin stack) and
// dispatching regex matches to their handlers in the same priority order
// as Google Code's wiki parser.
//

package wiki2gfm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

type indentLevel struct {
	pos  int
	kind listKind
}

type converter struct {
	pragmas   *pragmaHandler
	render    *emitter
	warn      func(line int, message string)
	wikiPages map[string]bool

	codeBlockDepth int      // how many code block openings are active
	codeBlockLines []string // collected raw lines of the current code block
	indents        []indentLevel
	openTags       []string // open toggling tags, like Bold or Italic
	tableColumns   []int    // column widths, taken from the header row
	tableColumn    int      // current body column, or zero in the header
	pluginStack    []pluginInfo
}

func (c *converter) convert(input string) {
	lines := splitLines(input)
	line := 1

	// Pragmas must be placed at the top of the file.
	line = c.extractPragmas(line, lines)

	// Ignore any vertical whitespace before the main text.
	line = c.moveToMain(line, lines)

	line = c.processBody(line, lines)

	// Done, but sanity check the amount of input processed.
	if remaining := len(lines) - line + 1; remaining != 0 {
		c.warn(line, fmt.Sprintf(
			"Processing completed, but not all lines were processed. "+
				"Remaining lines: %d.", remaining))
	}
}

// splitLines splits input into lines, each keeping its trailing newline.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

func (c *converter) extractPragmas(line int, lines []string) int {
	for _, raw := range lines[line-1:] {
		m, _ := pragmaRe.FindStringMatch(raw)
		if m == nil {
			// Found all the pragmas.
			break
		}

		pragmaType, _ := groupText(m, "type")
		pragmaValue, _ := groupText(m, "value")
		c.pragmas.handle(line, strings.TrimSpace(pragmaType), strings.TrimSpace(pragmaValue))

		line++
	}
	return line
}

func (c *converter) moveToMain(line int, lines []string) int {
	for _, raw := range lines[line-1:] {
		if strings.TrimSpace(raw) != "" {
			break
		}
		line++
	}
	return line
}

func (c *converter) processBody(line int, lines []string) int {
	first := true
	for _, raw := range lines[line-1:] {
		c.processLine(first, line, raw)
		line++
		first = false
	}

	if c.codeBlockDepth > 0 {
		// Forgotten code block ending, close it implicitly.
		c.render.escapedText(line, "\n")
		c.render.codeBlockOpen(line, "")
		c.render.text(line, strings.Join(c.codeBlockLines, ""))
		c.render.codeBlockClose(line)
	}

	return line
}

func (c *converter) processLine(first bool, line int, raw string) {
	stripped := strings.TrimSpace(raw)

	if stripped == startCodeBlock {
		if c.codeBlockDepth == 0 {
			// Start a new collection of lines.
			c.codeBlockLines = nil
		} else {
			// Just an embedded code block.
			c.codeBlockLines = append(c.codeBlockLines, raw)
		}
		c.codeBlockDepth++
		return
	}

	if stripped == endCodeBlock {
		if c.codeBlockDepth > 0 {
			c.codeBlockDepth--
			if c.codeBlockDepth == 0 {
				// Closed the outermost code block, emit it.
				c.render.escapedText(line, "\n")
				c.render.codeBlockOpen(line, "")
				c.render.text(line, strings.Join(c.codeBlockLines, ""))
				c.render.codeBlockClose(line)
			} else {
				c.codeBlockLines = append(c.codeBlockLines, raw)
			}
			return
		}
		// An ending with no opening stays in the text as-is, or the
		// rest of the document would be swallowed as code.
		c.warn(line, "Unmatched code block ending was found and rendered as plain text.")
	}

	// Inside a code block the raw text is collected untouched.
	if c.codeBlockDepth != 0 {
		c.codeBlockLines = append(c.codeBlockLines, raw)
		return
	}

	// Empty lines close all formatting.
	if stripped == "" {
		if !c.consumeTextForPlugin() {
			c.setCurrentList(line, 0, listBlockquote)
			c.closeAllTags(line)

			if len(c.tableColumns) > 0 {
				c.render.tableClose(line)
			}
			c.tableColumns = nil
			c.tableColumn = 0
		}
		c.render.paragraphBreak(line)
		return
	}

	// Non-empty line, finish the previous line's newline.
	if !first {
		c.render.escapedText(line, "\n")
	}

	// Check if we're processing within a list.
	runes := []rune(raw)
	indentPos := 0
	for indentPos < len(runes) && unicode.IsSpace(runes[indentPos]) {
		indentPos++
	}
	if indentPos > 0 && indentPos < len(runes) && !c.consumeTextForPlugin() {
		kind := listKindFor(runes[indentPos])

		if c.setCurrentList(line, indentPos, kind) {
			// Blockquotes take the entire remainder of the line;
			// everything else skips the list symbol plus the space
			// after. In case there is no space after, the next
			// character is removed instead, with a warning, as that
			// was probably unintended.
			if kind == listBlockquote {
				raw = string(runes[indentPos:])
			} else if indentPos+2 <= len(runes) {
				if runes[indentPos+1] != ' ' {
					c.warn(line, fmt.Sprintf(
						"Missing space after list symbol: %c, "+
							"'%c' was removed instead.",
						runes[indentPos], runes[indentPos+1]))
				}
				raw = string(runes[indentPos+2:])
			} else {
				raw = ""
			}
			stripped = strings.TrimSpace(raw)
		} else {
			// Reset to no indent.
			c.setCurrentList(line, 0, listBlockquote)
		}
	}

	// Finally, split the line into formatting primitives. This is done
	// on the stripped line so line breaks across tags are caught.
	if ok, _ := lineFormatRe.MatchString(stripped); ok {
		c.processMatch(line, lineFormatRe, lineRules, stripped)
	} else {
		c.processMatch(line, textFormatRe, inlineRules, stripped)
	}

	c.closeTableRow(line)
}

// setCurrentList adjusts the list nesting to the given indentation,
// closing and opening lists as needed. It reports whether the current
// line is a list item.
func (c *converter) setCurrentList(line, indentPos int, kind listKind) bool {
	// Pop and close lists until one at the current position and kind
	// is on top.
	for len(c.indents) > 0 && c.indents[len(c.indents)-1].pos >= indentPos {
		top := c.indents[len(c.indents)-1]
		if top.pos == indentPos && top.kind == kind {
			break
		}
		c.render.listClose(line)
		c.indents = c.indents[:len(c.indents)-1]
	}

	// If everything was just popped off, this is not a list.
	if indentPos == 0 {
		return false
	}

	if len(c.indents) == 0 || indentPos >= c.indents[len(c.indents)-1].pos {
		// Add a new indentation if this is the first item overall, or
		// the first item at this position.
		if len(c.indents) == 0 || indentPos > c.indents[len(c.indents)-1].pos {
			c.indents = append(c.indents, indentLevel{pos: indentPos, kind: kind})
		}

		level := len(c.indents)
		switch kind {
		case listNumeric:
			c.render.numericListOpen(line, level)
		case listBullet:
			c.render.bulletListOpen(line, level)
		case listBlockquote:
			c.render.blockquoteOpen(line, level)
		}
	}

	return true
}

func (c *converter) openTag(line int, tag string) {
	if st, ok := spanTags[tag]; ok {
		st.open(c.render, line)
	} else {
		c.warn(line, fmt.Sprintf("Bad open tag: '%s'", tag))
	}
	c.openTags = append(c.openTags, tag)
}

func (c *converter) closeTag(line int, tag string) {
	if st, ok := spanTags[tag]; ok {
		st.close(c.render, line)
	} else {
		c.warn(line, fmt.Sprintf("Bad close tag: '%s'", tag))
	}
	for i, open := range c.openTags {
		if open == tag {
			c.openTags = append(c.openTags[:i], c.openTags[i+1:]...)
			break
		}
	}
}

// closeAllTags closes every open tag, innermost first, so nested format
// buffers unwind in the right order.
func (c *converter) closeAllTags(line int) {
	for len(c.openTags) > 0 {
		c.closeTag(line, c.openTags[len(c.openTags)-1])
	}
}

// toggleTag opens the tag if it is not open, and closes it otherwise.
func (c *converter) toggleTag(line int, tag string) {
	open := false
	for _, t := range c.openTags {
		if t == tag {
			open = true
			break
		}
	}
	if open {
		c.closeTag(line, tag)
	} else {
		c.openTag(line, tag)
	}
}

func (c *converter) closeTableRow(line int) {
	if len(c.tableColumns) == 0 {
		return
	}
	if c.tableColumn != 1 {
		c.render.tableRowEnd(line)
	}

	// Check if the header row just finished.
	if c.tableColumn == 0 {
		c.render.tableHeader(line, c.tableColumns)
	}

	// In a table body, the current column starts at 1.
	c.tableColumn = 1
}

// consumeTextForPlugin reports whether the innermost plugin consumes its
// content as raw text.
func (c *converter) consumeTextForPlugin() bool {
	return len(c.pluginStack) > 0 && rawPlugins[c.pluginStack[len(c.pluginStack)-1].id]
}

// processMatch scans text with the given rule table, dispatching matches
// in table order and emitting the text between matches.
func (c *converter) processMatch(line int, re *regexp2.Regexp, rules []rule, text string) {
	runes := []rune(text)
	lastPos := 0

	m, _ := re.FindStringMatch(text)
	for m != nil {
		// Text before the match is regular text.
		if lastPos < m.Index {
			c.emitText(line, string(runes[lastPos:m.Index]))
		}

		for _, r := range rules {
			match, ok := groupText(m, r.name)
			if !ok {
				continue
			}
			if c.consumeTextForPlugin() && r.name != "PluginEnd" {
				// Raw consumption keeps the whole matched substring;
				// some rules capture only the interior of their markup.
				c.render.text(line, m.String())
			} else {
				r.handle(c, line, match)
			}
		}

		lastPos = m.Index + m.Length
		m, _ = re.FindNextMatch(m)
	}

	// The remainder of the line is regular text.
	if lastPos < len(runes) {
		c.emitText(line, string(runes[lastPos:]))
	}
}

func (c *converter) emitText(line int, text string) {
	if c.consumeTextForPlugin() {
		c.render.text(line, text)
	} else {
		c.render.escapedText(line, text)
	}
}

func (c *converter) handleHeading(line int, match string) {
	runes := []rune(strings.TrimSpace(match))

	left := 0
	for left < len(runes) && runes[left] == '=' {
		left++
	}
	right := 0
	for right < len(runes) && runes[len(runes)-1-right] == '=' {
		right++
	}

	// Authors often forget to put the same number of equals signs on
	// both sides. Rather than erroring out, the level is the count on
	// the left side. Above six the header is invalid and the contents
	// are rendered as if no header markup were given.
	level := left
	if level > 6 {
		level = 0
	}

	var heading string
	if start, end := left, len(runes)-right; start < end {
		heading = strings.TrimSpace(string(runes[start:end]))
	}

	if level > 0 {
		c.render.headerOpen(line, level)
	}
	c.processMatch(line, textFormatRe, inlineRules, heading)
	if level > 0 {
		c.render.headerClose(line, level)
	}
}

func (c *converter) handleHRule(line int, match string) {
	c.render.hrule(line)
}

func (c *converter) handleBold(line int, match string) {
	c.toggleTag(line, "Bold")
}

func (c *converter) handleItalic(line int, match string) {
	c.toggleTag(line, "Italic")
}

func (c *converter) handleStrikethrough(line int, match string) {
	c.toggleTag(line, "Strikethrough")
}

func (c *converter) handleSuperscript(line int, match string) {
	c.render.superscript(line, match)
}

func (c *converter) handleSubscript(line int, match string) {
	c.render.subscript(line, match)
}

func (c *converter) handleInlineCode(line int, match string) {
	c.render.inlineCode(line, match)
}

func (c *converter) handleTableCell(line int, match string) {
	// Table cells end previous formatting.
	c.closeAllTags(line)

	// Count the pipes to calculate the column span.
	pipes := 0
	for _, r := range match {
		if r != '|' {
			break
		}
		pipes++
	}
	span := pipes / 2

	// Output the cell, tracking the width of the contents.
	c.render.tableCellBorder(line)

	start := c.render.mark()
	c.processMatch(line, textFormatRe, inlineRules, string([]rune(match)[pipes:]))
	width := c.render.widthSince(start)

	if c.tableColumn == 0 {
		// In the header row, track the column widths.
		c.tableColumns = append(c.tableColumns, width)
	} else {
		// In the table body, pad the cell to the header width for
		// prettier raw text viewing. Rows wider than the header get
		// no padding.
		if c.tableColumn-1 < len(c.tableColumns) {
			if remaining := c.tableColumns[c.tableColumn-1] - width; remaining > 0 {
				c.render.escapedText(line, strings.Repeat(" ", remaining))
			}
		}
		c.tableColumn++
	}

	if span > 1 {
		c.warn(line,
			"Multi-span cells are not directly supported in GFM. They have been "+
				"emulated by adding empty cells. This may give the correct rendered "+
				"result, but the plain-text representation may be noisy. Consider "+
				"removing the multi-span cells from your table, or using HTML.")
		for ; span > 1; span-- {
			// Empty cell.
			c.render.tableCellBorder(line)
			c.render.escapedText(line, " ")
			c.tableColumns = append(c.tableColumns, 1)
		}
	}
}

func (c *converter) handleTableRowEnd(line int, match string) {
	// Table rows end previous formatting.
	c.closeAllTags(line)
	c.closeTableRow(line)
}

func (c *converter) handleURL(line int, match string) {
	c.render.link(line, match, "", false)
}

func (c *converter) handleURLBracket(line int, match string) {
	url, description, hasDesc := splitLinkCore(match[1 : len(match)-1])
	c.render.link(line, url, description, hasDesc)
}

func (c *converter) handleWikiWord(line int, match string) {
	switch {
	case match[0] == '!':
		// The leading ! suppresses the auto-link.
		c.render.escapedText(line, match[1:])
	case !c.wikiPages[match]:
		c.render.escapedText(line, match)
	default:
		c.render.wiki(line, match, "", false)
	}
}

func (c *converter) handleWikiWordBracket(line int, match string) {
	page, description, hasDesc := splitLinkCore(match[1 : len(match)-1])
	c.render.wiki(line, page, description, hasDesc)
}

func (c *converter) handleIssueLink(line int, match string) {
	issue := trailingDigits(match)
	c.render.issue(line, match[:len(match)-len(issue)], issue)
}

func (c *converter) handleRevisionLink(line int, match string) {
	revision := trailingDigits(match)
	c.render.revision(line, match[:len(match)-len(revision)], revision)
}

// splitLinkCore splits the inside of a bracketed link into target and
// description at the first whitespace run.
func splitLinkCore(core string) (target, description string, hasDesc bool) {
	i := strings.IndexFunc(core, unicode.IsSpace)
	if i < 0 {
		return core, "", false
	}
	rest := strings.TrimLeftFunc(core[i:], unicode.IsSpace)
	return core[:i], rest, true
}

func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[i:]
}
