//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Markdown emitter.
//
// The emitter translates parse events into GitHub-flavored Markdown, or
// into raw HTML once the output is inside an HTML tag, since GitHub does
// not render Markdown formatting within HTML.
//

package wiki2gfm

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shurcooL/sanitized_anchor_name"
)

// Links with these URL schemes are auto-linked by GFM.
var gfmAutoURLSchemes = []string{"http://", "https://"}

// Images inlined automatically by wiki syntax had to have one of these
// URL schemes and image extensions.
var (
	imageURLSchemes = []string{"http://", "https://", "ftp://"}
	imageExtensions = []string{".png", ".gif", ".jpg", ".jpeg", ".svg"}
)

// Template for linking to a video.
const videoTemplate = "<a href='http://www.youtube.com/watch?feature=player_embedded&v=%[1]s' " +
	"target='_blank'><img src='http://img.youtube.com/vi/%[1]s/0.jpg' " +
	"width='%[2]s' height=%[3]s /></a>"

// How a single indentation is written out.
const singleIndentation = "  "

type listKind int

const (
	listNumeric listKind = iota
	listBullet
	listBlockquote
)

func (k listKind) String() string {
	switch k {
	case listNumeric:
		return "Numeric list"
	case listBullet:
		return "Bulleted list"
	}
	return "Blockquote"
}

// Tags used when a list has to be rendered as HTML. The blockquote kind
// has no item tag.
var htmlListTags = map[listKind]struct {
	list string
	item string
}{
	listNumeric:    {"ol", "li"},
	listBullet:     {"ul", "li"},
	listBlockquote: {"blockquote", ""},
}

// Markdown and HTML renditions of the toggling format kinds.
var formatTags = map[string]struct {
	markdown string
	html     string
}{
	"Bold":          {"**", "b"},
	"Italic":        {"_", "i"},
	"Strikethrough": {"~~", "del"},
}

// spanTags routes toggling tag names to their emitter methods.
var spanTags = map[string]struct {
	open  func(*emitter, int)
	close func(*emitter, int)
}{
	"Bold":          {(*emitter).boldOpen, (*emitter).boldClose},
	"Italic":        {(*emitter).italicOpen, (*emitter).italicClose},
	"Strikethrough": {(*emitter).strikethroughOpen, (*emitter).strikethroughClose},
}

// tagParam is a single HTML tag parameter. Parameters keep their source
// order so serialized tags are deterministic.
type tagParam struct {
	name  string
	value string
}

type tagParams []tagParam

func (p tagParams) get(name string) (string, bool) {
	for _, param := range p {
		if param.name == name {
			return param.value, true
		}
	}
	return "", false
}

func (p *tagParams) set(name, value string) {
	for i, param := range *p {
		if param.name == name {
			(*p)[i].value = value
			return
		}
	}
	*p = append(*p, tagParam{name, value})
}

func (p tagParams) serialize() string {
	var sb strings.Builder
	for _, param := range p {
		quote := "'"
		if strings.Contains(param.value, "'") {
			quote = `"`
		}
		fmt.Fprintf(&sb, " %s=%s%s%s", param.name, quote, param.value, quote)
	}
	return sb.String()
}

type htmlListState struct {
	indent int
	kind   listKind
}

type tableStatus int

const (
	tableNone tableStatus = iota
	tableHeaderRow
	tableRowStart
	tableBodyRow
)

// emitter writes converted Markdown, working around the GFM rendering
// quirks the comments below describe.
type emitter struct {
	warn             func(line int, message string)
	project          string
	issueMap         map[string]string
	symmetricHeaders bool

	// GFM has a quirk with nested blockquotes where a blank line is
	// needed after closing a nested blockquote while continuing into
	// another.
	lastBlockquoteIndent int

	// GFM will not apply formatting if whitespace surrounds the text
	// being formatted, but wiki syntax will. Formatted text is buffered
	// so it can be trimmed when the closing tag arrives; if the trimmed
	// buffer is empty the formatting is omitted entirely.
	formatBuffer []*bytes.Buffer

	// GitHub won't render formatting within HTML tags, so formatting is
	// translated to HTML while any tag is open.
	inHTML         int  // number of open HTML tags
	inCodeBlock    bool // inside a code block rendered as HTML
	hasWrittenText bool // text written since the last tag

	listTags []htmlListState
	table    tableStatus

	// GitHub doesn't support HTML comments; comments are wrapped in a
	// bogus empty <a> tag instead, which renders as nothing.
	inComment bool

	out *bytes.Buffer
}

func newEmitter(warn func(int, string), project string, issueMap map[string]string, symmetricHeaders bool) *emitter {
	return &emitter{
		warn:             warn,
		project:          project,
		issueMap:         issueMap,
		symmetricHeaders: symmetricHeaders,
		out:              &bytes.Buffer{},
	}
}

// mark returns the current output position, for width measurement.
func (e *emitter) mark() int {
	return e.out.Len()
}

// widthSince reports the display width of everything written to the
// output since the given mark. Buffered format text does not count until
// its closing tag flushes it.
func (e *emitter) widthSince(mark int) int {
	return runewidth.StringWidth(e.out.String()[mark:])
}

func (e *emitter) headerOpen(line, level int) {
	if e.inHTML > 0 {
		e.htmlOpen(line, fmt.Sprintf("h%d", level), nil, false)
	} else {
		e.write(strings.Repeat("#", level) + " ")
	}
}

func (e *emitter) headerClose(line, level int) {
	if e.inHTML > 0 {
		e.htmlClose(line, fmt.Sprintf("h%d", level))
	} else if e.symmetricHeaders {
		e.write(" " + strings.Repeat("#", level))
	}
}

func (e *emitter) hrule(line int) {
	if e.inHTML > 0 {
		e.htmlOpen(line, "hr", nil, true)
	} else {
		// One newline needed before, to separate from text and not
		// make a header.
		e.write("\n---\n")
	}
}

func (e *emitter) codeBlockOpen(line int, language string) {
	if e.inHTML > 0 {
		e.htmlWarning(line, "Code")
		e.htmlOpen(line, "pre", nil, false)
		e.htmlOpen(line, "code", nil, false)
	} else {
		e.write("```" + language + "\n")
	}
	e.inCodeBlock = true
}

func (e *emitter) codeBlockClose(line int) {
	e.inCodeBlock = false
	if e.inHTML > 0 {
		e.htmlClose(line, "code")
		e.htmlClose(line, "pre")
	} else {
		e.write("```")
	}
}

func (e *emitter) numericListOpen(line, level int) {
	if e.inHTML > 0 {
		e.htmlListOpen(line, level, listNumeric)
	} else {
		e.indent(level)
		// Any number implies a numbered item, so take the easy route.
		e.write("1. ")
	}
}

func (e *emitter) bulletListOpen(line, level int) {
	if e.inHTML > 0 {
		e.htmlListOpen(line, level, listBullet)
	} else {
		e.indent(level)
		e.write("* ")
	}
}

func (e *emitter) blockquoteOpen(line, level int) {
	if e.inHTML > 0 {
		e.htmlListOpen(line, level, listBlockquote)
		return
	}
	if e.lastBlockquoteIndent > level {
		e.write("\n")
	}
	e.lastBlockquoteIndent = level
	// Blockquotes are nested not by indentation but by marker count.
	e.write(strings.Repeat("> ", level))
}

func (e *emitter) listClose(line int) {
	if e.inHTML > 0 {
		e.htmlListClose(line)
	}
}

func (e *emitter) paragraphBreak(line int) {
	e.write("\n")
}

func (e *emitter) boldOpen(line int) {
	e.formatOpen(line, "Bold")
}

func (e *emitter) boldClose(line int) {
	e.formatClose(line, "Bold")
}

func (e *emitter) italicOpen(line int) {
	e.formatOpen(line, "Italic")
}

func (e *emitter) italicClose(line int) {
	e.formatClose(line, "Italic")
}

func (e *emitter) strikethroughOpen(line int) {
	e.formatOpen(line, "Strikethrough")
}

func (e *emitter) strikethroughClose(line int) {
	e.formatClose(line, "Strikethrough")
}

func (e *emitter) formatOpen(line int, kind string) {
	if e.inHTML > 0 {
		e.htmlWarning(line, kind)
	}
	e.formatBuffer = append(e.formatBuffer, &bytes.Buffer{})
}

func (e *emitter) formatClose(line int, kind string) {
	if len(e.formatBuffer) == 0 {
		e.warn(line, fmt.Sprintf("Re-closed '%s', ignoring.", kind))
		return
	}
	buffer := e.formatBuffer[len(e.formatBuffer)-1]
	e.formatBuffer = e.formatBuffer[:len(e.formatBuffer)-1]

	// Nothing to do if only whitespace was buffered.
	trimmed := strings.TrimSpace(buffer.String())
	if trimmed == "" {
		return
	}

	if e.inHTML > 0 {
		tag := formatTags[kind].html
		e.htmlOpen(line, tag, nil, false)
		e.text(line, trimmed)
		e.htmlClose(line, tag)
	} else {
		tag := formatTags[kind].markdown
		e.write(tag + trimmed + tag)
	}
}

func (e *emitter) superscript(line int, text string) {
	// Markdown has no dedicated markup for superscript.
	e.write("<sup>" + text + "</sup>")
}

func (e *emitter) subscript(line int, text string) {
	// Markdown has no dedicated markup for subscript.
	e.write("<sub>" + text + "</sub>")
}

func (e *emitter) inlineCode(line int, code string) {
	if e.inHTML > 0 {
		e.htmlOpen(line, "code", nil, false)
		e.text(line, escapeHTMLEntities(code))
		e.htmlClose(line, "code")
		return
	}

	// To render backticks within inline code, the surrounding tick
	// count must be one greater than the longest run of consecutive
	// ticks in the code.
	maxTicks, ticks := 0, 0
	for _, r := range code {
		if r == '`' {
			ticks++
			if ticks > maxTicks {
				maxTicks = ticks
			}
		} else {
			ticks = 0
		}
	}

	surrounding := strings.Repeat("`", maxTicks+1)
	e.write(fmt.Sprintf("%s %s %s", surrounding, code, surrounding))
}

func (e *emitter) tableCellBorder(line int) {
	if e.inHTML == 0 {
		e.write("|")
		return
	}
	switch e.table {
	case tableNone:
		e.htmlWarning(line, "Table")
		e.htmlOpen(line, "table", nil, false)
		e.htmlOpen(line, "thead", nil, false)
		e.htmlOpen(line, "th", nil, false)
		e.table = tableHeaderRow
	case tableHeaderRow:
		e.htmlClose(line, "th")
		e.htmlOpen(line, "th", nil, false)
	case tableRowStart:
		e.htmlOpen(line, "tr", nil, false)
		e.htmlOpen(line, "td", nil, false)
		e.table = tableBodyRow
	case tableBodyRow:
		e.htmlClose(line, "td")
		e.htmlOpen(line, "td", nil, false)
	}
}

func (e *emitter) tableRowEnd(line int) {
	if e.inHTML == 0 {
		e.write("|")
		return
	}
	switch e.table {
	case tableHeaderRow:
		e.htmlClose(line, "th")
		e.htmlClose(line, "thead")
		e.htmlOpen(line, "tbody", nil, false)
	case tableBodyRow:
		e.htmlClose(line, "td")
		e.htmlClose(line, "tr")
	}
	e.table = tableRowStart
}

func (e *emitter) tableClose(line int) {
	if e.inHTML > 0 {
		// The row was already ended; close the body and the table.
		e.htmlClose(line, "tbody")
		e.htmlClose(line, "table")
		e.table = tableNone
	}
}

// tableHeader writes the header separator row, sized from the header
// cell widths for prettier raw text viewing.
func (e *emitter) tableHeader(line int, columns []int) {
	if e.inHTML > 0 {
		return
	}
	e.text(line, "\n")
	for _, width := range columns {
		e.tableCellBorder(line)
		// Wiki tables are left-aligned, which takes one character
		// to specify.
		if width < 1 {
			width = 1
		}
		e.write(":" + strings.Repeat("-", width-1))
	}
	e.tableCellBorder(line)
}

// link writes a link. description is the link text; hasDesc false means
// only the target was given.
func (e *emitter) link(line int, target, description string, hasDesc bool) {
	// The cases to handle:
	// 1. Image link with image description: link to image, using the
	//    image from the description as content.
	// 2. Image link with text description: link to image, using the
	//    description text as content.
	// 3. Image link with no description: inline image.
	// 4. URL link with image description: link, using the image from
	//    the description as content.
	// 5. URL link with text description: link, using the description
	//    text as content.
	// 6. URL link with no description: link, using the URL as content.
	// Only in case 3 is no actual link present.
	isImage := hasSuffixAny(target, imageExtensions)
	isImageDescription := hasDesc && description != "" &&
		hasPrefixAny(description, imageURLSchemes) &&
		hasSuffixAny(description, imageExtensions)

	if e.inHTML > 0 {
		e.htmlWarning(line, "Link")
		if isImage && !hasDesc {
			e.htmlOpen(line, "img", tagParams{{"src", target}}, true)
			return
		}
		e.htmlOpen(line, "a", tagParams{{"href", target}}, false)
		if isImageDescription {
			e.htmlOpen(line, "img", tagParams{{"src", description}}, true)
		} else {
			if !hasDesc || description == "" {
				description = target
			}
			e.write(escapeHTMLEntities(description))
		}
		e.htmlClose(line, "a")
		return
	}

	// When only the URL was given, let GFM auto-link it, because that
	// is prettier. Wiki syntax auto-linked a variety of URL schemes but
	// GFM only supports http and https; other schemes and images get an
	// explicit link.
	autolink := !hasDesc && hasPrefixAny(target, gfmAutoURLSchemes) && !isImage
	if autolink {
		e.write(target)
		return
	}

	switch {
	case isImageDescription:
		// A description that looks like an image URL becomes an
		// inlined image, as in wiki syntax.
		description = fmt.Sprintf("![](%s)", description)
	case hasDesc && description != "":
		description = escapeMarkdown(description)
	default:
		description = target
		isImageDescription = isImage
	}

	// Prefix ! if linking to an image without a text description.
	prefix := ""
	if isImage && isImageDescription {
		prefix = "!"
	}
	e.write(fmt.Sprintf("%s[%s](%s)", prefix, description, target))
}

// wiki writes a link to another wiki page, optionally with an anchor.
func (e *emitter) wiki(line int, target, text string, hasText bool) {
	// GitHub heading anchors are sanitized, so the fragment has to be
	// rewritten to match.
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i] + "#" + sanitized_anchor_name.Create(target[i+1:])
	}
	if !hasText || text == "" {
		text = target
	}
	e.link(line, "wiki/"+target, text, true)
}

func (e *emitter) issue(line int, prefix, issue string) {
	handled := false
	var instructions string

	// The preferred handling maps the Google Code issue to a GitHub
	// issue.
	if migratedURL, ok := e.issueMap[issue]; len(e.issueMap) > 0 && ok {
		migrated := migratedURL[strings.LastIndex(migratedURL, "/")+1:]
		e.link(line, migratedURL, prefix+migrated, true)
		handled = true

		instructions = fmt.Sprintf(
			"In the output, it has been linked to the migrated issue "+
				"on GitHub: %s. Please verify this issue on GitHub "+
				"corresponds to the original issue on Google Code. ",
			migrated)
	} else if len(e.issueMap) > 0 {
		instructions = "However, it was not found in the issue migration map; " +
			"please verify that this issue has been correctly " +
			"migrated to GitHub and that the issue mapping is put " +
			"in the issue migration map file. "
	} else {
		instructions = "However, no issue migration map was specified. " +
			"Supply an issue migration map file to this converter " +
			"and your old issues will be auto-linked to your " +
			"migrated issues. "
	}

	// If the map couldn't handle it, try linking to the old issue.
	if !handled && e.project != "" {
		oldLink := fmt.Sprintf(
			"https://code.google.com/p/%s/issues/detail?id=%s", e.project, issue)
		e.link(line, oldLink, prefix+issue, true)
		handled = true

		instructions += fmt.Sprintf(
			"As a placeholder, the text has been modified to "+
				"link to the original Google Code issue page:\n\t%s", oldLink)
	} else if !handled {
		instructions += "Additionally, because no project name was specified " +
			"the issue could not be linked to the original Google " +
			"Code issue page."
	}

	// Couldn't map it to GitHub nor link to the old issue.
	if !handled {
		output := fmt.Sprintf("%s%s (on Google Code)", prefix, issue)
		e.write(output)

		instructions += fmt.Sprintf(
			"The auto-link has been removed and the text has been "+
				"modified from '%s%s' to '%s'.", prefix, issue, output)
	}

	e.warn(line, fmt.Sprintf("Issue %s was auto-linked. %s", issue, instructions))
}

func (e *emitter) revision(line int, prefix, revision string) {
	// Google Code only auto-linked revision numbers, not hashes, so
	// revision auto-linking cannot survive the conversion.
	var instructions string
	if e.project != "" {
		oldLink := fmt.Sprintf(
			"https://code.google.com/p/%s/source/detail?r=%s", e.project, revision)
		e.link(line, oldLink, prefix+revision, true)

		instructions = fmt.Sprintf(
			"As a placeholder, the text has been modified to "+
				"link to the original Google Code source page:\n\t%s", oldLink)
	} else {
		output := fmt.Sprintf("%s%s (on Google Code)", prefix, revision)
		e.write(output)

		instructions = fmt.Sprintf(
			"Additionally, because no project name was specified "+
				"the revision could not be linked to the original "+
				"Google Code source page. The auto-link has been removed "+
				"and the text has been modified from '%s%s' to '%s'.",
			prefix, revision, output)
	}

	e.warn(line, fmt.Sprintf(
		"Revision %s was auto-linked. SVN revision numbers are not sensible "+
			"in Git; consider updating this link or removing it altogether. %s",
		revision, instructions))
}

func (e *emitter) htmlOpen(line int, tag string, params tagParams, selfClosed bool) {
	core := tag + params.serialize()
	if selfClosed {
		e.write("<" + core + " />")
	} else {
		e.write("<" + core + ">")
		e.inHTML++
	}
	e.hasWrittenText = false
}

func (e *emitter) htmlClose(line int, tag string) {
	e.write("</" + tag + ">")
	e.inHTML--
	e.hasWrittenText = false
}

func (e *emitter) gplusOpen(line int, params tagParams) {
	e.warn(line,
		"A Google+ +1 button was embedded on this page, but GitHub does not "+
			"currently support this. Should it become supported in the future, "+
			"see https://developers.google.com/+/web/+1button/ for more "+
			"information.\nIt has been removed.")
}

func (e *emitter) gplusClose(line int) {
}

func (e *emitter) commentOpen(line int) {
	e.warn(line,
		"A comment was used in the wiki file, but GitHub does not currently "+
			"support Markdown or HTML comments. As a work-around, the comment will "+
			"be placed in a bogus and empty <a> tag.")
	e.write("<a href='Hidden comment: ")
	e.inComment = true
}

func (e *emitter) commentClose(line int) {
	e.inComment = false
	e.write("'></a>")
}

func (e *emitter) videoOpen(line int, videoID, width, height string) {
	e.warn(line,
		"GFM does not support embedding the YouTube player directly. Instead "+
			"an image link to the video is being used, maintaining sizing options.")
	e.write(fmt.Sprintf(videoTemplate, videoID, width, height))
}

func (e *emitter) videoClose(line int) {
	// Everything was handled on the open side.
}

// text writes raw text.
func (e *emitter) text(line int, s string) {
	e.write(s)
	e.hasWrittenText = true
}

// escapedText writes text escaped for Markdown. Inside HTML, Markdown
// isn't processed anyway, so the text passes through.
func (e *emitter) escapedText(line int, s string) {
	if e.inHTML > 0 {
		e.text(line, s)
	} else {
		e.text(line, escapeMarkdown(s))
	}
}

func (e *emitter) htmlWarning(line int, kind string) {
	e.warn(line, fmt.Sprintf(
		"%s markup was used within HTML tags. Because GitHub does not "+
			"support this, the tags have been translated to HTML. Please verify "+
			"that the formatting is correct.", kind))
}

func (e *emitter) htmlListOpen(line, level int, kind listKind) {
	// Determine if this is a new list, and if a previous list closed.
	newList, closing := true, false
	if len(e.listTags) > 0 {
		top := e.listTags[len(e.listTags)-1]
		switch {
		case top.indent != level:
			// Opening a nested list. The level can only have gone up;
			// had it gone down, the list would already be closed.
		case top.kind != kind:
			// Closed the previous list, started a new one.
			closing = true
		default:
			// Same list, already opened.
			newList = false
		}
	}

	if closing {
		e.htmlListClose(line)
	}

	tags := htmlListTags[kind]

	if newList {
		e.listTags = append(e.listTags, htmlListState{indent: level, kind: kind})
		e.htmlWarning(line, kind.String())
		e.htmlOpen(line, tags.list, nil, false)
	} else if tags.item != "" {
		// Not a new list, close the previously written item.
		e.htmlClose(line, tags.item)
	}

	if tags.item != "" {
		e.htmlOpen(line, tags.item, nil, false)
	}
}

func (e *emitter) htmlListClose(line int) {
	top := e.listTags[len(e.listTags)-1]
	e.listTags = e.listTags[:len(e.listTags)-1]

	tags := htmlListTags[top.kind]
	if tags.item != "" {
		e.htmlClose(line, tags.item)
	}
	e.htmlClose(line, tags.list)
}

func (e *emitter) indent(level int) {
	e.write(strings.Repeat(singleIndentation, level))
}

// write sends text to the output, honoring format buffering, comment
// rewriting and the HTML mode transformations.
func (e *emitter) write(text string) {
	if text == "" {
		return
	}

	if !e.inComment && e.inHTML > 0 {
		if e.inCodeBlock {
			text = escapeHTMLEntities(text)
		}
		if e.inCodeBlock || e.hasWrittenText {
			text = strings.ReplaceAll(text, "\n", "<br>\n")
		}
	}

	if e.inComment {
		text = strings.ReplaceAll(text, "'", `"`)
	}

	if n := len(e.formatBuffer); n > 0 {
		e.formatBuffer[n-1].WriteString(text)
		return
	}
	e.out.WriteString(text)
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasSuffixAny(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
