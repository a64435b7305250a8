//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Unit tests for the Markdown emitter
//

package wiki2gfm

import "testing"

func TestHeaderOpen(t *testing.T) {
	e, warnings := newTestEmitter()
	e.headerOpen(1, 3)

	if got := e.out.String(); got != "### " {
		t.Errorf("got %q, want %q", got, "### ")
	}
	assertNoWarnings(t, *warnings)
}

func TestHeaderOpenInHTML(t *testing.T) {
	e, _ := newTestEmitter()
	e.inHTML = 1
	e.headerOpen(1, 3)

	if got := e.out.String(); got != "<h3>" {
		t.Errorf("got %q, want %q", got, "<h3>")
	}
}

func TestHeaderClose(t *testing.T) {
	e, _ := newTestEmitter()
	e.headerClose(1, 3)

	// No header closing markup by default.
	if got := e.out.String(); got != "" {
		t.Errorf("got %q, want empty output", got)
	}
}

func TestHeaderCloseInHTML(t *testing.T) {
	e, _ := newTestEmitter()
	e.inHTML = 1
	e.headerClose(1, 3)

	if got := e.out.String(); got != "</h3>" {
		t.Errorf("got %q, want %q", got, "</h3>")
	}
}

func TestHeaderCloseSymmetric(t *testing.T) {
	e, _ := newTestEmitter()
	e.symmetricHeaders = true
	e.headerClose(1, 3)

	if got := e.out.String(); got != " ###" {
		t.Errorf("got %q, want %q", got, " ###")
	}
}

func TestHRule(t *testing.T) {
	e, _ := newTestEmitter()
	e.hrule(1)

	if got := e.out.String(); got != "\n---\n" {
		t.Errorf("got %q, want %q", got, "\n---\n")
	}
}

func TestHRuleInHTML(t *testing.T) {
	e, _ := newTestEmitter()
	e.inHTML = 1
	e.hrule(1)

	if got := e.out.String(); got != "<hr />" {
		t.Errorf("got %q, want %q", got, "<hr />")
	}
}

func TestCodeBlock(t *testing.T) {
	e, warnings := newTestEmitter()
	e.codeBlockOpen(1, "")
	e.text(1, "x := 1\n")
	e.codeBlockClose(2)

	if got := e.out.String(); got != "```\nx := 1\n```" {
		t.Errorf("got %q", got)
	}
	assertNoWarnings(t, *warnings)
}

func TestCodeBlockWithLanguage(t *testing.T) {
	e, _ := newTestEmitter()
	e.codeBlockOpen(1, "idris")

	if got := e.out.String(); got != "```idris\n" {
		t.Errorf("got %q, want %q", got, "```idris\n")
	}
}

func TestCodeBlockInHTML(t *testing.T) {
	e, warnings := newTestEmitter()
	e.inHTML = 1
	e.codeBlockOpen(1, "")
	e.text(1, "a < b\n")
	e.codeBlockClose(2)

	want := "<pre><code>a &lt; b<br>\n</code></pre>"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Code markup was used", 1)
}

func TestNumericList(t *testing.T) {
	e, warnings := newTestEmitter()
	e.numericListOpen(1, 1)
	e.text(1, "a\n")
	e.numericListOpen(2, 1)
	e.text(2, "b\n")
	e.numericListOpen(3, 2)
	e.text(3, "c\n")
	e.listClose(4)
	e.numericListOpen(4, 1)
	e.text(4, "d\n")
	e.listClose(5)

	want := "  1. a\n  1. b\n    1. c\n  1. d\n"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertNoWarnings(t, *warnings)
}

func TestNumericListInHTML(t *testing.T) {
	e, warnings := newTestEmitter()
	e.inHTML = 1
	e.numericListOpen(1, 1)
	e.text(1, "a\n")
	e.numericListOpen(2, 1)
	e.text(2, "b\n")
	e.numericListOpen(3, 2)
	e.text(3, "c\n")
	e.listClose(4)
	e.numericListOpen(4, 1)
	e.text(4, "d\n")
	e.listClose(5)

	want := "<ol><li>a\n</li><li>b\n<ol><li>c\n</li></ol></li><li>d\n</li></ol>"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Numeric list markup was used", 2)
}

func TestBulletList(t *testing.T) {
	e, _ := newTestEmitter()
	e.bulletListOpen(1, 1)
	e.text(1, "a\n")
	e.bulletListOpen(2, 2)
	e.text(2, "b\n")
	e.listClose(3)
	e.listClose(3)

	want := "  * a\n    * b\n"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBulletListInHTML(t *testing.T) {
	e, warnings := newTestEmitter()
	e.inHTML = 1
	e.bulletListOpen(1, 1)
	e.text(1, "a\n")
	e.bulletListOpen(2, 1)
	e.text(2, "b\n")
	e.bulletListOpen(3, 2)
	e.text(3, "c\n")
	e.listClose(4)
	e.bulletListOpen(4, 1)
	e.text(4, "d\n")
	e.listClose(5)

	want := "<ul><li>a\n</li><li>b\n<ul><li>c\n</li></ul></li><li>d\n</li></ul>"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Bulleted list markup was used", 2)
}

func TestBlockquote(t *testing.T) {
	e, _ := newTestEmitter()
	e.blockquoteOpen(1, 1)
	e.text(1, "a\n")
	e.blockquoteOpen(2, 1)
	e.text(2, "b\n")
	e.blockquoteOpen(3, 2)
	e.text(3, "c\n")
	e.listClose(4)
	// A blank line is needed when dedenting out of a nested
	// blockquote, or GFM merges the quotes.
	e.blockquoteOpen(4, 1)
	e.text(4, "d\n")
	e.listClose(5)

	want := "> a\n> b\n> > c\n\n> d\n"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBlockquoteInHTML(t *testing.T) {
	e, warnings := newTestEmitter()
	e.inHTML = 1
	e.blockquoteOpen(1, 1)
	e.text(1, "a\n")
	e.blockquoteOpen(2, 1)
	e.text(2, "b\n")
	e.blockquoteOpen(3, 2)
	e.text(3, "c\n")
	e.listClose(4)
	e.blockquoteOpen(4, 1)
	e.text(4, "d\n")
	e.listClose(5)

	want := "<blockquote>a\nb<br>\n<blockquote>c\n</blockquote>d\n</blockquote>"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Blockquote markup was used", 2)
}

func TestParagraphBreak(t *testing.T) {
	e, _ := newTestEmitter()
	e.text(1, "a\n")
	e.paragraphBreak(2)
	e.text(3, "b\n")

	if got := e.out.String(); got != "a\n\nb\n" {
		t.Errorf("got %q, want %q", got, "a\n\nb\n")
	}
}

func TestParagraphBreakInHTML(t *testing.T) {
	e, _ := newTestEmitter()
	e.inHTML = 1
	e.text(1, "a\n")
	e.paragraphBreak(2)
	e.text(3, "b\n")

	if got := e.out.String(); got != "a\n<br>\nb<br>\n" {
		t.Errorf("got %q, want %q", got, "a\n<br>\nb<br>\n")
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"Bold", "**xyz**"},
		{"Italic", "_xyz_"},
		{"Strikethrough", "~~xyz~~"},
	}
	for _, tt := range tests {
		e, warnings := newTestEmitter()
		spanTags[tt.kind].open(e, 1)
		e.text(2, "xyz")
		spanTags[tt.kind].close(e, 3)

		if got := e.out.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.kind, got, tt.want)
		}
		assertNoWarnings(t, *warnings)
	}
}

func TestFormattingInHTML(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"Bold", "<b>xyz</b>"},
		{"Italic", "<i>xyz</i>"},
		{"Strikethrough", "<del>xyz</del>"},
	}
	for _, tt := range tests {
		e, warnings := newTestEmitter()
		e.inHTML = 1
		spanTags[tt.kind].open(e, 1)
		e.text(2, "xyz")
		spanTags[tt.kind].close(e, 3)

		if got := e.out.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.kind, got, tt.want)
		}
		assertWarning(t, *warnings, tt.kind+" markup was used", 1)
	}
}

func TestFormattingWhitespaceOnlyOmitted(t *testing.T) {
	e, _ := newTestEmitter()
	e.boldOpen(1)
	e.text(1, "   ")
	e.boldClose(1)

	if got := e.out.String(); got != "" {
		t.Errorf("got %q, want empty output", got)
	}
}

func TestFormattingTrimsBuffer(t *testing.T) {
	e, _ := newTestEmitter()
	e.boldOpen(1)
	e.text(1, " xyz ")
	e.boldClose(1)

	if got := e.out.String(); got != "**xyz**" {
		t.Errorf("got %q, want %q", got, "**xyz**")
	}
}

func TestSuperscriptAndSubscript(t *testing.T) {
	e, _ := newTestEmitter()
	e.superscript(1, "up")
	e.subscript(1, "down")

	want := "<sup>up</sup><sub>down</sub>"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInlineCode(t *testing.T) {
	e, _ := newTestEmitter()
	e.inlineCode(1, "xyz")

	if got := e.out.String(); got != "` xyz `" {
		t.Errorf("got %q, want %q", got, "` xyz `")
	}
}

func TestInlineCodeWithTicks(t *testing.T) {
	e, _ := newTestEmitter()
	e.inlineCode(1, "x ` y")

	if got := e.out.String(); got != "`` x ` y ``" {
		t.Errorf("got %q, want %q", got, "`` x ` y ``")
	}
}

func TestInlineCodeInHTML(t *testing.T) {
	e, _ := newTestEmitter()
	e.inHTML = 1
	e.inlineCode(1, "xyz")

	if got := e.out.String(); got != "<code>xyz</code>" {
		t.Errorf("got %q, want %q", got, "<code>xyz</code>")
	}
}

func TestLink(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		desc    string
		hasDesc bool
		want    string
	}{
		{"autolink", "http://example.com", "", false,
			"http://example.com"},
		{"description", "http://example.com", "Description", true,
			"[Description](http://example.com)"},
		{"image description", "http://example.com", "http://example.com/a.png", true,
			"[![](http://example.com/a.png)](http://example.com)"},
		{"image", "http://example.com/a.png", "", false,
			"![http://example.com/a.png](http://example.com/a.png)"},
		{"image with description", "http://example.com/a.png", "Description", true,
			"[Description](http://example.com/a.png)"},
		{"image with image description", "http://example.com/a.png", "http://example.com/b.png", true,
			"![![](http://example.com/b.png)](http://example.com/a.png)"},
		{"ftp not autolinkable", "ftp://example.com/f.txt", "", false,
			"[ftp://example.com/f.txt](ftp://example.com/f.txt)"},
	}
	for _, tt := range tests {
		e, warnings := newTestEmitter()
		e.link(1, tt.target, tt.desc, tt.hasDesc)

		if got := e.out.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
		assertNoWarnings(t, *warnings)
	}
}

func TestLinkInHTML(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		desc    string
		hasDesc bool
		want    string
	}{
		{"autolink", "http://example.com", "", false,
			"<a href='http://example.com'>http://example.com</a>"},
		{"description", "http://example.com", "Description", true,
			"<a href='http://example.com'>Description</a>"},
		{"image description", "http://example.com", "http://example.com/a.png", true,
			"<a href='http://example.com'><img src='http://example.com/a.png' /></a>"},
		{"image", "http://example.com/a.png", "", false,
			"<img src='http://example.com/a.png' />"},
	}
	for _, tt := range tests {
		e, warnings := newTestEmitter()
		e.inHTML = 1
		e.link(1, tt.target, tt.desc, tt.hasDesc)

		if got := e.out.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
		assertWarning(t, *warnings, "Link markup was used", 1)
	}
}

func TestWikiLink(t *testing.T) {
	e, warnings := newTestEmitter()
	e.wiki(1, "TestPage", "Test Page", true)

	if got := e.out.String(); got != "[Test Page](wiki/TestPage)" {
		t.Errorf("got %q", got)
	}
	assertNoWarnings(t, *warnings)
}

func TestWikiLinkAnchorSanitized(t *testing.T) {
	e, _ := newTestEmitter()
	e.wiki(1, "TestPage#Anchor_Name", "Description", true)

	want := "[Description](wiki/TestPage#anchor-name)"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIssueInMap(t *testing.T) {
	e, warnings := newTestEmitter()
	e.issue(1, "issue ", "123")

	want := "[issue 789](https://github.com/abcxyz/test/issues/789)"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Issue 123 was auto-linked", 1)
	assertWarning(t, *warnings,
		"In the output, it has been linked to the migrated issue on GitHub: 789.", 1)
}

func TestIssueNotInMap(t *testing.T) {
	e, warnings := newTestEmitter()
	e.issue(1, "issue ", "456")

	want := "[issue 456](https://code.google.com/p/test/issues/detail?id=456)"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Issue 456 was auto-linked", 1)
	assertWarning(t, *warnings, "However, it was not found in the issue migration map", 1)
	assertWarning(t, *warnings,
		"As a placeholder, the text has been modified to "+
			"link to the original Google Code issue page", 1)
}

func TestIssueNoMap(t *testing.T) {
	e, warnings := newTestEmitter()
	e.issueMap = nil
	e.issue(1, "issue ", "456")

	want := "[issue 456](https://code.google.com/p/test/issues/detail?id=456)"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "However, no issue migration map was specified", 1)
}

func TestIssueNoMapNoProject(t *testing.T) {
	e, warnings := newTestEmitter()
	e.issueMap = nil
	e.project = ""
	e.issue(1, "issue ", "456")

	if got := e.out.String(); got != "issue 456 (on Google Code)" {
		t.Errorf("got %q", got)
	}
	assertWarning(t, *warnings, "However, no issue migration map was specified", 1)
	assertWarning(t, *warnings,
		"Additionally, because no project name was specified "+
			"the issue could not be linked to the original Google "+
			"Code issue page.", 1)
	assertWarning(t, *warnings, "The auto-link has been removed", 1)
}

func TestRevision(t *testing.T) {
	e, warnings := newTestEmitter()
	e.revision(1, "revision ", "7")

	want := "[revision 7](https://code.google.com/p/test/source/detail?r=7)"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "Revision 7 was auto-linked", 1)
	assertWarning(t, *warnings,
		"As a placeholder, the text has been modified to "+
			"link to the original Google Code source page", 1)
}

func TestRevisionNoProject(t *testing.T) {
	e, warnings := newTestEmitter()
	e.project = ""
	e.revision(1, "revision ", "7")

	if got := e.out.String(); got != "revision 7 (on Google Code)" {
		t.Errorf("got %q", got)
	}
	assertWarning(t, *warnings, "The auto-link has been removed", 1)
}

func TestHTMLTag(t *testing.T) {
	e, warnings := newTestEmitter()
	e.htmlOpen(1, "tag", tagParams{{"a", "1"}, {"b", "2"}}, false)
	e.text(2, "xyz")
	e.htmlClose(3, "tag")

	if got := e.out.String(); got != "<tag a='1' b='2'>xyz</tag>" {
		t.Errorf("got %q", got)
	}
	assertNoWarnings(t, *warnings)
}

func TestHTMLTagSelfClosed(t *testing.T) {
	e, _ := newTestEmitter()
	e.htmlOpen(1, "tag", tagParams{{"a", "1"}, {"b", "2"}}, true)

	if got := e.out.String(); got != "<tag a='1' b='2' />" {
		t.Errorf("got %q", got)
	}
}

func TestHTMLParamQuoting(t *testing.T) {
	e, _ := newTestEmitter()
	e.htmlOpen(1, "tag", tagParams{{"title", "it's"}}, true)

	if got := e.out.String(); got != `<tag title="it's" />` {
		t.Errorf("got %q", got)
	}
}

func TestGPlus(t *testing.T) {
	e, warnings := newTestEmitter()
	e.gplusOpen(1, nil)
	e.gplusClose(1)

	if got := e.out.String(); got != "" {
		t.Errorf("got %q, want empty output", got)
	}
	assertWarning(t, *warnings, "A Google+ +1 button was embedded on this page", 1)
}

func TestComment(t *testing.T) {
	e, warnings := newTestEmitter()
	e.commentOpen(1)
	e.text(2, "xyz")
	e.commentClose(3)

	if got := e.out.String(); got != "<a href='Hidden comment: xyz'></a>" {
		t.Errorf("got %q", got)
	}
	assertWarning(t, *warnings, "A comment was used in the wiki file", 1)
}

func TestCommentRewritesQuotes(t *testing.T) {
	e, _ := newTestEmitter()
	e.commentOpen(1)
	e.text(2, "don't")
	e.commentClose(3)

	want := `<a href='Hidden comment: don"t'></a>`
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVideo(t *testing.T) {
	e, warnings := newTestEmitter()
	e.videoOpen(1, "FiARsQSlzDc", "320", "240")
	e.videoClose(1)

	want := "<a href='http://www.youtube.com/watch?" +
		"feature=player_embedded&v=FiARsQSlzDc' target='_blank'>" +
		"<img src='http://img.youtube.com/vi/FiARsQSlzDc/0.jpg' " +
		"width='320' height=240 /></a>"
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertWarning(t, *warnings, "GFM does not support embedding the YouTube player", 1)
}

func TestEscapedText(t *testing.T) {
	e, warnings := newTestEmitter()
	e.escapedText(1, "**_xyz_** <a>")

	want := `\*\*\_xyz\_\*\* &lt;a&gt;`
	if got := e.out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assertNoWarnings(t, *warnings)
}

func TestEscapedTextInHTML(t *testing.T) {
	e, _ := newTestEmitter()
	e.inHTML = 1
	e.escapedText(1, "**_xyz_** <a>")

	if got := e.out.String(); got != "**_xyz_** <a>" {
		t.Errorf("got %q", got)
	}
}

func TestReclosedFormatWarns(t *testing.T) {
	e, warnings := newTestEmitter()
	e.boldClose(1)

	assertWarning(t, *warnings, "Re-closed 'Bold', ignoring.", 1)
}
