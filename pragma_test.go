//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

package wiki2gfm

import "testing"

func newTestPragmaHandler() (*pragmaHandler, *[]Warning) {
	warnings := &[]Warning{}
	h := &pragmaHandler{warn: func(line int, message string) {
		*warnings = append(*warnings, Warning{Line: line, Message: message})
	}}
	return h, warnings
}

func TestSummaryPragmaGivesWarning(t *testing.T) {
	h, warnings := newTestPragmaHandler()
	h.handle(1, "summary", "abc")

	assertWarning(t, *warnings, "summary", 1)
}

func TestSidebarPragmaGivesWarning(t *testing.T) {
	h, warnings := newTestPragmaHandler()
	h.handle(1, "sidebar", "abc")

	assertWarning(t, *warnings, "sidebar", 1)
}

func TestUnknownPragmaGivesWarning(t *testing.T) {
	h, warnings := newTestPragmaHandler()
	h.handle(1, "fail!", "abc")

	assertWarning(t, *warnings, "fail!", 1)
}
