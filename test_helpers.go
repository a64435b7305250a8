//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Helper functions for unit testing
//

package wiki2gfm

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// testOptions mirrors the configuration the converter tests run under:
// a known project, one migrated issue and one existing wiki page.
func testOptions() *Options {
	return &Options{
		Project:   "test",
		WikiPages: []string{"TestPage"},
		IssueMap:  map[string]string{"123": "https://github.com/abcxyz/test/issues/789"},
	}
}

// doTests runs pairs of input and expected output through Convert.
func doTests(t *testing.T, tests []string, opts *Options) {
	t.Helper()
	for i := 0; i+1 < len(tests); i += 2 {
		input := tests[i]
		expected := tests[i+1]
		actual, _ := Convert([]byte(input), opts)
		if string(actual) != expected {
			t.Errorf("\nInput   [%#v]\nExpected[%#v]\nActual  [%#v]\n%s",
				input, expected, string(actual), unifiedDiff(expected, string(actual)))
		}
	}
}

func unifiedDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

// newTestEmitter returns an emitter wired to the test configuration and
// the slice its warnings accumulate into.
func newTestEmitter() (*emitter, *[]Warning) {
	warnings := &[]Warning{}
	warn := func(line int, message string) {
		*warnings = append(*warnings, Warning{Line: line, Message: message})
	}
	e := newEmitter(warn, "test",
		map[string]string{"123": "https://github.com/abcxyz/test/issues/789"}, false)
	return e, warnings
}

// assertWarning checks that exactly occurrences warnings contain the
// given text.
func assertWarning(t *testing.T, warnings []Warning, contents string, occurrences int) {
	t.Helper()
	found := 0
	for _, w := range warnings {
		if strings.Contains(w.Message, contents) {
			found++
		}
	}
	if found != occurrences {
		t.Errorf("found %q in %d warnings, want %d (all warnings: %v)",
			contents, found, occurrences, warnings)
	}
}

func assertNoWarnings(t *testing.T, warnings []Warning) {
	t.Helper()
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
