//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

package wiki2gfm

// Options controls the conversion.
type Options struct {
	// Project is the Google Code project name the page came from. When
	// set, issue and revision references are linked back to the
	// project's Google Code pages.
	Project string

	// WikiPages lists the page names assumed to exist, for WikiWord
	// auto-linking. Words not in the list render as plain text.
	WikiPages []string

	// IssueMap maps Google Code issue numbers to the URLs of their
	// migrated GitHub issues.
	IssueMap map[string]string

	// SymmetricHeaders closes ATX headers with trailing # marks.
	SymmetricHeaders bool
}

// A Warning describes a conversion hazard tied to an input line. The
// conversion itself always completes; warnings tell the author where the
// output deserves a manual look.
type Warning struct {
	Line    int
	Message string
}

// Convert translates a page in Google Code Wiki syntax to
// GitHub-flavored Markdown. Warnings are returned in the order they were
// produced.
func Convert(input []byte, opts *Options) ([]byte, []Warning) {
	if opts == nil {
		opts = &Options{}
	}

	var warnings []Warning
	warn := func(line int, message string) {
		warnings = append(warnings, Warning{Line: line, Message: message})
	}

	pages := make(map[string]bool, len(opts.WikiPages))
	for _, page := range opts.WikiPages {
		pages[page] = true
	}

	render := newEmitter(warn, opts.Project, opts.IssueMap, opts.SymmetricHeaders)
	c := &converter{
		pragmas:   &pragmaHandler{warn: warn},
		render:    render,
		warn:      warn,
		wikiPages: pages,
	}
	c.convert(string(input))

	return render.out.Bytes(), warnings
}
