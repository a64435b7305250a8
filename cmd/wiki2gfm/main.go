//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Command-line front end
//

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/wiki2gfm"
)

func main() {
	// parse command-line options
	var project, wikiPages, wikiPagesPath, issueMapFile string
	var symmetricHeaders bool
	flag.StringVar(&project, "project", "",
		"Name of the Google Code project the wiki page came from")
	flag.StringVar(&wikiPages, "wikipages", "",
		"Comma-separated list of wiki pages assumed to exist, for auto-linking")
	flag.StringVar(&wikiPagesPath, "wikipages_path", "",
		"Comma-separated list of directories whose .wiki files are assumed to exist")
	flag.StringVar(&issueMapFile, "issue_map", "",
		"JSON file mapping Google Code issue numbers to migrated GitHub issue URLs")
	flag.BoolVar(&symmetricHeaders, "symmetric_headers", false,
		"Close headers symmetrically, e.g. '### Header ###' instead of '### Header'")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Google Code Wiki to GitHub-flavored Markdown converter\n\n"+
			"Usage:\n"+
			"  %s [options] [inputfile [outputfile]]\n\n"+
			"Options:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// read the input
	var input []byte
	var err error
	args := flag.Args()
	switch len(args) {
	case 0:
		if input, err = io.ReadAll(os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, "Error reading from stdin:", err)
			os.Exit(-1)
		}
	case 1, 2:
		if input, err = os.ReadFile(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "Error reading from", args[0], ":", err)
			os.Exit(-1)
		}
	default:
		flag.Usage()
		os.Exit(-1)
	}

	opts := &wiki2gfm.Options{
		Project:          project,
		SymmetricHeaders: symmetricHeaders,
	}

	// assemble the master list of wiki pages assumed to exist
	for _, page := range strings.Split(wikiPages, ",") {
		if page = strings.TrimSpace(page); page != "" {
			opts.WikiPages = append(opts.WikiPages, page)
		}
	}
	if len(args) > 0 {
		base := filepath.Base(args[0])
		opts.WikiPages = append(opts.WikiPages, strings.TrimSuffix(base, ".wiki"))
	}
	for _, dir := range strings.Split(wikiPagesPath, ",") {
		if dir = strings.TrimSpace(dir); dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error listing", dir, ":", err)
			os.Exit(-1)
		}
		for _, entry := range entries {
			if name := entry.Name(); strings.HasSuffix(name, ".wiki") {
				opts.WikiPages = append(opts.WikiPages, strings.TrimSuffix(name, ".wiki"))
			}
		}
	}

	if issueMapFile != "" {
		data, err := os.ReadFile(issueMapFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading from", issueMapFile, ":", err)
			os.Exit(-1)
		}
		if err := json.Unmarshal(data, &opts.IssueMap); err != nil {
			fmt.Fprintln(os.Stderr, "Error parsing issue map:", err)
			os.Exit(-1)
		}
	}

	output, warnings := wiki2gfm.Convert(input, opts)

	// output the result
	var out *os.File = os.Stdout
	if len(args) == 2 {
		if out, err = os.Create(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "Error creating", args[1], ":", err)
			os.Exit(-1)
		}
		defer out.Close()
	}
	if _, err = out.Write(output); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing output:", err)
		os.Exit(-1)
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning (line %d of input file):\n%s\n\n", w.Line, w.Message)
	}
}
