//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

package wiki2gfm

import "fmt"

// pragmaHandler reports pragma directives found at the top of a page.
// There is no meaningful Markdown equivalent to any of the pragmas, so
// each one produces a warning telling the author what to do instead, and
// nothing is written to the output.
type pragmaHandler struct {
	warn func(line int, message string)
}

func (h *pragmaHandler) handle(line int, pragmaType, pragmaValue string) {
	switch pragmaType {
	case "summary":
		h.warn(line, fmt.Sprintf(
			"A summary pragma was used for this wiki:\n"+
				"\t%s\n"+
				"Consider moving it to an introductory paragraph.", pragmaValue))
	case "sidebar":
		h.warn(line, fmt.Sprintf(
			"A sidebar pragma was used for this wiki:\n"+
				"\t%[1]s\n"+
				"The Gollum wiki system supports sidebars, and by converting "+
				"%[1]s.wiki to _Sidebar.md it can be used as a sidebar.\n"+
				"See https://github.com/gollum/gollum/wiki for more information.",
			pragmaValue))
	default:
		h.warn(line, fmt.Sprintf(
			"The following pragma has been ignored:\n"+
				"\t#%s %s\n"+
				"Consider expressing the same information in a different manner.",
			pragmaType, pragmaValue))
	}
}
