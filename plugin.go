//
// wiki2gfm - Google Code Wiki to GitHub-flavored Markdown converter
//
// Copyright 2014 Google Inc. All Rights Reserved.
// Licensed under the Apache License, Version 2.0.
//

//
// Plugin tag and variable handling.
//
// A plugin tag is anything of the form <ns:name params>. Known HTML tags
// pass through with their parameters filtered against an allow-list;
// the wiki: and g: namespaces get dedicated handling; everything else is
// reported and rendered as plain text.
//

package wiki2gfm

import (
	"fmt"
	"net/url"
	"strings"
)

type pluginInfo struct {
	id     string
	params tagParams
}

// These plugins consume their content as raw text.
var rawPlugins = map[string]bool{
	"code":         true,
	"wiki:comment": true,
	"pre":          true,
}

// HTML tags allowed by wiki syntax, with the supported parameters for
// each tag.
var (
	basicHTMLArgs         = []string{"title", "dir", "lang"}
	basicHTMLSizeableArgs = append(basicHTMLArgs[:len(basicHTMLArgs):len(basicHTMLArgs)],
		"border", "height", "width", "align")
	basicHTMLTableArgs = append(basicHTMLSizeableArgs[:len(basicHTMLSizeableArgs):len(basicHTMLSizeableArgs)],
		"valign", "cellspacing", "cellpadding")
)

var allowedHTMLTags = map[string][]string{
	"a":          append([]string{"href"}, basicHTMLArgs...),
	"b":          basicHTMLArgs,
	"br":         basicHTMLArgs,
	"blockquote": basicHTMLArgs,
	"code":       append([]string{"language"}, basicHTMLArgs...),
	"dd":         basicHTMLArgs,
	"div":        basicHTMLArgs,
	"dl":         basicHTMLArgs,
	"dt":         basicHTMLArgs,
	"em":         basicHTMLArgs,
	"font":       append([]string{"face", "size", "color"}, basicHTMLArgs...),
	"h1":         basicHTMLArgs,
	"h2":         basicHTMLArgs,
	"h3":         basicHTMLArgs,
	"h4":         basicHTMLArgs,
	"h5":         basicHTMLArgs,
	"i":          basicHTMLArgs,
	"img":        append([]string{"src", "alt"}, basicHTMLSizeableArgs...),
	"li":         basicHTMLArgs,
	"ol":         append([]string{"type", "start"}, basicHTMLArgs...),
	"p":          append([]string{"align"}, basicHTMLArgs...),
	"pre":        basicHTMLArgs,
	"q":          basicHTMLArgs,
	"s":          basicHTMLArgs,
	"span":       basicHTMLArgs,
	"strike":     basicHTMLArgs,
	"strong":     basicHTMLArgs,
	"sub":        basicHTMLArgs,
	"sup":        basicHTMLArgs,
	"table":      basicHTMLTableArgs,
	"tbody":      basicHTMLTableArgs,
	"td":         basicHTMLTableArgs,
	"tfoot":      basicHTMLTableArgs,
	"th":         basicHTMLTableArgs,
	"thead":      append([]string{"colspan", "rowspan"}, basicHTMLTableArgs...),
	"tr":         append([]string{"colspan", "rowspan"}, basicHTMLTableArgs...),
	"tt":         basicHTMLArgs,
	"u":          basicHTMLArgs,
	"ul":         append([]string{"type"}, basicHTMLArgs...),
	"var":        basicHTMLArgs,
}

// Parameters supported by the g:plusone plugin.
var plusoneArgs = []string{"count", "size", "href"}

// Parameters supported by the wiki:video plugin.
var videoArgs = []string{"url", "width", "height"}

const (
	videoDefaultWidth  = "425"
	videoDefaultHeight = "344"
)

func (c *converter) handlePlugin(line int, match string) {
	// Plugins close formatting tags.
	c.closeAllTags(line)

	// Get the core of the tag and check if it is self-closed.
	var core string
	var hasEnd bool
	if strings.HasSuffix(match, "/>") {
		core = match[1 : len(match)-2]
		hasEnd = true
	} else {
		core = match[1 : len(match)-1]
	}

	pluginID := matchPluginID(core)
	params := parsePluginParams(strings.TrimSpace(core[len(pluginID):]))

	switch {
	case allowedHTMLTags[pluginID] != nil:
		c.handlePluginHTML(line, pluginID, params, hasEnd)
	case pluginID == "g:plusone":
		c.render.gplusOpen(line, c.filterParams(line, pluginID, params, plusoneArgs))
	case pluginID == "wiki:comment":
		// No parameters are supported; report all of them.
		c.filterParams(line, pluginID, params, nil)
		c.render.commentOpen(line)
	case pluginID == "wiki:gadget":
		c.warn(line, fmt.Sprintf(
			"A wiki gadget was used, but this must be manually converted to a "+
				"GFM-supported method, if possible. Outputting as plain text:\n\t%s",
			match))
		c.render.escapedText(line, match)
	case pluginID == "wiki:video":
		c.handlePluginVideo(line, pluginID, params)
	case pluginID == "wiki:toc":
		c.warn(line, fmt.Sprintf(
			"A table of contents plugin was used for this wiki:\n"+
				"\t%s\n"+
				"The Gollum wiki system supports table of content generation.\n"+
				"See https://github.com/gollum/gollum/wiki for more information.\n"+
				"It has been removed.", match))
	default:
		c.warn(line, fmt.Sprintf(
			"Unknown plugin was given, outputting as plain text:\n\t%s", match))
		// Wiki syntax put this class of error on its own line.
		c.render.escapedText(line, fmt.Sprintf("\n\n%s\n\n", match))
	}

	// Track the open plugin; its parameters remain usable as variables
	// even when filtered from output.
	if !hasEnd {
		c.pluginStack = append(c.pluginStack, pluginInfo{id: pluginID, params: params})
	}
}

func (c *converter) handlePluginHTML(line int, pluginID string, params tagParams, hasEnd bool) {
	filtered := c.filterParams(line, pluginID, params, allowedHTMLTags[pluginID])
	if pluginID == "code" {
		language, _ := filtered.get("language")
		c.render.codeBlockOpen(line, language)
	} else {
		c.render.htmlOpen(line, pluginID, filtered, hasEnd)
	}
}

// filterParams drops parameters not in allowed, warning about each one
// removed.
func (c *converter) filterParams(line int, pluginID string, params tagParams, allowed []string) tagParams {
	var filtered tagParams
	for _, p := range params {
		ok := false
		for _, name := range allowed {
			if p.name == name {
				ok = true
				break
			}
		}
		if ok {
			filtered.set(p.name, p.value)
		} else {
			c.warn(line, fmt.Sprintf(
				"The following parameter was given for the '%s' tag, "+
					"but will not be present in the outputted HTML:\n\t'%s': '%s'",
				pluginID, p.name, p.value))
		}
	}
	return filtered
}

func (c *converter) handlePluginVideo(line int, pluginID string, params tagParams) {
	filtered := c.filterParams(line, pluginID, params, videoArgs)

	videoURL, ok := filtered.get("url")
	if !ok {
		output := `wiki:video: missing mandatory parameter "url".`
		c.warn(line, fmt.Sprintf(
			"Video plugin is missing 'url' parameter, outputting error:\n\t%s", output))
		// Wiki syntax put this class of error on its own line.
		c.render.escapedText(line, fmt.Sprintf("\n\n%s\n\n", output))
		return
	}

	videoID := youtubeVideoID(videoURL)
	if ok, _ := youtubeVideoIDRe.MatchString(videoID); !ok {
		output := `wiki:video: cannot find YouTube video id within parameter "url".`
		c.warn(line, fmt.Sprintf(
			"Video plugin has invalid video ID, outputting error:\n\t%s", output))
		c.render.escapedText(line, fmt.Sprintf("\n\n%s\n\n", output))
		return
	}

	width := videoDefaultWidth
	if w, ok := filtered.get("width"); ok {
		width = w
	}
	height := videoDefaultHeight
	if h, ok := filtered.get("height"); ok {
		height = h
	}
	c.render.videoOpen(line, videoID, width, height)
}

// youtubeVideoID extracts the video ID from a YouTube URL, either from
// the v query parameter or a /v/ path.
func youtubeVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	if strings.HasPrefix(u.Path, "/v/") {
		return u.Path[len("/v/"):]
	}
	return ""
}

func (c *converter) handlePluginEnd(line int, match string) {
	core := match[2 : len(match)-1]
	pluginID := matchPluginID(core)

	if len(c.pluginStack) == 0 || c.pluginStack[len(c.pluginStack)-1].id != pluginID {
		c.warn(line, fmt.Sprintf(
			"Unknown/unmatched plugin end was given, outputting "+
				"as plain text with errors:\n\t%s", match))
		// Wiki syntax put this class of error on its own line, with a
		// prefix error message, and without the tag namespace.
		tag := pluginID
		if i := strings.Index(tag, ":"); i >= 0 {
			tag = tag[i+1:]
		}
		c.render.escapedText(line, fmt.Sprintf("\n\nUnknown end tag for </%s>\n\n", tag))
		return
	}

	c.pluginStack = c.pluginStack[:len(c.pluginStack)-1]

	switch {
	case allowedHTMLTags[pluginID] != nil:
		if pluginID == "code" {
			c.render.codeBlockClose(line)
		} else {
			c.render.htmlClose(line, pluginID)
		}
	case pluginID == "g:plusone":
		c.render.gplusClose(line)
	case pluginID == "wiki:comment":
		c.render.commentClose(line)
	case pluginID == "wiki:gadget":
		// A warning was already issued on the opening tag.
		c.render.escapedText(line, match)
	case pluginID == "wiki:video":
		c.render.videoClose(line)
	case pluginID == "wiki:toc":
		// A warning was already issued on the opening tag.
	default:
		c.warn(line, fmt.Sprintf(
			"Unknown but matching plugin end was given, outputting "+
				"as plain text:\n\t%s", match))
		c.render.escapedText(line, fmt.Sprintf("\n\n%s\n\n", match))
	}
}

// parsePluginParams parses name=value pairs from the inside of a plugin
// tag, preserving their order. Quoted values lose their quotes.
func parsePluginParams(core string) tagParams {
	var params tagParams
	m, _ := pluginParamRe.FindStringMatch(core)
	for m != nil {
		name := m.GroupByNumber(1).String()
		value := m.GroupByNumber(2).String()
		if strings.HasPrefix(value, "'") {
			value = strings.Trim(value, "'")
		} else if strings.HasPrefix(value, `"`) {
			value = strings.Trim(value, `"`)
		}
		params.set(name, value)
		m, _ = pluginParamRe.FindNextMatch(m)
	}
	return params
}

func (c *converter) handleVariable(line int, match string) {
	var output, instructions string

	// A variable defined somewhere in the plugin stack wins.
	for i := len(c.pluginStack) - 1; i >= 0; i-- {
		if value, ok := c.pluginStack[i].params.get(match); ok {
			if value != "" {
				output = value
			}
			break
		}
	}

	// Otherwise it has to be globally defined.
	if output == "" {
		switch match {
		case "username":
			output = "(TODO: Replace with username.)"
			instructions = fmt.Sprintf(
				"On Google Code this would have been replaced with the "+
					"username of the current user, but GitHub has no "+
					"direct support for equivalent behavior. It has been "+
					"replaced with\n\t%s\nConsider removing this altogether.", output)
		case "email":
			output = "(TODO: Replace with email address.)"
			instructions = fmt.Sprintf(
				"On Google Code this would have been replaced with the "+
					"email address of the current user, but GitHub has no "+
					"direct support for equivalent behavior. It has been "+
					"replaced with\n\t%s\nConsider removing this altogether.", output)
		case "project":
			if c.render.project != "" {
				output = c.render.project
				instructions = fmt.Sprintf(
					"It has been replaced with static text containing the "+
						"name of the project:\n\t%s", c.render.project)
			} else {
				output = "(TODO: Replace with project name.)"
				instructions = fmt.Sprintf(
					"Because no project name was specified, the text has "+
						"been replaced with:\n\t%s", output)
			}
		}
	}

	// Not defined anywhere, treat as regular text with the surrounding
	// %% added back on.
	if output == "" {
		output = fmt.Sprintf("%%%%%s%%%%", match)
	}

	c.render.escapedText(line, output)
	if instructions != "" {
		c.warn(line, fmt.Sprintf(
			"A variable substitution was performed with %%%%%s%%%%. %s",
			match, instructions))
	}
}
