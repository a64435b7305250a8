// Package wiki2gfm converts Google Code Wiki pages to GitHub-flavored
// Markdown.
//
// The conversion is a single pass over the input. Pragma directives at
// the top of the page are consumed, then the body is matched against the
// same ordered formatting rules Google Code's wiki parser used. Where
// GFM cannot express a construct directly (nested formatting inside
// HTML, multi-span table cells, comments, embedded videos), the output
// falls back to HTML or a textual placeholder and a warning records the
// line and the suggested manual fix.
//
// Call Convert with the page contents and an Options value. The result
// is the Markdown output plus the ordered list of warnings; conversion
// never fails outright.
package wiki2gfm
