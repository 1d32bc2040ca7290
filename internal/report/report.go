// Package report renders match records and the closing summary panel to the
// terminal. Colour degrades automatically when stdout is not a TTY.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/harrison/textseek/internal/models"
)

const summaryTitle = "Summary Results"

// Reporter writes human-readable search output.
type Reporter struct {
	out io.Writer

	path      func(a ...interface{}) string
	lineNo    func(format string, a ...interface{}) string
	timestamp func(format string, a ...interface{}) string
	highlight func(a ...interface{}) string
	border    func(a ...interface{}) string
	faint     func(a ...interface{}) string
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:       out,
		path:      color.New(color.FgYellow).SprintFunc(),
		lineNo:    color.New(color.FgCyan).SprintfFunc(),
		timestamp: color.New(color.FgMagenta).SprintfFunc(),
		highlight: color.New(color.FgHiGreen, color.Bold).SprintFunc(),
		border:    color.New(color.FgBlue).SprintFunc(),
		faint:     color.New(color.FgHiBlack).SprintFunc(),
	}
}

// PrintRecords writes one header and line of text per match record.
func (r *Reporter) PrintRecords(records []models.Match) {
	for _, rec := range records {
		fmt.Fprintf(r.out, "%s - %s (%s)\n",
			r.path(rec.Path),
			r.lineNo("Line %d", rec.Line),
			r.timestamp("%s", rec.ModTime.Format("2006-01-02 15:04:05")))

		line := HighlightLine(rec.Text, rec.Spans, r.highlight)
		if rec.Truncated {
			line += r.faint(" ...[truncated]")
		}
		fmt.Fprintln(r.out, line)
	}
}

// HighlightLine wraps each span of text with wrap. Spans are applied
// rightmost-first so earlier byte offsets stay valid as the string grows.
func HighlightLine(text string, spans [][2]int, wrap func(a ...interface{}) string) string {
	for i := len(spans) - 1; i >= 0; i-- {
		start, end := spans[i][0], spans[i][1]
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		text = text[:start] + wrap(text[start:end]) + text[end:]
	}
	return text
}

// PrintSummary draws the closing summary panel.
func (r *Reporter) PrintSummary(s models.Summary) {
	depth := fmt.Sprintf("%d", s.MaxDepth)
	if s.MaxDepth == -1 {
		depth = "all"
	}
	body := fmt.Sprintf("Crawled %d directories at a max depth of %s. Found results in %d files for search term '%s'.",
		s.Directories, depth, s.FilesMatched, s.Term)

	bodyLen := utf8.RuneCountInString(body)
	width := bodyLen + 2
	if min := len(summaryTitle) + 4; width < min {
		width = min
	}

	top := "╭─ " + summaryTitle + " " + strings.Repeat("─", width-len(summaryTitle)-3) + "╮"
	interior := " " + body + strings.Repeat(" ", width-bodyLen-2) + " "
	bottom := "╰" + strings.Repeat("─", width) + "╯"

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.border(top))
	fmt.Fprintln(r.out, r.border("│")+interior+r.border("│"))
	fmt.Fprintln(r.out, r.border(bottom))
}
