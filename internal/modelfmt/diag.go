package modelfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"doclens/internal/diag"
	"doclens/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	lineColor = color.New(color.FgHiBlack)
)

// DiagnosticsPretty форматирует диагностики в человекочитаемый вид.
// Для каждой печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку-контекст с подчёркиванием ^~~~ по спану.
func DiagnosticsPretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	color.NoColor = !opts.Color
	bag.Sort()
	bag.Dedup()
	for _, d := range bag.Items() {
		writeDiagnostic(w, &d, fs)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet) {
	sev := severityColor(d.Severity).Sprint(strings.ToUpper(d.Severity.String()))

	if d.Primary.Empty() && d.Primary.File == 0 && d.Primary.Start == 0 {
		// диагностика без привязки к файлу (ошибки I/O)
		fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code.ID(), d.Message)
		return
	}

	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		file.FormatPath(fs.BaseDir()), start.Line, start.Col,
		sev, d.Code.ID(), d.Message)

	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", lineColor.Sprint(line))

	// подчёркивание: ^ на первом байте, ~ до конца спана в пределах строки
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		width = len(line) - int(start.Col) + 1
	}
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", int(start.Col)-1), severityColor(d.Severity).Sprint(marker))
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}
