package modelfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"doclens/internal/docmodel"
	"doclens/internal/entity"
)

var (
	kindColor    = color.New(color.FgCyan, color.Bold)
	nameColor    = color.New(color.FgWhite, color.Bold)
	docColor     = color.New(color.FgGreen)
	missingColor = color.New(color.FgYellow)
	posColor     = color.New(color.FgHiBlack)
)

// DocumentPretty renders the entity tree with attached documentation.
func DocumentPretty(w io.Writer, doc *docmodel.Document, opts PrettyOpts) error {
	color.NoColor = !opts.Color

	root := doc.Root
	fmt.Fprintf(w, "%s %s (%s)\n", kindColor.Sprint("module"), nameColor.Sprint(root.Name), doc.Grammar)
	if root.Doc != nil && opts.ShowText {
		writeDocText(w, root.Doc.Text, 1)
	}
	for _, child := range root.Children {
		if err := writeEntity(w, doc, child, 1, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeEntity(w io.Writer, doc *docmodel.Document, e *entity.Entity, depth int, opts PrettyOpts) error {
	indent := strings.Repeat("  ", depth)
	start, _ := doc.Resolve(e.Span)

	label := strings.ToLower(e.Kind.String())
	name := e.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%s%s %s %s",
		indent,
		kindColor.Sprint(label),
		nameColor.Sprint(name),
		posColor.Sprintf("%d:%d", start.Line, start.Col))

	switch {
	case e.Doc != nil:
		fmt.Fprintf(w, "  %s", docColor.Sprint("doc"))
	case e.Kind == entity.Test || e.Kind == entity.Unknown:
		// тесты и нераспознанные области не требуют документации
	default:
		fmt.Fprintf(w, "  %s", missingColor.Sprint("undocumented"))
	}
	fmt.Fprintln(w)

	if e.Doc != nil && opts.ShowText {
		writeDocText(w, e.Doc.Text, depth+1)
	}
	for _, child := range e.Children {
		if err := writeEntity(w, doc, child, depth+1, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeDocText(w io.Writer, text string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, docColor.Sprint("| "+line))
	}
}

// AnnotationsPretty renders annotation hits grouped under their file path.
func AnnotationsPretty(w io.Writer, path string, anns []AnnotationLine, opts PrettyOpts) {
	color.NoColor = !opts.Color
	if len(anns) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", nameColor.Sprint(path))
	for _, a := range anns {
		tag := tagColor(a.Tag).Sprintf("%-5s", a.Tag)
		fmt.Fprintf(w, "  %s %s", posColor.Sprintf("%4d:%-3d", a.Line, a.Col), tag)
		if a.Author != "" {
			fmt.Fprintf(w, " (%s)", a.Author)
		}
		if a.Message != "" {
			fmt.Fprintf(w, " %s", a.Message)
		}
		fmt.Fprintln(w)
	}
}

// AnnotationLine is one row of annotation output.
type AnnotationLine struct {
	Tag     string
	Message string
	Author  string
	Line    uint32
	Col     uint32
}

func tagColor(tag string) *color.Color {
	switch tag {
	case "FIXME", "BUG", "XXX":
		return color.New(color.FgRed, color.Bold)
	case "TODO", "HACK":
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan, color.Bold)
	}
}
