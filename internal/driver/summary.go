package driver

import (
	"doclens/internal/docmodel"
)

// Summary is the compact per-file result the scan and lint reports are built
// from. It contains everything the CLI prints without the full model, so it
// can round-trip through the disk cache.
type Summary struct {
	Path         string
	Grammar      string
	Entities     int
	Documented   int
	Orphans      int
	HasModuleDoc bool
	Annotations  []AnnotationSummary
}

// AnnotationSummary is one annotation hit, detached from the live model.
type AnnotationSummary struct {
	Tag     string
	Message string
	Author  string
	Line    uint32
	Col     uint32
}

// Coverage returns the documented share, 1 for files with nothing to document.
func (s *Summary) Coverage() float64 {
	if s.Entities == 0 {
		return 1
	}
	return float64(s.Documented) / float64(s.Entities)
}

func summarize(doc *docmodel.Document, path string) *Summary {
	st := doc.Stats()
	sum := &Summary{
		Path:         path,
		Grammar:      doc.Grammar,
		Entities:     st.Entities,
		Documented:   st.Documented,
		Orphans:      st.Orphans,
		HasModuleDoc: doc.Root.Doc != nil,
	}
	for _, a := range doc.Annotations {
		sum.Annotations = append(sum.Annotations, AnnotationSummary{
			Tag:     a.Tag,
			Message: a.Message,
			Author:  a.Author,
			Line:    a.Line,
			Col:     a.Col,
		})
	}
	return sum
}
