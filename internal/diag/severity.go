package diag

// Severity ranks how much a diagnostic should worry the caller. Scans keep
// going on warnings; errors mean the resulting model may be incomplete.
type Severity uint8

const (
	// SevInfo: заметка, на результат не влияет.
	SevInfo Severity = iota
	// SevWarning: восстановимая проблема (незакрытый литерал и т.п.).
	SevWarning
	// SevError: файл не удалось обработать до конца.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
