package core

// Level represents the severity level of a log entry
type Level int8

const (
	// NotSetLevel means the logger defers to its nearest ancestor
	NotSetLevel Level = iota - 1
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// CriticalLevel for failures the process may not survive
	CriticalLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case NotSetLevel:
		return "NOTSET"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Number returns the conventional numeric severity (10 for DEBUG up to 50 for CRITICAL, 0 for NOTSET).
func (l Level) Number() int {
	return (int(l) + 1) * 10
}

// Valid reports whether l is one of the defined levels
func (l Level) Valid() bool {
	return l >= NotSetLevel && l <= CriticalLevel
}
