package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Philipp01105/logboot/core"
)

const (
	// DefaultPattern renders "<time> - <thread> - <LEVEL> - <message>".
	DefaultPattern = "%(asctime)s - %(threadName)s - %(levelname)s - %(message)s"
	// DefaultTimestampFormat is the asctime layout: local time with milliseconds after a comma.
	DefaultTimestampFormat = "2006-01-02 15:04:05,000"
)

// ErrInvalidPattern is returned when a pattern cannot be compiled.
var ErrInvalidPattern = errors.New("invalid log pattern")

type attribute uint8

const (
	attrLiteral attribute = iota
	attrAsctime
	attrCreated
	attrMsecs
	attrName
	attrLevelName
	attrLevelNo
	attrThreadName
	attrMessage
	attrFilename
	attrLineNo
	attrFuncName
	attrProcess
)

var attributes = map[string]attribute{
	"asctime":    attrAsctime,
	"created":    attrCreated,
	"msecs":      attrMsecs,
	"name":       attrName,
	"levelname":  attrLevelName,
	"levelno":    attrLevelNo,
	"threadName": attrThreadName,
	"message":    attrMessage,
	"filename":   attrFilename,
	"lineno":     attrLineNo,
	"funcName":   attrFuncName,
	"process":    attrProcess,
}

type segment struct {
	attr      attribute
	literal   string
	width     int
	leftAlign bool
}

// PatternFormatter renders entries through a "%(attribute)s" layout.
// Structured fields are appended to the message as " key=value".
type PatternFormatter struct {
	Config
	pattern  string
	segments []segment
	caller   bool
	pid      string
}

// NewPatternFormatter compiles pattern. An empty pattern means DefaultPattern.
func NewPatternFormatter(pattern string, cfg Config) (*PatternFormatter, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = DefaultTimestampFormat
	}

	segments, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	f := &PatternFormatter{
		Config:   cfg,
		pattern:  pattern,
		segments: segments,
		caller:   cfg.IncludeCaller,
		pid:      strconv.Itoa(os.Getpid()),
	}
	for _, s := range segments {
		switch s.attr {
		case attrFilename, attrLineNo, attrFuncName:
			f.caller = true
		}
	}
	return f, nil
}

// MustPattern is like NewPatternFormatter but panics on an invalid pattern.
func MustPattern(pattern string, cfg Config) *PatternFormatter {
	f, err := NewPatternFormatter(pattern, cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// Pattern returns the layout the formatter was compiled from.
func (f *PatternFormatter) Pattern() string {
	return f.pattern
}

// NeedsCaller reports whether the layout references caller attributes.
func (f *PatternFormatter) NeedsCaller() bool {
	return f.caller
}

// Format formats an entry through the compiled pattern
func (f *PatternFormatter) Format(entry *core.Entry) ([]byte, error) {
	return formatWith(entry, f.FormatEntry), nil
}

// FormatEntry formats an entry into the given buffer (implements BufferFormatter).
func (f *PatternFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	for _, s := range f.segments {
		if s.attr == attrLiteral {
			buf.WriteString(s.literal)
			continue
		}
		if s.width == 0 {
			f.writeAttr(entry, s.attr, buf)
			continue
		}
		start := buf.Len()
		f.writeAttr(entry, s.attr, buf)
		pad(buf, start, s.width, s.leftAlign)
	}
	buf.WriteByte('\n')
}

func (f *PatternFormatter) writeAttr(entry *core.Entry, attr attribute, buf *bytes.Buffer) {
	switch attr {
	case attrAsctime:
		buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	case attrCreated:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), float64(entry.Time.UnixNano())/1e9, 'f', 6, 64))
	case attrMsecs:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Time.Nanosecond()/1e6), 10))
	case attrName:
		buf.WriteString(entry.Logger)
	case attrLevelName:
		buf.WriteString(entry.Level.String())
	case attrLevelNo:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Level.Number()), 10))
	case attrThreadName:
		buf.WriteString(entry.Thread)
	case attrMessage:
		buf.WriteString(entry.Message)
		for _, field := range entry.Fields {
			buf.WriteByte(' ')
			buf.WriteString(field.Key)
			buf.WriteByte('=')
			buf.WriteString(field.StringValue())
		}
	case attrFilename:
		buf.WriteString(entry.Caller.ShortFile)
	case attrLineNo:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
	case attrFuncName:
		buf.WriteString(entry.Caller.Function)
	case attrProcess:
		buf.WriteString(f.pid)
	}
}

// pad widens the text written since start to width runes.
func pad(buf *bytes.Buffer, start, width int, left bool) {
	n := utf8.RuneCount(buf.Bytes()[start:])
	if n >= width {
		return
	}
	fill := strings.Repeat(" ", width-n)
	if left {
		buf.WriteString(fill)
		return
	}
	value := string(buf.Bytes()[start:])
	buf.Truncate(start)
	buf.WriteString(fill)
	buf.WriteString(value)
}

// compilePattern splits pattern into literal and attribute segments.
// Placeholders take the form %(name)[-][width](s|d|f); "%%" is a literal percent.
func compilePattern(pattern string) ([]segment, error) {
	var segments []segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(pattern) {
			return nil, fmt.Errorf("%w: trailing %% at offset %d", ErrInvalidPattern, i)
		}
		switch pattern[i+1] {
		case '%':
			lit.WriteByte('%')
			i++
			continue
		case '(':
		default:
			return nil, fmt.Errorf("%w: unexpected %q after %% at offset %d", ErrInvalidPattern, pattern[i+1], i)
		}

		end := strings.IndexByte(pattern[i+2:], ')')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrInvalidPattern, i)
		}
		name := pattern[i+2 : i+2+end]
		attr, ok := attributes[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown attribute %q", ErrInvalidPattern, name)
		}

		j := i + 2 + end + 1
		seg := segment{attr: attr}
		if j < len(pattern) && pattern[j] == '-' {
			seg.leftAlign = true
			j++
		}
		for j < len(pattern) && pattern[j] >= '0' && pattern[j] <= '9' {
			seg.width = seg.width*10 + int(pattern[j]-'0')
			j++
		}
		if j >= len(pattern) || !strings.ContainsRune("sdf", rune(pattern[j])) {
			return nil, fmt.Errorf("%w: missing conversion for %q", ErrInvalidPattern, name)
		}

		flush()
		segments = append(segments, seg)
		i = j
	}
	flush()
	return segments, nil
}
