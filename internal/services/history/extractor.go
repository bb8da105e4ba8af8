// Package history carves date windows out of streamed daily price series
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrStockNotFound means the provider's error marker appeared in the stream.
	ErrStockNotFound = errors.New("history: stock not found")
	// ErrDateNotFound means the stream ended before the window was closed.
	// Either boundary may be the one that never matched.
	ErrDateNotFound = errors.New("history: date window not found")
	// ErrProviderFault means the provider answered with a notice instead of a
	// series, such as a rate limit or quota message.
	ErrProviderFault = errors.New("history: provider fault")
)

// maxLineSize bounds a single line of the provider document.
const maxLineSize = 1 << 20

// Markers describes the textual layout of a provider's daily series document.
type Markers struct {
	Error       string   // literal that marks a provider-side "stock not found"
	Faults      []string // literals that mark a notice in place of the series
	ObjectStart string
	ObjectEnd   string
	Separator   byte
}

// DefaultMarkers matches Alpha Vantage's pretty-printed TIME_SERIES_DAILY layout:
//
//	"2022-11-22": {
//	    "1. open": "148.1300",
//	    ...
//	},
var DefaultMarkers = Markers{
	Error:       `"Error Message"`,
	Faults:      []string{`"Information"`, `"Note"`},
	ObjectStart: "{",
	ObjectEnd:   "}",
	Separator:   ',',
}

type phase int

const (
	phaseIdle phase = iota
	phaseReading
	phaseFinishing
	phaseDone
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseReading:
		return "reading"
	case phaseFinishing:
		return "finishing"
	case phaseDone:
		return "done"
	case phaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// windowState is the complete scanning state of one extraction.
// It is passed by value into each step and the updated copy is returned.
type windowState struct {
	phase    phase
	openKey  string // quoted later boundary, e.g. "2022-11-22"
	closeKey string // quoted earlier boundary
	buf      []byte
	err      error
}

// Extractor scans a descending, date-keyed document line by line and returns
// the sub-object covering an inclusive date window. It holds no per-call state
// and is safe for concurrent use over independent readers.
type Extractor struct {
	markers Markers
}

// NewExtractor creates an extractor for the given document layout.
func NewExtractor(m Markers) *Extractor {
	return &Extractor{markers: m}
}

// Extract reads r once and returns a standalone object holding every entry
// dated in [closeDate, openDate]. openDate is the later boundary.
// Reading stops as soon as the window closes or the error marker is seen.
func (e *Extractor) Extract(r io.Reader, openDate, closeDate string) (string, error) {
	st := windowState{
		openKey:  `"` + openDate + `"`,
		closeKey: `"` + closeDate + `"`,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		st = e.step(st, sc.Text())
		switch st.phase {
		case phaseDone:
			return string(st.buf), nil
		case phaseFailed:
			return "", st.err
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read daily series: %w", err)
	}
	return "", ErrDateNotFound
}

// step advances the state machine by one line.
func (e *Extractor) step(st windowState, line string) windowState {
	if strings.Contains(line, e.markers.Error) {
		st.phase = phaseFailed
		st.err = ErrStockNotFound
		st.buf = nil
		return st
	}
	if e.isFault(line) {
		st.phase = phaseFailed
		st.err = ErrProviderFault
		st.buf = nil
		return st
	}

	switch st.phase {
	case phaseIdle:
		if !e.isEntryStart(line, st.openKey) {
			return st
		}
		st.phase = phaseReading
		st.buf = append(st.buf, e.markers.ObjectStart...)
		// A single-day window opens and enters Finishing on this same line.
		fallthrough
	case phaseReading:
		st.buf = appendLine(st.buf, line)
		if e.isEntryStart(line, st.closeKey) {
			st.phase = phaseFinishing
			return e.finish(st, line)
		}
	case phaseFinishing:
		st.buf = appendLine(st.buf, line)
		return e.finish(st, line)
	}
	return st
}

// finish closes the window once the closing entry's end marker is seen.
func (e *Extractor) finish(st windowState, line string) windowState {
	if !strings.Contains(line, e.markers.ObjectEnd) {
		return st
	}
	st.buf = trimSeparator(st.buf, e.markers.Separator)
	st.buf = appendLine(st.buf, e.markers.ObjectEnd)
	st.phase = phaseDone
	return st
}

// isFault matches a fault key exactly, so the meta entry "1. Information"
// does not trip it.
func (e *Extractor) isFault(line string) bool {
	for _, m := range e.markers.Faults {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func (e *Extractor) isEntryStart(line, key string) bool {
	return strings.Contains(line, key) && strings.Contains(line, e.markers.ObjectStart)
}

func appendLine(buf []byte, line string) []byte {
	buf = append(buf, '\n')
	return append(buf, line...)
}

// trimSeparator drops one trailing separator, ignoring trailing whitespace.
// The last entry of a document has none, so the trim is conditional.
func trimSeparator(buf []byte, sep byte) []byte {
	end := len(buf)
	for end > 0 && isSpace(buf[end-1]) {
		end--
	}
	if end > 0 && buf[end-1] == sep {
		return buf[:end-1]
	}
	return buf[:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
