// Public domain.

// Package table reads the line-oriented tabular markup used for double star
// measurement files.
//
// A file is a sequence of physical lines.  Inside the array region, lines
// are coalesced into logical rows: fields are separated by '&', a row ends
// at a '\\' terminator, and a row may span at most two physical lines.
// Lines starting with '%' are comments; '%%' marks a silent annotation that
// is never reported.  Outside the array region (before \begin{tabular},
// after \end{tabular}) lines are passed through untouched as boilerplate.
//
// The Scanner only delimits.  It does not interpret fields and it does not
// reject malformed rows; that is left to the Row accessors in column.go.
package table

import (
	"bufio"
	"io"
	"strings"
)

// Dialect tokens.
const (
	Separator  = '&'
	Comment    = '%'
	Terminator = `\\`
	NoData     = `\nodata`
	BeginArray = `\begin{tabular}`
	EndArray   = `\end{tabular}`
	// HeaderMark on the first line says the file carries a full document
	// header, so scanning starts outside the array region.
	HeaderMark = `\documentclass`
)

// DefaultMaxLine is the physical line length beyond which input is
// truncated.
const DefaultMaxLine = 360

// maxRowLines is the most physical lines coalesced into one logical row.
const maxRowLines = 2

// Kind identifies what an Item holds.
type Kind int

const (
	KindRow         Kind = iota // logical data row
	KindComment                 // visible comment, only in IncludeComments mode
	KindBoilerplate             // line outside the array region
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindComment:
		return "comment"
	case KindBoilerplate:
		return "boilerplate"
	}
	return "unknown"
}

// Item is one unit produced by the Scanner.
type Item struct {
	Kind Kind
	Line int    // physical line number (1 based) where the item started
	Text string // row text with the terminator removed and lines joined
	// Unterminated is set on a row that reached the physical line limit,
	// or the end of the array region, without a terminator.
	Unterminated bool
}

// Row converts a row item to a Row for column access.
func (it Item) Row() *Row {
	return NewRow(it.Line, it.Text)
}

type state int

const (
	outsideArray state = iota
	rowClosed          // inside the array, between rows
	rowOpen            // inside the array, accumulating a row
)

func (s state) String() string {
	switch s {
	case outsideArray:
		return "outside-array"
	case rowClosed:
		return "row-closed"
	case rowOpen:
		return "row-open"
	}
	return "invalid"
}

// Options control a Scanner.
type Options struct {
	IncludeComments bool // report visible comments as KindComment items
	MaxLine         int  // zero means DefaultMaxLine
}

// Scanner produces Items from a line stream.  It is not restartable.
type Scanner struct {
	r       *bufio.Reader
	opt     Options
	st      state
	line    int
	start   int      // line where the open row started
	buf     []string // physical lines of the open row
	pending []Item

	// Truncated counts physical lines cut at MaxLine.
	Truncated int
}

// NewScanner returns a Scanner reading r.
func NewScanner(r io.Reader, opt Options) *Scanner {
	if opt.MaxLine <= 0 {
		opt.MaxLine = DefaultMaxLine
	}
	size := opt.MaxLine + 1
	if size < 16 {
		size = 16
	}
	return &Scanner{
		r:   bufio.NewReaderSize(r, size),
		opt: opt,
		st:  rowClosed,
	}
}

// Next returns the next item.  At end of input it returns io.EOF; a row
// still open at that point is returned first, marked Unterminated.
// Any other error is a read error and should be considered fatal.
func (s *Scanner) Next() (Item, error) {
	for {
		if len(s.pending) > 0 {
			it := s.pending[0]
			s.pending = s.pending[1:]
			return it, nil
		}
		l, err := s.readLine()
		if err == io.EOF {
			if s.st == rowOpen {
				return s.flush(), nil
			}
			return Item{}, io.EOF
		}
		if err != nil {
			return Item{}, err
		}
		if s.line == 1 && strings.HasPrefix(l, HeaderMark) {
			s.st = outsideArray
		}
		if it, ok := s.step(l); ok {
			return it, nil
		}
	}
}

// step advances the state machine by one physical line.
func (s *Scanner) step(l string) (Item, bool) {
	t := strings.TrimSpace(l)
	if s.st == outsideArray {
		if strings.HasPrefix(t, BeginArray) {
			s.st = rowClosed
		}
		return Item{Kind: KindBoilerplate, Line: s.line, Text: l}, true
	}
	if len(t) > 0 && t[0] == Comment {
		if strings.HasPrefix(t, "%%") || !s.opt.IncludeComments {
			return Item{}, false
		}
		return Item{
			Kind: KindComment,
			Line: s.line,
			Text: strings.TrimSpace(t[1:]),
		}, true
	}
	if strings.HasPrefix(t, EndArray) {
		if s.st == rowOpen {
			s.pending = append(s.pending, s.flush())
		}
		s.st = outsideArray
		s.pending = append(s.pending,
			Item{Kind: KindBoilerplate, Line: s.line, Text: l})
		return Item{}, false
	}
	if s.st == rowClosed && strings.HasPrefix(t, BeginArray) {
		// headerless file that still opens the array
		return Item{Kind: KindBoilerplate, Line: s.line, Text: l}, true
	}
	l = stripComment(l)
	if s.st == rowClosed {
		if isSeparatorLine(strings.TrimSpace(l)) {
			return Item{}, false
		}
		s.st = rowOpen
		s.start = s.line
	}
	if i := strings.Index(l, Terminator); i >= 0 {
		s.buf = append(s.buf, l[:i])
		it := Item{
			Kind: KindRow,
			Line: s.start,
			Text: strings.Join(s.buf, " "),
		}
		s.buf = s.buf[:0]
		s.st = rowClosed
		return it, true
	}
	s.buf = append(s.buf, l)
	if len(s.buf) == maxRowLines {
		return s.flush(), true
	}
	return Item{}, false
}

// flush closes the open row without a terminator.
func (s *Scanner) flush() Item {
	it := Item{
		Kind:         KindRow,
		Line:         s.start,
		Text:         strings.Join(s.buf, " "),
		Unterminated: true,
	}
	s.buf = s.buf[:0]
	s.st = rowClosed
	return it
}

func (s *Scanner) readLine() (string, error) {
	b, pre, err := s.r.ReadLine()
	if err != nil {
		return "", err
	}
	line := string(b)
	// discard the remainder of an over long line
	for pre {
		_, pre, err = s.r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	s.line++
	if len(line) > s.opt.MaxLine {
		line = line[:s.opt.MaxLine]
		s.Truncated++
	}
	return line, nil
}

// separator lines carry no data: blank lines and rules.
func isSeparatorLine(t string) bool {
	return t == "" ||
		strings.HasPrefix(t, `\hline`) ||
		strings.HasPrefix(t, `\cline`) ||
		strings.HasPrefix(t, `\noalign`)
}

// stripComment removes an unescaped trailing comment from a physical line.
func stripComment(l string) string {
	for i := 0; i < len(l); i++ {
		switch l[i] {
		case '\\':
			i++ // skip escaped character
		case Comment:
			return l[:i]
		}
	}
	return l
}
