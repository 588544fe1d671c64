// Public domain.

package dsmeas

import (
	"regexp"
	"strconv"
	"strings"
)

// Keys recognized in the notes column.
const (
	KeyEpoch       = "EP"
	KeyQuadrant    = "Q"
	KeyLongQuad    = "LQ" // quadrant from a long integration
	KeyLastYear    = "WY"
	KeyLastTheta   = "WT"
	KeyLastRho     = "WR"
	KeyDeltaMag    = "Dm"
	KeyDeltaMagAlt = "dm"
)

// Position angle annotations written after θ in reduced tables.
const (
	MarkQuadrant = "*" // settled by a stated quadrant
	MarkCatalog  = ":" // settled against a catalog angle
)

// TrimMark splits an annotated position angle such as "66.33*" into the
// number and its mark.
func TrimMark(s string) (num, mark string) {
	for _, mk := range []string{MarkQuadrant, MarkCatalog} {
		if strings.HasSuffix(s, mk) {
			return strings.TrimSpace(s[:len(s)-len(mk)]), mk
		}
	}
	return s, ""
}

var rxToken = regexp.MustCompile(`(^|[\s,;(])(EP|LQ|Q|WY|WT|WR|Dm|dm)=([^\s,;)]*)`)

// Notes is the parsed notes column.
type Notes struct {
	Text   string            // free text, tokens removed unless kept
	Tokens map[string]string // key to raw value; Dm and dm share "Dm"
}

// ParseNotes extracts KEY=VALUE tokens from s.  With keep false, tokens are
// removed from the returned text.
func ParseNotes(s string, keep bool) Notes {
	n := Notes{Tokens: map[string]string{}}
	var b strings.Builder
	last := 0
	for _, m := range rxToken.FindAllStringSubmatchIndex(s, -1) {
		key := s[m[4]:m[5]]
		if key == KeyDeltaMagAlt {
			key = KeyDeltaMag
		}
		if _, dup := n.Tokens[key]; !dup {
			n.Tokens[key] = s[m[6]:m[7]]
		}
		// keep the leading delimiter, drop the token
		b.WriteString(s[last:m[3]])
		last = m[1]
	}
	if keep {
		n.Text = strings.TrimSpace(s)
		return n
	}
	b.WriteString(s[last:])
	n.Text = strings.Join(strings.Fields(b.String()), " ")
	return n
}

// Float returns the numeric value of a token.
func (n Notes) Float(key string) (float64, bool) {
	s, ok := n.Tokens[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Value returns a token as a Value, None when absent or unparsable.
func (n Notes) Value(key string) Value {
	if f, ok := n.Float(key); ok {
		return Of(f)
	}
	return Value{}
}

// Quadrant returns the stated quadrant.  Q= takes precedence over LQ=.
// A trailing '?' marks the quadrant uncertain without changing it; a bare
// "?" is QuadUncertain.
func (n Notes) Quadrant() (q Quadrant, uncertain bool) {
	s, ok := n.Tokens[KeyQuadrant]
	if !ok {
		if s, ok = n.Tokens[KeyLongQuad]; !ok {
			return QuadUnknown, false
		}
	}
	if strings.HasSuffix(s, "?") {
		uncertain = true
		s = s[:len(s)-1]
	}
	if s == "" {
		if uncertain {
			return QuadUncertain, true
		}
		return QuadUnknown, false
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > 4 {
		return QuadUnknown, false
	}
	return Quadrant(i), uncertain
}

// DeltaMag returns the magnitude difference and its error, written as
// Dm=1.23 or Dm=1.23+-0.05.
func (n Notes) DeltaMag() (dm, err Value) {
	s, ok := n.Tokens[KeyDeltaMag]
	if !ok {
		return
	}
	v, e, _ := strings.Cut(s, "+-")
	if f, perr := strconv.ParseFloat(v, 64); perr == nil {
		dm = Of(f)
	}
	if f, perr := strconv.ParseFloat(e, 64); perr == nil {
		err = Of(f)
	}
	return
}
