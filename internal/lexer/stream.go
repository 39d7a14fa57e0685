package lexer

// Stream is a read-only cursor over a lexed token sequence. The parser is its
// only consumer; once the cursor reaches EOF it stays there.
type Stream struct {
	toks []Token
	pos  int
}

// NewStream wraps toks. A sequence that does not end in EOF gets one appended
// so lookahead past the last token is always well defined.
func NewStream(toks []Token) *Stream {
	if len(toks) == 0 || toks[len(toks)-1].Type != EOF {
		var span Span
		if len(toks) > 0 {
			last := toks[len(toks)-1].Span
			span = Span{Filename: last.Filename, Line: last.Line, Column: last.Column, Start: last.End, End: last.End}
		}
		toks = append(toks[:len(toks):len(toks)], Token{Type: EOF, Span: span})
	}
	return &Stream{toks: toks}
}

// Current returns the token under the cursor.
func (s *Stream) Current() Token {
	return s.toks[s.pos]
}

// Peek returns the token after the cursor.
func (s *Stream) Peek() Token {
	return s.PeekAt(1)
}

// PeekAt returns the token n positions ahead of the cursor, clamped to EOF.
func (s *Stream) PeekAt(n int) Token {
	i := s.pos + n
	if i >= len(s.toks) {
		i = len(s.toks) - 1
	}
	if i < 0 {
		i = 0
	}
	return s.toks[i]
}

// Advance moves past the current token and returns it.
func (s *Stream) Advance() Token {
	tok := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return tok
}

// Len reports how many tokens, EOF included, the stream holds.
func (s *Stream) Len() int {
	return len(s.toks)
}
