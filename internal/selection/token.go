// Package selection implements the selection-expression compiler and the
// word-parallel SelectionVector/Selections evaluator: the small RPN
// sub-language used to combine marked-object layers ("A and B", "S(not C)",
// "current - D"), and the bit-vector machinery that executes it.
package selection

import (
	"strings"

	"github.com/stefanreuther/c2ng-sub044/internal/token"
)

// TokenKind classifies one lexical token of a selection expression.
type TokenKind uint8

const (
	End TokenKind = iota
	Identifier
	Integer
	And
	Or
	Xor
	Not
	Plus
	Minus
	Multiply
	LParen
	RParen
)

var keywords = map[string]TokenKind{
	"AND": And,
	"OR":  Or,
	"XOR": Xor,
	"NOT": Not,
}

// Tokenizer is the narrow lexer interface the compiler reads from. It is
// satisfied by *Scanner below; tests can substitute a canned sequence.
type Tokenizer interface {
	Current() TokenKind
	CurrentString() string
	CurrentInteger() int64
	Pos() token.Pos
	Next() error
}

// Scanner tokenizes a selection-expression string: an identifier run of
// letters/digits starting with a letter (case-insensitively matched against
// the reserved words AND/OR/XOR/NOT, and otherwise a bare identifier such as
// a layer letter or SHIPS/PLANETS/CURRENT), a decimal integer, or one of the
// single-character operators +-*()  . Whitespace separates tokens and is
// otherwise ignored; there are no comments, escapes, or strings.
type Scanner struct {
	src  string
	off  int
	line int

	cur     TokenKind
	curStr  string
	curInt  int64
	curLine int
}

// NewScanner returns a Scanner ready to tokenize src, positioned before the
// first token: call Next once before reading Current.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

func (s *Scanner) Current() TokenKind    { return s.cur }
func (s *Scanner) CurrentString() string { return s.curStr }
func (s *Scanner) CurrentInteger() int64 { return s.curInt }
func (s *Scanner) Pos() token.Pos        { return token.MakePos(s.curLine, 1) }

// Next advances to the next token. The zero-value Scanner's first call to
// Next scans the first token; End is sticky once reached.
func (s *Scanner) Next() error {
	s.skipSpace()
	s.curLine = s.line
	s.curStr = ""
	s.curInt = 0

	if s.off >= len(s.src) {
		s.cur = End
		return nil
	}

	c := s.src[s.off]
	switch {
	case c == '(':
		s.off++
		s.cur = LParen
	case c == ')':
		s.off++
		s.cur = RParen
	case c == '+':
		s.off++
		s.cur = Plus
	case c == '-':
		s.off++
		s.cur = Minus
	case c == '*':
		s.off++
		s.cur = Multiply
	case isDigit(c):
		start := s.off
		for s.off < len(s.src) && isDigit(s.src[s.off]) {
			s.off++
		}
		s.curStr = s.src[start:s.off]
		s.curInt = parseDecimal(s.curStr)
		s.cur = Integer
	case isAlpha(c):
		start := s.off
		for s.off < len(s.src) && isAlnum(s.src[s.off]) {
			s.off++
		}
		// Identifiers are canonicalized to upper case: layer letters and
		// SHIPS/PLANETS/CURRENT are all case-insensitive in the grammar.
		s.curStr = strings.ToUpper(s.src[start:s.off])
		if kw, ok := keywords[s.curStr]; ok {
			s.cur = kw
		} else {
			s.cur = Identifier
		}
	default:
		s.off++
		s.cur = End
	}
	return nil
}

func (s *Scanner) skipSpace() {
	for s.off < len(s.src) {
		c := s.src[s.off]
		if c == '\n' {
			s.line++
			s.off++
		} else if c == ' ' || c == '\t' || c == '\r' {
			s.off++
		} else {
			break
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func parseDecimal(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n
}

// checkAdvance reports whether the current token is k and, if so, advances
// past it -- mirroring Tokenizer::checkAdvance in the reference compiler.
func checkAdvance(t Tokenizer, k TokenKind) bool {
	if t.Current() != k {
		return false
	}
	t.Next()
	return true
}

// checkAdvanceWord reports whether the current token is an Identifier equal
// to word, case-insensitively, and if so advances past it.
func checkAdvanceWord(t Tokenizer, word string) bool {
	if t.Current() != Identifier || !strings.EqualFold(t.CurrentString(), word) {
		return false
	}
	t.Next()
	return true
}
