// Package scanner turns Lox source text into a token sequence,
// accumulating lexical errors rather than stopping at the first one.
package scanner

import (
	"strconv"

	"github.com/cmdneo/loxwalk/loxerr"
	"github.com/cmdneo/loxwalk/token"
	"github.com/hashicorp/go-multierror"
)

const eofChar = 0

type Scanner struct {
	source  string
	start   int
	current int
	line    int

	tokens []token.Token
	errs   *multierror.Error
}

func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// Scan runs the scanner to completion. On success it returns the full
// token sequence and a nil error. If any lexical error occurred it
// returns nil tokens and the accumulated errors instead.
func (s *Scanner) Scan() ([]token.Token, error) {
	for !s.isAtEnd() {
		s.skipBlanksAndComments()
		if s.isAtEnd() {
			break
		}
		s.start = s.current
		s.scanToken()
	}

	if err := s.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return s.tokens, nil
}

func (s *Scanner) scanToken() {
	c := s.advance()

	switch c {
	case '(':
		s.addToken(token.LEFT_PAREN)
	case ')':
		s.addToken(token.RIGHT_PAREN)
	case '{':
		s.addToken(token.LEFT_BRACE)
	case '}':
		s.addToken(token.RIGHT_BRACE)
	case ',':
		s.addToken(token.COMMA)
	case '.':
		s.addToken(token.DOT)
	case '-':
		s.addToken(token.MINUS)
	case '+':
		s.addToken(token.PLUS)
	case ';':
		s.addToken(token.SEMICOLON)
	case '*':
		s.addToken(token.STAR)
	case '/':
		s.addToken(token.SLASH)

	case '!':
		s.addToken(s.choose(s.match('='), token.BANG_EQUAL, token.BANG))
	case '=':
		s.addToken(s.choose(s.match('='), token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		s.addToken(s.choose(s.match('='), token.LESS_EQUAL, token.LESS))
	case '>':
		s.addToken(s.choose(s.match('='), token.GREATER_EQUAL, token.GREATER))

	case '"':
		s.scanString()

	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isIdentFirstChar(c):
			s.scanIdentifier()
		default:
			s.errorf("Unexpected character: '%c'", c)
		}
	}
}

func (s *Scanner) scanString() {
	for !s.isAtEnd() && s.peek() != '"' {
		s.advance()
	}

	if s.isAtEnd() {
		s.errorf("Unterminated string.")
		return
	}

	s.advance() // the closing quote
	literal := s.source[s.start+1 : s.current-1]
	s.addTokenLiteral(token.STRING, literal)
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	n := parseFloat(s.source[s.start:s.current])
	s.addTokenLiteral(token.NUMBER, n)
}

func (s *Scanner) scanIdentifier() {
	for isIdentChar(s.peek()) {
		s.advance()
	}
	lexeme := s.source[s.start:s.current]
	s.addToken(token.Lookup(lexeme))
}

// Character classes
// --------------------------------------------------------
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentFirstChar(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentChar(c byte) bool { return isIdentFirstChar(c) || isDigit(c) }

// Low-level cursor operations
// --------------------------------------------------------
func (s *Scanner) skipBlanksAndComments() {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
		case '/':
			if s.peekNext() != '/' {
				return
			}
			for !s.isAtEnd() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) isAtEnd() bool { return s.current >= len(s.source) }

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return eofChar
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return eofChar
	}
	return s.source[s.current+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) choose(cond bool, ifTrue, ifFalse token.Kind) token.Kind {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addTokenLiteral(kind, nil)
}

func (s *Scanner) addTokenLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.Token{
		Kind:    kind,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) errorf(format string, args ...any) {
	s.errs = multierror.Append(s.errs, loxerr.New(s.line, format, args...))
}

func parseFloat(lexeme string) float64 {
	// The lexer grammar ([0-9]+ ( . [0-9]+ )?) guarantees this always
	// parses; any error here would be an internal scanner bug.
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		panic(err)
	}
	return n
}
