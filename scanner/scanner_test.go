package scanner

import (
	"testing"

	"github.com/cmdneo/loxwalk/token"
	"github.com/hashicorp/go-multierror"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanPunctuatorsAndOperators(t *testing.T) {
	toks, err := New("(){},.-+;*/ != == <= >= < > = !").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, kinds(toks),
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.STAR, token.SLASH,
		token.BANG_EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.LESS, token.GREATER, token.EQUAL, token.BANG,
	)
}

func TestScanSkipsCarriageReturnsAndComments(t *testing.T) {
	toks, err := New("var\r\n x = 1; // comment\r\nprint x;").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, kinds(toks),
		token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.PRINT, token.IDENTIFIER, token.SEMICOLON,
	)
	if toks[5].Line != 3 {
		t.Fatalf("expected print on line 3, got %d", toks[5].Line)
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, err := New(`"hello world"`).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, kinds(toks), token.STRING)
	if toks[0].Literal != "hello world" {
		t.Fatalf("got literal %q", toks[0].Literal)
	}
}

func TestScanMultilineString(t *testing.T) {
	toks, err := New("\"line one\nline two\"\nprint 1;").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Literal != "line one\nline two" {
		t.Fatalf("got literal %q", toks[0].Literal)
	}
	// "print" starts on line 3 since the string literal consumed a newline.
	var printTok token.Token
	for _, tok := range toks {
		if tok.Kind == token.PRINT {
			printTok = tok
		}
	}
	if printTok.Line != 3 {
		t.Fatalf("expected print on line 3, got %d", printTok.Line)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := New(`"never closed`).Scan()
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestScanNumberLiteral(t *testing.T) {
	toks, err := New("123 45.67").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Literal.(float64) != 123 {
		t.Fatalf("got %v", toks[0].Literal)
	}
	if toks[1].Literal.(float64) != 45.67 {
		t.Fatalf("got %v", toks[1].Literal)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, err := New("class fun orchid").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, kinds(toks), token.CLASS, token.FUN, token.IDENTIFIER)
}

func TestScanAccumulatesMultipleErrors(t *testing.T) {
	_, err := New("@ # $").Scan()
	if err == nil {
		t.Fatalf("expected accumulated errors")
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 3 {
		t.Fatalf("expected 3 accumulated errors, got %d", len(merr.Errors))
	}
}
