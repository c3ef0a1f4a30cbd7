// Package parse implements a recursive-descent SQL parser: a text/scanner
// based lexer tokenizes the statement text, and the parser builds one of
// the *Data structs (QueryData, InsertData, DeleteData, ModifyData,
// CreateTableData, CreateViewData, CreateIndexData) the planner consumes.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
)

// keywords is the set of reserved words MatchId refuses to treat as an
// identifier.
var keywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true,
	"insert": true, "into": true, "values": true, "delete": true,
	"update": true, "set": true, "create": true, "table": true,
	"int": true, "varchar": true, "view": true, "as": true,
	"index": true, "on": true, "using": true, "hash": true, "btree": true,
}

// Lexer tokenizes a SQL statement one token at a time, built on the
// standard library's text/scanner.
type Lexer struct {
	scanner     scanner.Scanner
	currentRune rune
}

// NewLexer builds a lexer over s and reads its first token.
func NewLexer(s string) *Lexer {
	var sc scanner.Scanner
	sc.Init(strings.NewReader(s))
	sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings | scanner.ScanChars
	// SQL's single-quoted strings scan as Char tokens; the scanner's
	// complaint about multi-character char literals does not apply here.
	sc.Error = func(*scanner.Scanner, string) {}
	sc.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || unicode.IsLetter(ch) || (i > 0 && unicode.IsDigit(ch))
	}

	l := &Lexer{scanner: sc}
	l.nextToken()
	return l
}

func (l *Lexer) MatchDelim(d rune) bool {
	return l.currentRune == d
}

func (l *Lexer) MatchIntConstant() bool {
	return l.currentRune == scanner.Int
}

func (l *Lexer) MatchStringConstant() bool {
	return l.currentRune == scanner.String || l.currentRune == scanner.Char
}

func (l *Lexer) MatchKeyword(w string) bool {
	return l.currentRune == scanner.Ident && strings.EqualFold(l.scanner.TokenText(), w)
}

func (l *Lexer) MatchId() bool {
	return l.currentRune == scanner.Ident && !keywords[strings.ToLower(l.scanner.TokenText())]
}

func (l *Lexer) EatDelim(d rune) error {
	if !l.MatchDelim(d) {
		return fmt.Errorf("parse: expected delimiter %q, got %q", d, l.scanner.TokenText())
	}
	l.nextToken()
	return nil
}

func (l *Lexer) EatIntConstant() (int, error) {
	if !l.MatchIntConstant() {
		return 0, fmt.Errorf("parse: expected integer constant, got %q", l.scanner.TokenText())
	}
	value, err := strconv.Atoi(l.scanner.TokenText())
	if err != nil {
		return 0, fmt.Errorf("parse: invalid integer constant %q: %w", l.scanner.TokenText(), err)
	}
	l.nextToken()
	return value, nil
}

func (l *Lexer) EatStringConstant() (string, error) {
	if !l.MatchStringConstant() {
		return "", fmt.Errorf("parse: expected string constant, got %q", l.scanner.TokenText())
	}
	text := l.scanner.TokenText()
	value := text[1 : len(text)-1]
	l.nextToken()
	return value, nil
}

func (l *Lexer) EatKeyword(w string) error {
	if !l.MatchKeyword(w) {
		return fmt.Errorf("parse: expected keyword %q, got %q", w, l.scanner.TokenText())
	}
	l.nextToken()
	return nil
}

func (l *Lexer) EatId() (string, error) {
	if !l.MatchId() {
		return "", fmt.Errorf("parse: expected identifier, got %q", l.scanner.TokenText())
	}
	value := l.scanner.TokenText()
	l.nextToken()
	return value, nil
}

func (l *Lexer) nextToken() {
	l.currentRune = l.scanner.Scan()
}
