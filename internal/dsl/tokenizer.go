package dsl

import (
	"regexp"
	"unicode"
)

// separators maps structural symbols to their tags.
var separators = map[rune]Tag{
	'.':  TagDot,
	'/':  TagSlash,
	'=':  TagEquals,
	'\n': TagNewline,
	'_':  TagUnderscore,
	'{':  TagLeftBrace,
	'|':  TagPipe,
	'}':  TagRightBrace,
	'~':  TagTilde,
}

// reserved symbols are not used by the language yet.
var reserved = map[rune]bool{
	'!': true, '$': true, '%': true, '&': true, '\'': true, '(': true,
	')': true, '*': true, '+': true, ',': true, '-': true, ':': true,
	';': true, '<': true, '>': true, '?': true, '@': true, '[': true,
	'\\': true, ']': true, '^': true, '`': true, '"': true,
}

// boundary is a terminal that always stands alone, even inside a word.
const boundary = '#'

var variablePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Tokenizer scans rule-language source text.
type Tokenizer struct {
	src    []rune
	index  int
	line   int
	column int
	tokens []Token
}

// NewTokenizer returns a tokenizer positioned at the start of code.
func NewTokenizer(code string) *Tokenizer {
	return &Tokenizer{
		src:    []rune(code),
		line:   1,
		column: 1,
	}
}

// Tokenize converts code into tokens. It never fails: unexpected input
// surfaces as Reserved or Terminal tokens for the parser to reject.
func Tokenize(code string) []Token {
	return NewTokenizer(code).Tokenize()
}

// Tokenize processes the entire input and returns the list of tokens.
func (t *Tokenizer) Tokenize() []Token {
	for {
		t.skipSpace()
		if t.done() {
			return t.tokens
		}

		c := t.peek(0)
		switch {
		case c == '-' && t.peek(1) == '-':
			// Comment runs to end of line; the newline stays significant.
			t.skipLine()
		case reserved[c]:
			t.emit(TagReserved)
		case c == boundary:
			t.emit(TagTerminal)
		default:
			if tag, ok := separators[c]; ok {
				t.emit(tag)
				continue
			}
			t.lexWord()
		}
	}
}

func (t *Tokenizer) done() bool {
	return t.index >= len(t.src)
}

// peek returns the rune offset steps ahead, or 0 past the end.
func (t *Tokenizer) peek(offset int) rune {
	if t.index+offset >= len(t.src) {
		return 0
	}
	return t.src[t.index+offset]
}

// advance consumes one rune and updates the position.
func (t *Tokenizer) advance() {
	if t.done() {
		return
	}
	c := t.src[t.index]
	t.index++
	t.column++
	if c == '\n' {
		t.line++
		t.column = 1
	}
}

func (t *Tokenizer) skipSpace() {
	for !t.done() && isSpace(t.peek(0)) {
		t.advance()
	}
}

func (t *Tokenizer) skipLine() {
	for !t.done() && t.peek(0) != '\n' {
		t.advance()
	}
}

// emit produces a single-rune token and consumes it.
func (t *Tokenizer) emit(tag Tag) {
	t.tokens = append(t.tokens, Token{
		Line:    t.line,
		Column:  t.column,
		Tag:     tag,
		Literal: string(t.peek(0)),
	})
	t.advance()
}

// lexWord scans a maximal run of non-space, non-breakpoint runes.
func (t *Tokenizer) lexWord() {
	line, column := t.line, t.column
	start := t.index
	for !t.done() && !isBreakpoint(t.peek(0)) {
		t.advance()
	}

	literal := string(t.src[start:t.index])
	tag := TagTerminal
	if variablePattern.MatchString(literal) {
		tag = TagVariable
	}
	t.tokens = append(t.tokens, Token{
		Line:    line,
		Column:  column,
		Tag:     tag,
		Literal: literal,
	})
}

// isSpace reports insignificant whitespace. Newlines are significant.
func isSpace(c rune) bool {
	return c != '\n' && unicode.IsSpace(c)
}

// isBreakpoint reports runes that end a word.
func isBreakpoint(c rune) bool {
	if unicode.IsSpace(c) || reserved[c] || c == boundary {
		return true
	}
	_, ok := separators[c]
	return ok
}
