package dsl

import "fmt"

// Tag identifies the kind of a token.
type Tag int

const (
	TagDot Tag = iota
	TagEquals
	TagLeftBrace
	TagNewline
	TagPipe
	TagRightBrace
	TagSlash
	TagTilde
	TagUnderscore

	// TagReserved marks symbols with no meaning in the language yet.
	TagReserved

	// Space-delimited words.
	TagTerminal
	TagVariable
)

var tagNames = map[Tag]string{
	TagDot:        "Dot",
	TagEquals:     "Equals",
	TagLeftBrace:  "LeftBrace",
	TagNewline:    "Newline",
	TagPipe:       "Pipe",
	TagRightBrace: "RightBrace",
	TagSlash:      "Slash",
	TagTilde:      "Tilde",
	TagUnderscore: "Underscore",
	TagReserved:   "Reserved",
	TagTerminal:   "Terminal",
	TagVariable:   "Variable",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Token is a tagged slice of the source with its 1-based position.
// Column counts code points, not bytes.
type Token struct {
	Line    int
	Column  int
	Tag     Tag
	Literal string
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Tag, t.Literal)
}
