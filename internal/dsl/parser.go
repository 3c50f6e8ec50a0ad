package dsl

import (
	"fmt"
	"regexp"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

// languageCodePattern matches codes usable in a constraint. The wildcard is
// written with the `_` token and handled separately.
var languageCodePattern = regexp.MustCompile(`^[a-z][-a-z]*[a-z]$`)

// Parser consumes tokens produced by the tokenizer and builds an ir.Program.
// Variables are resolved while parsing; the program holds no names.
type Parser struct {
	tokens []Token
	index  int
	scope  *Scope
}

// NewParser creates a parser over tokens with an empty global scope.
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		scope:  NewScope(nil),
	}
}

// Parse tokenizes and parses code.
// Returns a *ParseError if the code is malformed.
func Parse(code string) (*ir.Program, error) {
	return NewParser(Tokenize(code)).ParseProgram()
}

// ParseProgram parses a sequence of statements.
// Assignments contribute no ruleset.
func (p *Parser) ParseProgram() (*ir.Program, error) {
	program := &ir.Program{}
	for {
		tok, ok := p.peek(0)
		if !ok {
			return program, nil
		}
		if tok.Tag == TagNewline {
			p.move()
			continue
		}

		ruleset, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if len(ruleset.Rules) > 0 {
			program.Rulesets = append(program.Rulesets, ruleset)
		}
	}
}

// peek returns the token offset steps ahead without consuming it.
func (p *Parser) peek(offset int) (Token, bool) {
	i := p.index + offset
	if i >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[i], true
}

// peekTag returns the tag of the token offset steps ahead, or -1 past the end.
func (p *Parser) peekTag(offset int) Tag {
	tok, ok := p.peek(offset)
	if !ok {
		return -1
	}
	return tok.Tag
}

// move consumes the current token. It returns false at end of input.
func (p *Parser) move() (Token, bool) {
	tok, ok := p.peek(0)
	if ok {
		p.index++
	}
	return tok, ok
}

// errorAt builds a ParseError positioned at the current token.
func (p *Parser) errorAt(offset int, description string) *ParseError {
	tok, ok := p.peek(offset)
	if !ok {
		return newParseError(nil, description)
	}
	return newParseError(&tok, description)
}

// expect consumes a token with the given tag or fails with description.
func (p *Parser) expect(tag Tag, description string) (Token, error) {
	tok, ok := p.move()
	if !ok {
		return Token{}, newParseError(nil, description)
	}
	if tok.Tag != tag {
		return Token{}, newParseError(&tok, description)
	}
	return tok, nil
}

// parseStatement parses a compound statement when a dot appears within the
// next three tokens, otherwise a simple statement.
func (p *Parser) parseStatement() (ir.Ruleset, error) {
	for offset := 0; offset < 3; offset++ {
		if p.peekTag(offset) == TagDot {
			return p.parseCompoundStatement()
		}
	}

	rules, err := p.parseSimpleStatement()
	if err != nil {
		return ir.Ruleset{}, err
	}
	if err := p.endStatement(false); err != nil {
		return ir.Ruleset{}, err
	}
	return ir.Ruleset{Constraint: ir.AnyLanguage, Rules: rules}, nil
}

// parseCompoundStatement parses a constraint followed by a single rule or a
// block of `|` lines.
func (p *Parser) parseCompoundStatement() (ir.Ruleset, error) {
	constraint, err := p.parseConstraint()
	if err != nil {
		return ir.Ruleset{}, err
	}

	if p.peekTag(0) == TagNewline {
		p.move()
	}

	if p.peekTag(0) == TagPipe {
		rules, err := p.parseBlock()
		if err != nil {
			return ir.Ruleset{}, err
		}
		return ir.Ruleset{Constraint: constraint, Rules: rules}, nil
	}

	rule, err := p.parseSimpleRule()
	if err != nil {
		return ir.Ruleset{}, err
	}
	if err := p.endStatement(false); err != nil {
		return ir.Ruleset{}, err
	}
	return ir.Ruleset{Constraint: constraint, Rules: []ir.Rule{rule}}, nil
}

// parseConstraint parses `lang .` or `lang lang .`.
func (p *Parser) parseConstraint() (ir.Constraint, error) {
	left, err := p.parseLanguageCode()
	if err != nil {
		return ir.Constraint{}, err
	}

	if p.peekTag(0) == TagDot {
		p.move()
		return ir.Constraint{Left: left, Right: left}, nil
	}

	right, err := p.parseLanguageCode()
	if err != nil {
		return ir.Constraint{}, err
	}
	if _, err := p.expect(TagDot, "expected '.'"); err != nil {
		return ir.Constraint{}, err
	}
	return ir.Constraint{Left: left, Right: right}, nil
}

func (p *Parser) parseLanguageCode() (string, error) {
	tok, ok := p.move()
	if !ok {
		return "", newParseError(nil, "expected a language code")
	}
	switch tok.Tag {
	case TagUnderscore:
		return ir.Wildcard, nil
	case TagTerminal:
		if !languageCodePattern.MatchString(tok.Literal) {
			return "", newParseError(&tok, "invalid language code")
		}
		return tok.Literal, nil
	default:
		return "", newParseError(&tok, "expected a language code")
	}
}

// parseBlock parses `|`-prefixed statements inside a fresh scope.
// Blank lines between `|` lines are allowed.
func (p *Parser) parseBlock() ([]ir.Rule, error) {
	outer := p.scope
	p.scope = NewScope(outer)

	var rules []ir.Rule
	for p.peekTag(0) == TagPipe {
		p.move()
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			p.scope = outer
			return nil, err
		}
		if err := p.endStatement(true); err != nil {
			p.scope = outer
			return nil, err
		}
		rules = append(rules, stmt...)

		for p.peekTag(0) == TagNewline {
			p.move()
		}
	}

	p.scope = outer
	return rules, nil
}

// endStatement requires a newline, end of input, or (inside a block) a pipe.
func (p *Parser) endStatement(inBlock bool) error {
	switch p.peekTag(0) {
	case -1, TagNewline:
		return nil
	case TagPipe:
		if inBlock {
			return nil
		}
	}
	return p.errorAt(0, "expected end of statement")
}

// parseSimpleStatement parses an assignment (no rules) or a simple rule.
func (p *Parser) parseSimpleStatement() ([]ir.Rule, error) {
	if p.peekTag(1) == TagEquals {
		return nil, p.parseAssignment()
	}
	rule, err := p.parseSimpleRule()
	if err != nil {
		return nil, err
	}
	return []ir.Rule{rule}, nil
}

// parseAssignment parses `Name = sound` and defines Name in the current scope.
func (p *Parser) parseAssignment() error {
	lhs, err := p.expect(TagVariable, "expected a variable name")
	if err != nil {
		return err
	}
	if _, err := p.expect(TagEquals, "expected '='"); err != nil {
		return err
	}
	rhs, err := p.parseSound()
	if err != nil {
		return err
	}
	if !p.scope.Define(lhs.Literal, rhs) {
		return newParseError(&lhs, fmt.Sprintf("cannot redefine the variable '%s'", lhs.Literal))
	}
	return nil
}

// parseSimpleRule parses `side ~ side` with an optional environment.
func (p *Parser) parseSimpleRule() (ir.Rule, error) {
	leftTok, _ := p.peek(0)
	left, err := p.parseSide()
	if err != nil {
		return ir.Rule{}, err
	}
	if _, err := p.expect(TagTilde, "expected '~'"); err != nil {
		return ir.Rule{}, err
	}

	rightTok, _ := p.peek(0)
	right, err := p.parseSide()
	if err != nil {
		return ir.Rule{}, err
	}

	env, err := p.parseEnvironment()
	if err != nil {
		return ir.Rule{}, err
	}

	if env.Explicit {
		if err := checkSPESide(left, leftTok, "left"); err != nil {
			return ir.Rule{}, err
		}
		if err := checkSPESide(right, rightTok, "right"); err != nil {
			return ir.Rule{}, err
		}
	}

	return ir.Rule{Left: left, Right: right, Environment: env}, nil
}

// checkSPESide enforces at most one sound and no word boundary on a side of
// a rule with an explicit environment.
func checkSPESide(side []ir.Sound, tok Token, name string) error {
	if len(side) > 1 {
		return newParseError(&tok, fmt.Sprintf("too many symbols on the %s-hand side of an SPE-style rule", name))
	}
	for _, sound := range side {
		if ir.Contains(sound, ir.Boundary) {
			return newParseError(&tok, "unexpected '#' outside a sound environment in an SPE-style rule")
		}
	}
	return nil
}

// parseSide parses one or more sounds.
func (p *Parser) parseSide() ([]ir.Sound, error) {
	var sounds []ir.Sound
	for startsSound(p.peekTag(0)) {
		sound, err := p.parseSound()
		if err != nil {
			return nil, err
		}
		sounds = append(sounds, sound)
	}
	if len(sounds) == 0 {
		return nil, p.errorAt(0, "expected a sound value")
	}
	return sounds, nil
}

// parseEnvironment parses `/ A _ B`, where A and B may be empty.
func (p *Parser) parseEnvironment() (ir.Environment, error) {
	if p.peekTag(0) != TagSlash {
		return ir.Environment{}, nil
	}
	p.move()

	env := ir.Environment{Explicit: true}
	if p.peekTag(0) != TagUnderscore {
		sound, err := p.parseSound()
		if err != nil {
			return ir.Environment{}, err
		}
		env.Left = []ir.Sound{sound}
	}

	if _, err := p.expect(TagUnderscore, "expected '_'"); err != nil {
		return ir.Environment{}, err
	}

	if startsSound(p.peekTag(0)) {
		sound, err := p.parseSound()
		if err != nil {
			return ir.Environment{}, err
		}
		env.Right = []ir.Sound{sound}
	}
	return env, nil
}

// parseSound parses a union, a terminal, or a variable reference.
func (p *Parser) parseSound() (ir.Sound, error) {
	switch p.peekTag(0) {
	case TagLeftBrace:
		return p.parseUnion()
	case TagTerminal:
		tok, _ := p.move()
		return ir.Terminal(tok.Literal), nil
	case TagVariable:
		tok, _ := p.move()
		value, err := p.scope.Resolve(tok.Literal)
		if err != nil {
			return nil, newParseError(&tok, err.Error())
		}
		return value, nil
	default:
		return nil, p.errorAt(0, "expected a sound value")
	}
}

// parseUnion parses `{ terminal* }`. Empty braces are the null sound.
func (p *Parser) parseUnion() (ir.Sound, error) {
	if _, err := p.expect(TagLeftBrace, "expected '{'"); err != nil {
		return nil, err
	}

	var choices []ir.Terminal
	for {
		tag := p.peekTag(0)
		if tag == -1 || tag == TagRightBrace {
			break
		}
		tok, err := p.expect(TagTerminal, "expected an IPA segment")
		if err != nil {
			return nil, err
		}
		choices = append(choices, ir.Terminal(tok.Literal))
	}

	if _, err := p.expect(TagRightBrace, "expected '}'"); err != nil {
		return nil, err
	}
	return ir.NewUnion(choices...), nil
}

func startsSound(tag Tag) bool {
	return tag == TagLeftBrace || tag == TagTerminal || tag == TagVariable
}
