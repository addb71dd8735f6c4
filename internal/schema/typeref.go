package schema

import (
	"fmt"
	"unicode"

	"github.com/msgidl/msgidl/internal/ast"
)

// ParseTypeRef parses a type reference such as "int", "User?" or
// "map<string,list<int?>>?".
func ParseTypeRef(s string) (ast.TypeRef, error) {
	p := &typeParser{src: s}
	ref, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return ref, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("invalid type %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) parseType() (ast.TypeRef, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	if !p.accept('<') {
		return &ast.SimpleType{Name: name, Nullable: p.accept('?')}, nil
	}

	var params []ast.TypeRef
	for {
		param, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.accept('>') {
			break
		}
		if !p.accept(',') {
			return nil, p.errorf("expected ',' or '>'")
		}
	}
	return &ast.GenericType{Name: name, Params: params, Nullable: p.accept('?')}, nil
}

func (p *typeParser) parseIdent() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(rune(p.src[p.pos]), p.pos == start) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected a type name")
	}
	return p.src[start:p.pos], nil
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r)) {
		return true
	}
	return !first && r < unicode.MaxASCII && unicode.IsDigit(r)
}

// isIdent reports whether s is a plain identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r, i == 0) {
			return false
		}
	}
	return true
}
