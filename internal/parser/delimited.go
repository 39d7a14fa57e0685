package parser

import (
	"github.com/io-lang/io-lang/internal/lexer"
)

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowEmpty    bool
	AllowTrailing bool

	// Element names the list item in "expected ..." messages.
	Element string
}

type delimitedResult[T any] struct {
	Items    []T
	Trailing bool
}

// parseDelimited parses separator-delimited items up to cfg.Closing. It is
// entered with curTok on the first item (or on the closing token of an empty
// list) and returns with curTok on the closing token.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func(idx int) (T, bool)) (delimitedResult[T], bool) {
	var result delimitedResult[T]

	if cfg.Separator == "" {
		cfg.Separator = lexer.COMMA
	}
	if cfg.Element == "" {
		cfg.Element = "element"
	}

	if p.curTokenIs(cfg.Closing) {
		if cfg.AllowEmpty {
			return result, true
		}
		p.unexpected(p.curTok, cfg.Element)
		return result, false
	}

	for {
		if p.curTokenIs(lexer.EOF) {
			p.unexpected(p.curTok, cfg.Element+" or "+describeType(cfg.Closing))
			return result, false
		}

		item, ok := parseItem(len(result.Items))
		if !ok {
			return result, false
		}
		result.Items = append(result.Items, item)

		switch p.peekTok.Type {
		case cfg.Separator:
			p.nextToken() // move to separator
			p.nextToken() // move to next potential element

			if p.curTokenIs(cfg.Closing) {
				if cfg.AllowTrailing {
					result.Trailing = true
					return result, true
				}
				p.unexpected(p.curTok, cfg.Element)
				return result, false
			}
			continue
		case cfg.Closing:
			p.nextToken()
			return result, true
		default:
			p.unexpected(p.peekTok, describeType(cfg.Separator)+" or "+describeType(cfg.Closing))
			return result, false
		}
	}
}
