package asm

import (
	"strconv"
	"strings"
)

// TokenKind is the type of a data directive item.
type TokenKind int

const (
	TOKEN_NUMBER = TokenKind(iota) // Decimal, 0o or 0b integer.
	TOKEN_HEX                      // 0x prefixed integer.
	TOKEN_STRING                   // Quoted string, escapes applied.
	TOKEN_ESCAPE                   // Bare \n, \t or \0.
	TOKEN_WORD                     // Anything else: a label or a single character.
)

// Token is one comma separated item of a data directive.
type Token struct {
	Kind  TokenKind
	Text  string // Source text of the item.
	Value int64  // TOKEN_NUMBER and TOKEN_HEX.
	Bytes []byte // TOKEN_STRING and TOKEN_ESCAPE.
}

// unescape maps the character following a backslash.
func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '0':
		return 0
	}
	return ch
}

// parseInteger parses an integer literal: an optional sign, then a 0x,
// 0o or 0b prefixed number, or a decimal number. Leading zeros are
// decimal. The value must fit in 32 bits, signed or unsigned.
func parseInteger(text string) (value int64, base int, ok bool) {
	digits := text
	negative := false
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		negative = digits[0] == '-'
		digits = digits[1:]
	}

	base = 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			digits = digits[2:]
		}
	}

	if len(digits) == 0 || digits[0] == '-' || digits[0] == '+' {
		return 0, base, false
	}

	u64, err := strconv.ParseUint(digits, base, 64)
	if err != nil || u64 > 0xffffffff {
		return 0, base, false
	}

	value = int64(u64)
	if negative {
		value = -value
	}
	if value < -0x80000000 {
		return 0, base, false
	}

	return value, base, true
}

// classify turns a bare item into a token.
func classify(text string) (tok Token) {
	tok = Token{Kind: TOKEN_WORD, Text: text}

	if len(text) == 2 && text[0] == '\\' {
		tok.Kind = TOKEN_ESCAPE
		tok.Bytes = []byte{unescape(text[1])}
		return
	}

	value, base, ok := parseInteger(text)
	if !ok {
		return
	}

	tok.Kind = TOKEN_NUMBER
	if base == 16 {
		tok.Kind = TOKEN_HEX
	}
	tok.Value = value

	return
}

// Lex splits the item list of a data directive into tokens.
//
// Items are separated by commas. Quoted strings may use single or double
// quotes and the escapes \n, \t and \0; any other escaped character stands
// for itself. Empty items are dropped. On an unterminated string the
// partial string is still returned as the last token.
func Lex(text string) (tokens []Token, err error) {
	var item strings.Builder

	flush := func() {
		word := strings.TrimSpace(item.String())
		if len(word) > 0 {
			tokens = append(tokens, classify(word))
		}
		item.Reset()
	}

	for n := 0; n < len(text); n++ {
		ch := text[n]
		switch {
		case ch == '"' || ch == '\'':
			flush()
			quote := ch
			var str []byte
			start := n
			closed := false
			for n++; n < len(text); n++ {
				ch = text[n]
				if ch == '\\' && n+1 < len(text) {
					n++
					str = append(str, unescape(text[n]))
					continue
				}
				if ch == quote {
					closed = true
					break
				}
				str = append(str, ch)
			}
			if !closed {
				err = ErrStringUnterminated
				n = len(text)
			}
			tokens = append(tokens, Token{
				Kind:  TOKEN_STRING,
				Text:  text[start:min(n+1, len(text))],
				Bytes: str,
			})
		case ch == ',':
			flush()
		default:
			item.WriteByte(ch)
		}
	}
	flush()

	return
}

// Size returns the number of bytes the token occupies in a directive
// whose numeric items are width bytes wide. Strings always emit one byte
// per character.
func (tok Token) Size(width int) int {
	if tok.Kind == TOKEN_STRING {
		return len(tok.Bytes)
	}
	return width
}

// Unquote returns the contents of a single quoted or double quoted
// literal with escapes applied.
func Unquote(text string) (str []byte, ok bool) {
	if len(text) < 2 {
		return
	}
	quote := text[0]
	if (quote != '"' && quote != '\'') || text[len(text)-1] != quote {
		return
	}

	tokens, err := Lex(text)
	if err != nil || len(tokens) != 1 || tokens[0].Kind != TOKEN_STRING {
		return
	}

	return tokens[0].Bytes, true
}

// stripComment removes a ';' comment from a line, ignoring semicolons
// inside quoted strings.
func stripComment(line string) string {
	var quote byte
	for n := 0; n < len(line); n++ {
		ch := line[n]
		switch {
		case quote != 0 && ch == '\\':
			n++
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			// inside a string
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ';':
			return line[:n]
		}
	}
	return line
}

// splitFields splits an operand list on commas and whitespace, keeping
// bracketed and quoted text together.
func splitFields(text string) (fields []string) {
	var field strings.Builder
	var quote byte
	depth := 0

	flush := func() {
		if field.Len() > 0 {
			fields = append(fields, field.String())
			field.Reset()
		}
	}

	for n := 0; n < len(text); n++ {
		ch := text[n]
		switch {
		case quote != 0:
			field.WriteByte(ch)
			if ch == '\\' && n+1 < len(text) {
				n++
				field.WriteByte(text[n])
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
			field.WriteByte(ch)
		case ch == '[':
			depth++
			field.WriteByte(ch)
		case ch == ']':
			if depth > 0 {
				depth--
			}
			field.WriteByte(ch)
		case depth > 0:
			if ch != ' ' && ch != '\t' {
				field.WriteByte(ch)
			}
		case ch == ',' || ch == ' ' || ch == '\t':
			flush()
		default:
			field.WriteByte(ch)
		}
	}
	flush()

	return
}
