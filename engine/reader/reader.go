package reader

import (
	"errors"
	"strconv"
	"strings"

	"lispy/lib/value"
)

const quote = '"'

var (
	errUnexpectedEOF = value.SyntaxErrorf("unexpected EOF")
	// the list was still open when the tokens ran out
	errUnclosedList = value.SyntaxErrorf("unexpected ): input ended before the closing )")
	errUnterminated = value.SyntaxErrorf("unterminated string literal")
)

// Tokenize splits text into tokens. Parentheses and the quote shorthand are
// tokens of their own, a double-quoted string literal is kept whole with its
// quotes and escapes, and ';' comments run to the end of the line.
func Tokenize(text string) ([]string, error) {
	tokens := make([]string, 0, 16)
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	for pos := 0; pos < len(text); pos++ {
		c := text[pos]
		switch c {
		case ' ', '\t', '\r', '\n':
			flush()
		case '(', ')', '\'':
			flush()
			tokens = append(tokens, string(c))
		case ';':
			flush()
			for pos < len(text) && text[pos] != '\n' {
				pos++
			}
		case quote:
			flush()
			end, ok := stringEnd(text, pos)
			if !ok {
				return nil, errUnterminated
			}
			tokens = append(tokens, text[pos:end+1])
			pos = end
		default:
			sb.WriteByte(c)
		}
	}
	flush()
	return tokens, nil
}

// stringEnd returns the index of the quote closing the literal opened at start.
func stringEnd(text string, start int) (int, bool) {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i, true
		}
	}
	return 0, false
}

// Parse reads one expression from the front of tokens, consuming what it reads.
func Parse(tokens *[]string) (value.Value, error) {
	if len(*tokens) == 0 {
		return nil, errUnexpectedEOF
	}
	token := pop(tokens)
	switch token {
	case "(":
		l := value.List{}
		for {
			if len(*tokens) == 0 {
				return nil, errUnclosedList
			}
			if (*tokens)[0] == ")" {
				break
			}
			v, err := Parse(tokens)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		pop(tokens) // pop off ')'
		return l, nil
	case ")":
		return nil, value.SyntaxErrorf("unexpected )")
	case "'":
		v, err := Parse(tokens)
		if err != nil {
			return nil, err
		}
		return value.NewList(value.Symbol("quote"), v), nil
	default:
		return Atom(token), nil
	}
}

func pop(tokens *[]string) string {
	token := (*tokens)[0]
	*tokens = (*tokens)[1:]
	return token
}

// Atom turns a single token into a value: ints, then decimal floats, then
// booleans and #<void>, then string literals. Anything else is a symbol.
func Atom(token string) value.Value {
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return value.Int(n)
	}
	if !isHex(token) {
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return value.Double(f)
		}
	}
	switch token {
	case "#t":
		return value.Bool(true)
	case "#f":
		return value.Bool(false)
	case value.Void.String():
		return value.Void
	}
	if len(token) >= 2 && token[0] == quote && token[len(token)-1] == quote {
		return value.String(unescape(token[1 : len(token)-1]))
	}
	return value.Symbol(token)
}

// isHex reports a 0x prefix, which ParseFloat would read as a hex float.
func isHex(token string) bool {
	t := strings.TrimLeft(token, "+-")
	return len(t) > 1 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X')
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Read parses exactly one expression from text. Tokens after it are ignored.
func Read(text string) (value.Value, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Parse(&tokens)
}

// ReadAll parses every top-level expression in text.
func ReadAll(text string) ([]value.Value, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	ret := make([]value.Value, 0, 1)
	for len(tokens) > 0 {
		v, err := Parse(&tokens)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}

// IsIncomplete reports whether err means that the input ended in the middle
// of an expression, so more input could complete it.
func IsIncomplete(err error) bool {
	return errors.Is(err, errUnexpectedEOF) || errors.Is(err, errUnclosedList) || errors.Is(err, errUnterminated)
}
