package pdf

import (
	"strconv"
	"strings"
	"unicode"
)

// kerningSpace is the TJ adjustment, in thousandths of an em, treated as a word gap.
const kerningSpace = -200

// ContentText recovers the text shown by a decoded page content stream.
// Only the text-showing operators are interpreted; glyph bytes map to runes one to one,
// which is right for the simple fonts most text layers use.
func ContentText(stream []byte) string {
	var (
		out      strings.Builder
		operands []operand
	)
	lx := lexer{data: stream}

	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.kind != tokenOperator {
			operands = append(operands, operand{kind: tok.kind, text: tok.text})
			continue
		}

		switch tok.text {
		case "Tj":
			writeStrings(&out, operands)
		case "'", "\"":
			newline(&out)
			writeStrings(&out, operands)
		case "TJ":
			writeArray(&out, operands)
		case "T*":
			newline(&out)
		case "Td", "TD":
			if len(operands) >= 2 && operands[len(operands)-1].number() != 0 {
				newline(&out)
			} else {
				space(&out)
			}
		case "Tm", "ET":
			newline(&out)
		case "ID":
			lx.skipInlineImage()
		}
		operands = operands[:0]
	}

	return tidy(out.String())
}

type operand struct {
	kind tokenKind
	text string
}

func (o operand) number() float64 {
	if o.kind != tokenNumber {
		return 0
	}
	f, _ := strconv.ParseFloat(o.text, 64)
	return f
}

func writeStrings(out *strings.Builder, ops []operand) {
	for _, op := range ops {
		if op.kind == tokenString {
			out.WriteString(op.text)
		}
	}
}

// writeArray handles TJ operands: strings between [ and ], with large negative
// kerning rendered as a space.
func writeArray(out *strings.Builder, ops []operand) {
	for _, op := range ops {
		switch op.kind {
		case tokenString:
			out.WriteString(op.text)
		case tokenNumber:
			if op.number() <= kerningSpace {
				space(out)
			}
		}
	}
}

func newline(out *strings.Builder) {
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
}

func space(out *strings.Builder) {
	s := out.String()
	if s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
		out.WriteByte(' ')
	}
}

// tidy drops unprintable runes, collapses spaces, trims each line and removes blank lines.
func tidy(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			if !unicode.IsPrint(r) {
				return -1
			}
			return r
		}, line)
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

type tokenKind int

const (
	tokenOperator tokenKind = iota
	tokenNumber
	tokenString
	tokenName
	tokenOther
)

type token struct {
	kind tokenKind
	text string
}

// lexer splits a content stream into PDF tokens.
type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isWhite(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return token{kind: tokenString, text: l.literal()}, true
		case c == '<' && l.peek(1) == '<', c == '>' && l.peek(1) == '>':
			l.pos += 2
			return token{kind: tokenOther}, true
		case c == '<':
			l.pos++
			return token{kind: tokenString, text: l.hex()}, true
		case c == '[', c == ']', c == '{', c == '}', c == ')', c == '>':
			l.pos++
			return token{kind: tokenOther}, true
		case c == '/':
			l.pos++
			return token{kind: tokenName, text: l.regular()}, true
		default:
			word := l.regular()
			if word == "" {
				l.pos++
				continue
			}
			if _, err := strconv.ParseFloat(word, 64); err == nil {
				return token{kind: tokenNumber, text: word}, true
			}
			return token{kind: tokenOperator, text: word}, true
		}
	}
	return token{}, false
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (string) with balanced parentheses and escapes. The opening
// parenthesis has been consumed.
func (l *lexer) literal() string {
	var b strings.Builder
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return latin1(b.String())
			}
			b.WriteByte(c)
		case '\\':
			l.escape(&b)
		default:
			b.WriteByte(c)
		}
	}
	return latin1(b.String())
}

func (l *lexer) escape(b *strings.Builder) {
	if l.pos >= len(l.data) {
		return
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case '\r':
		if l.peek(0) == '\n' {
			l.pos++
		}
	case '\n':
	default:
		if c < '0' || c > '7' {
			b.WriteByte(c)
			return
		}
		val := int(c - '0')
		for i := 0; i < 2 && l.pos < len(l.data); i++ {
			d := l.data[l.pos]
			if d < '0' || d > '7' {
				break
			}
			val = val*8 + int(d-'0')
			l.pos++
		}
		b.WriteByte(byte(val))
	}
}

// hex reads a <hex string>. The opening bracket has been consumed.
func (l *lexer) hex() string {
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; !isWhite(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		raw = append(raw, byte(v))
	}
	return latin1(string(raw))
}

// skipInlineImage jumps past the binary data of a BI ... ID ... EI block.
func (l *lexer) skipInlineImage() {
	for l.pos+2 < len(l.data) {
		if isWhite(l.data[l.pos]) && l.data[l.pos+1] == 'E' && l.data[l.pos+2] == 'I' &&
			(l.pos+3 == len(l.data) || isWhite(l.data[l.pos+3])) {
			l.pos += 3
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

func latin1(s string) string {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}
