package resolve

// TokenType identifies a lexical token in a constraint expression.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenNumber
	TokenPath
	TokenTrue
	TokenFalse
	TokenAnd
	TokenOr
	TokenNot
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLParen
	TokenRParen
	TokenLT
	TokenLTE
	TokenGT
	TokenGTE
	TokenEQ
	TokenNEQ
)

// Token is a single lexical token with its source text.
type Token struct {
	Type    TokenType
	Literal string
}

var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// Lexer tokenizes a constraint expression. The accepted alphabet is
// deliberately tiny: numbers, dot-separated field paths, arithmetic and
// comparison operators, parentheses, and the and/or/not keywords.
// Anything else lexes as an illegal token, which makes the whole
// expression unresolvable.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

// NewLexer returns a lexer over the given expression text.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	var tok Token
	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF}
	case '+':
		tok = Token{Type: TokenPlus, Literal: "+"}
	case '-':
		tok = Token{Type: TokenMinus, Literal: "-"}
	case '*':
		tok = Token{Type: TokenStar, Literal: "*"}
	case '/':
		tok = Token{Type: TokenSlash, Literal: "/"}
	case '(':
		tok = Token{Type: TokenLParen, Literal: "("}
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")"}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenLTE, Literal: "<="}
		} else {
			tok = Token{Type: TokenLT, Literal: "<"}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGTE, Literal: ">="}
		} else {
			tok = Token{Type: TokenGT, Literal: ">"}
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenEQ, Literal: "=="}
		} else {
			tok = Token{Type: TokenIllegal, Literal: "="}
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNEQ, Literal: "!="}
		} else {
			tok = Token{Type: TokenIllegal, Literal: "!"}
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = Token{Type: TokenAnd, Literal: "&&"}
		} else {
			tok = Token{Type: TokenIllegal, Literal: "&"}
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: TokenOr, Literal: "||"}
		} else {
			tok = Token{Type: TokenIllegal, Literal: "|"}
		}
	default:
		if isDigit(l.ch) {
			return Token{Type: TokenNumber, Literal: l.readNumber()}
		}
		if isSymbolStart(l.ch) {
			literal := l.readSymbol()
			if tt, ok := keywords[literal]; ok {
				return Token{Type: tt, Literal: literal}
			}
			return Token{Type: TokenPath, Literal: literal}
		}
		tok = Token{Type: TokenIllegal, Literal: string(l.ch)}
	}

	l.readChar()
	return tok
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readSymbol() string {
	start := l.pos
	for isSymbolStart(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSymbolStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}
