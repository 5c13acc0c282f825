package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF）
// 2. 字面量（名字、数字、各类字符串）
// 3. 运算符与复合赋值
// 4. 分隔符
// 5. 关键字
//
// Luau 的 continue / type / export / typeof 是上下文关键字，词法上仍是 NAME，
// 由语法分析器按上下文识别。
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符或畸形字面量，Value 保存错误信息
	EOF                      // 文件结束

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	NAME          // 标识符
	NUMBER        // 数字字面量
	STRING        // 引号字符串 '...' "..."
	RAW_STRING    // 长括号字符串 [==[...]==]
	INTERP_SIMPLE // 无插值的反引号字符串 `...`
	INTERP_BEGIN  // `...{
	INTERP_MID    // }...{
	INTERP_END    // }...`

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	FLOOR_DIV // //
	PERCENT   // %
	CARET     // ^
	HASH      // #
	CONCAT    // ..

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ // ==
	NE // ~=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// ----------------------------------------------------------
	// 赋值
	// ----------------------------------------------------------
	ASSIGN           // =
	PLUS_ASSIGN      // +=
	MINUS_ASSIGN     // -=
	STAR_ASSIGN      // *=
	SLASH_ASSIGN     // /=
	FLOOR_DIV_ASSIGN // //=
	PERCENT_ASSIGN   // %=
	CARET_ASSIGN     // ^=
	CONCAT_ASSIGN    // ..=

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN       // (
	RPAREN       // )
	LBRACE       // {
	RBRACE       // }
	LBRACKET     // [
	RBRACKET     // ]
	SEMICOLON    // ;
	COLON        // :
	DOUBLE_COLON // ::
	COMMA        // ,
	DOT          // .
	ELLIPSIS     // ...
	ARROW        // ->
	QUESTION     // ?
	PIPE         // |
	AMPERSAND    // &
	AT           // @

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg
	AND
	BREAK
	DO
	ELSE
	ELSEIF
	END
	FALSE
	FOR
	FUNCTION
	IF
	IN
	LOCAL
	NIL
	NOT
	OR
	REPEAT
	RETURN
	THEN
	TRUE
	UNTIL
	WHILE
	keyword_end
)

// tokenNames 用于错误信息与调试输出
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "<eof>",

	NAME:          "identifier",
	NUMBER:        "number",
	STRING:        "string",
	RAW_STRING:    "string",
	INTERP_SIMPLE: "interpolated string",
	INTERP_BEGIN:  "interpolated string",
	INTERP_MID:    "interpolated string",
	INTERP_END:    "interpolated string",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	FLOOR_DIV: "//",
	PERCENT:   "%",
	CARET:     "^",
	HASH:      "#",
	CONCAT:    "..",

	EQ: "==",
	NE: "~=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",

	ASSIGN:           "=",
	PLUS_ASSIGN:      "+=",
	MINUS_ASSIGN:     "-=",
	STAR_ASSIGN:      "*=",
	SLASH_ASSIGN:     "/=",
	FLOOR_DIV_ASSIGN: "//=",
	PERCENT_ASSIGN:   "%=",
	CARET_ASSIGN:     "^=",
	CONCAT_ASSIGN:    "..=",

	LPAREN:       "(",
	RPAREN:       ")",
	LBRACE:       "{",
	RBRACE:       "}",
	LBRACKET:     "[",
	RBRACKET:     "]",
	SEMICOLON:    ";",
	COLON:        ":",
	DOUBLE_COLON: "::",
	COMMA:        ",",
	DOT:          ".",
	ELLIPSIS:     "...",
	ARROW:        "->",
	QUESTION:     "?",
	PIPE:         "|",
	AMPERSAND:    "&",
	AT:           "@",

	AND:      "and",
	BREAK:    "break",
	DO:       "do",
	ELSE:     "else",
	ELSEIF:   "elseif",
	END:      "end",
	FALSE:    "false",
	FOR:      "for",
	FUNCTION: "function",
	IF:       "if",
	IN:       "in",
	LOCAL:    "local",
	NIL:      "nil",
	NOT:      "not",
	OR:       "or",
	REPEAT:   "repeat",
	RETURN:   "return",
	THEN:     "then",
	TRUE:     "true",
	UNTIL:    "until",
	WHILE:    "while",
}

// LookupIdent 查找标识符是否为保留关键字
//
// 参数:
//   - ident: 标识符字符串
//
// 返回:
//   - TokenType: 如果是关键字返回对应类型，否则返回 NAME
func LookupIdent(ident string) TokenType {
	switch len(ident) {
	case 2:
		switch ident {
		case "do":
			return DO
		case "if":
			return IF
		case "in":
			return IN
		case "or":
			return OR
		}
	case 3:
		switch ident {
		case "and":
			return AND
		case "end":
			return END
		case "for":
			return FOR
		case "nil":
			return NIL
		case "not":
			return NOT
		}
	case 4:
		switch ident {
		case "else":
			return ELSE
		case "then":
			return THEN
		case "true":
			return TRUE
		}
	case 5:
		switch ident {
		case "break":
			return BREAK
		case "false":
			return FALSE
		case "local":
			return LOCAL
		case "until":
			return UNTIL
		case "while":
			return WHILE
		}
	case 6:
		switch ident {
		case "elseif":
			return ELSEIF
		case "repeat":
			return REPEAT
		case "return":
			return RETURN
		}
	case 8:
		if ident == "function" {
			return FUNCTION
		}
	}
	return NAME
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
//   - Literal: 源码中的完整原文
//   - Raw: 字符串类 token 去掉定界符后的原始字节（不做转义处理）
//   - Value: 名字、解码后的字符串值；ILLEGAL 时为错误信息
//   - Depth: 长括号字符串的等号个数
type Token struct {
	Type    TokenType
	Literal string
	Raw     string
	Value   string
	Depth   int
	Loc     Location
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case NAME, NUMBER, STRING, RAW_STRING, INTERP_SIMPLE, INTERP_BEGIN, INTERP_MID, INTERP_END:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Loc)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Loc)
	}
}

// Describe 返回错误信息中使用的 token 描述，例如 'end'、<eof>、'x'
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "<eof>"
	case NAME:
		return fmt.Sprintf("'%s'", t.Value)
	case NUMBER:
		return fmt.Sprintf("'%s'", t.Literal)
	case STRING, RAW_STRING, INTERP_SIMPLE, INTERP_BEGIN, INTERP_MID, INTERP_END:
		return t.Type.String()
	case ILLEGAL:
		return fmt.Sprintf("'%s'", t.Literal)
	default:
		return fmt.Sprintf("'%s'", t.Type)
	}
}

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, loc Location) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Loc:     loc,
	}
}
