package ast

import "github.com/JohnnyMorganz/luau/internal/token"

// ============================================================================
// 基础接口定义
// ============================================================================

// NodeID 节点在 Arena 中的稳定句柄
//
// 0 表示节点没有注册到任何 Arena（例如由代码合成的节点），
// 这样的节点永远查不到 CST 装饰。
type NodeID uint32

// Node 所有 AST 节点的基础接口
type Node interface {
	ID() NodeID
	Loc() token.Location
	bind(id NodeID, loc token.Location)
}

// Expr 表达式节点接口
type Expr interface {
	Node
	exprNode()
}

// Stat 语句节点接口
type Stat interface {
	Node
	statNode()
	// Semicolon 语句后是否紧跟分号
	Semicolon() bool
	SetSemicolon(bool)
}

// Type 类型注解节点接口
type Type interface {
	Node
	typeNode()
}

// TypePack 类型包节点接口
type TypePack interface {
	Node
	typePackNode()
}

// node 节点公共字段
type node struct {
	id       NodeID
	Location token.Location
}

func (n *node) ID() NodeID          { return n.id }
func (n *node) Loc() token.Location { return n.Location }

func (n *node) bind(id NodeID, loc token.Location) {
	n.id = id
	n.Location = loc
}

type exprBase struct{ node }

func (*exprBase) exprNode() {}

type statBase struct {
	node
	HasSemicolon bool
}

func (*statBase) statNode()             {}
func (s *statBase) Semicolon() bool     { return s.HasSemicolon }
func (s *statBase) SetSemicolon(v bool) { s.HasSemicolon = v }

type typeBase struct{ node }

func (*typeBase) typeNode() {}

type packBase struct{ node }

func (*packBase) typePackNode() {}

// ============================================================================
// 局部变量
// ============================================================================

// Local 局部变量声明
//
// Local 不是节点：它没有 NodeID，Location 只覆盖名字本身。
// 同一个 *Local 被声明处与所有 ExprLocal 引用共享。
type Local struct {
	Name          string
	Location      token.Location
	Shadow        *Local // 被遮蔽的同名外层变量
	FunctionDepth int
	Annotation    Type // 可选的类型注解
}

// ============================================================================
// 表达式节点
// ============================================================================

// ExprGroup 括号表达式 (expr)
type ExprGroup struct {
	exprBase
	Expr Expr
}

// ExprConstantNil nil
type ExprConstantNil struct{ exprBase }

// ExprConstantBool true / false
type ExprConstantBool struct {
	exprBase
	Value bool
}

// ExprConstantNumber 数字字面量
type ExprConstantNumber struct {
	exprBase
	Value float64
}

// ExprConstantString 字符串字面量，Value 是解码后的值
type ExprConstantString struct {
	exprBase
	Value string
}

// ExprLocal 局部变量引用
type ExprLocal struct {
	exprBase
	Local   *Local
	Upvalue bool
}

// ExprGlobal 全局变量引用
type ExprGlobal struct {
	exprBase
	Name string
}

// ExprVarargs ...
type ExprVarargs struct{ exprBase }

// ExprCall 函数调用
//
// 方法调用 a:b(x) 的 Func 是 Op 为 ':' 的 ExprIndexName，Self 为 true，
// Args 不包含隐式的 self。
type ExprCall struct {
	exprBase
	Func        Expr
	Args        []Expr
	Self        bool
	ArgLocation token.Location
}

// ExprIndexName a.b 或 a:b
type ExprIndexName struct {
	exprBase
	Expr          Expr
	Index         string
	IndexLocation token.Location
	OpPosition    token.Position
	Op            byte // '.' 或 ':'
}

// ExprIndexExpr a[b]
type ExprIndexExpr struct {
	exprBase
	Expr  Expr
	Index Expr
}

// ExprFunction 函数字面量，也是函数声明语句的函数体
type ExprFunction struct {
	exprBase
	Generics         []*GenericType
	GenericPacks     []*GenericTypePack
	Self             *Local
	Args             []*Local
	ReturnAnnotation *TypePackExplicit
	Vararg           bool
	VarargLocation   token.Location
	VarargAnnotation TypePack
	Body             *StatBlock
	DebugName        string
	ArgLocation      *token.Location // 参数列表括号的范围
}

// TableItemKind 表构造器元素种类
type TableItemKind int

const (
	TableItemList    TableItemKind = iota // value
	TableItemRecord                       // name = value
	TableItemGeneral                      // [key] = value
)

// TableItem 表构造器元素
//
// Record 的 Key 是以名字为值的 ExprConstantString，Location 为名字的位置。
type TableItem struct {
	Kind  TableItemKind
	Key   Expr
	Value Expr
}

// ExprTable 表构造器 {...}
type ExprTable struct {
	exprBase
	Items []TableItem
}

// ExprUnary 一元运算
type ExprUnary struct {
	exprBase
	Op   UnaryOp
	Expr Expr
}

// ExprBinary 二元运算
type ExprBinary struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// ExprTypeAssertion expr :: Type
type ExprTypeAssertion struct {
	exprBase
	Expr       Expr
	Annotation Type
}

// ExprIfElse if cond then a else b
//
// elseif 链表示为 FalseExpr 中嵌套的 ExprIfElse。
type ExprIfElse struct {
	exprBase
	Condition Expr
	HasThen   bool
	TrueExpr  Expr
	HasElse   bool
	FalseExpr Expr
}

// ExprInterpString 插值字符串，len(Strings) == len(Expressions)+1
type ExprInterpString struct {
	exprBase
	Strings     []string
	Expressions []Expr
}

// ExprError 语法错误占位
type ExprError struct {
	exprBase
	Expressions  []Expr
	MessageIndex int
}

// ============================================================================
// 语句节点
// ============================================================================

// StatBlock 语句块
//
// 作为语句出现时表示 do ... end；作为函数体、循环体等出现时只是语句列表，
// 其 Location.End 是闭合关键字的起点。
type StatBlock struct {
	statBase
	Body []Stat
}

// StatIf if / elseif / else
//
// elseif 分支表示为 ElseBody 中嵌套的 StatIf，其 Location 从 elseif 开始。
type StatIf struct {
	statBase
	Condition    Expr
	ThenBody     *StatBlock
	ElseBody     Stat // nil、*StatIf 或 *StatBlock
	ThenLocation *token.Location
	ElseLocation *token.Location
}

// StatWhile while cond do ... end
type StatWhile struct {
	statBase
	Condition  Expr
	Body       *StatBlock
	HasDo      bool
	DoLocation token.Location
}

// StatRepeat repeat ... until cond
type StatRepeat struct {
	statBase
	Condition Expr
	Body      *StatBlock
}

// StatBreak break
type StatBreak struct{ statBase }

// StatContinue continue
type StatContinue struct{ statBase }

// StatReturn return a, b
type StatReturn struct {
	statBase
	List []Expr
}

// StatExpr 表达式语句（只允许函数调用）
type StatExpr struct {
	statBase
	Expr Expr
}

// StatLocal local a, b = 1, 2
type StatLocal struct {
	statBase
	Vars               []*Local
	Values             []Expr
	EqualsSignLocation *token.Location
}

// StatFor 数值 for 循环
type StatFor struct {
	statBase
	Var        *Local
	From       Expr
	To         Expr
	Step       Expr // 可选
	Body       *StatBlock
	HasDo      bool
	DoLocation token.Location
}

// StatForIn 泛型 for 循环
type StatForIn struct {
	statBase
	Vars       []*Local
	Values     []Expr
	Body       *StatBlock
	HasIn      bool
	InLocation token.Location
	HasDo      bool
	DoLocation token.Location
}

// StatAssign a, b = 1, 2
type StatAssign struct {
	statBase
	Vars   []Expr
	Values []Expr
}

// StatCompoundAssign a += 1
type StatCompoundAssign struct {
	statBase
	Op    BinaryOp
	Var   Expr
	Value Expr
}

// StatFunction function a.b:c() ... end
type StatFunction struct {
	statBase
	Name Expr
	Func *ExprFunction
}

// StatLocalFunction local function f() ... end
type StatLocalFunction struct {
	statBase
	Name *Local
	Func *ExprFunction
}

// StatTypeAlias [export] type Name<T> = Type
type StatTypeAlias struct {
	statBase
	Name         string
	NameLocation token.Location
	Generics     []*GenericType
	GenericPacks []*GenericTypePack
	Type         Type
	Exported     bool
}

// StatTypeFunction [export] type function Name() ... end
type StatTypeFunction struct {
	statBase
	Name         string
	NameLocation token.Location
	Body         *ExprFunction
	Exported     bool
}

// StatError 语法错误占位
type StatError struct {
	statBase
	Expressions  []Expr
	Statements   []Stat
	MessageIndex int
}
