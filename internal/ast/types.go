package ast

import "github.com/JohnnyMorganz/luau/internal/token"

// ============================================================================
// 泛型参数
// ============================================================================

// GenericType 泛型类型参数 T [= Default]
type GenericType struct {
	node
	Name         string
	DefaultValue Type
}

// GenericTypePack 泛型类型包参数 T... [= Default]
type GenericTypePack struct {
	node
	Name         string
	DefaultValue TypePack
}

// ============================================================================
// 类型节点
// ============================================================================

// TypeOrPack 类型参数列表中的元素，二者恰有一个非空
type TypeOrPack struct {
	Type     Type
	TypePack TypePack
}

// TypeList 类型列表，Tail 为可选的尾部类型包
type TypeList struct {
	Types []Type
	Tail  TypePack
}

// TypeReference 具名类型引用 [prefix.]Name[<params>]
type TypeReference struct {
	typeBase
	HasPrefix        bool
	Prefix           string
	PrefixLocation   token.Location
	Name             string
	NameLocation     token.Location
	HasParameterList bool
	Parameters       []TypeOrPack
}

// TableProp 表类型属性
type TableProp struct {
	Name     string
	Location token.Location // 名字的位置；字符串键时为字符串字面量的位置
	Type     Type
}

// TableIndexer 表类型索引器 [K]: V
type TableIndexer struct {
	IndexType  Type
	ResultType Type
	Location   token.Location
}

// TypeTable 表类型
type TypeTable struct {
	typeBase
	Props   []TableProp
	Indexer *TableIndexer
}

// ArgumentName 函数类型中的参数名
type ArgumentName struct {
	Name     string
	Location token.Location
}

// TypeFunction 函数类型 <T>(a: A, ...B) -> R
//
// ArgNames 与 ArgTypes.Types 等长，未命名的参数对应 nil。
type TypeFunction struct {
	typeBase
	Generics     []*GenericType
	GenericPacks []*GenericTypePack
	ArgTypes     TypeList
	ArgNames     []*ArgumentName
	ReturnTypes  TypePack
}

// TypeTypeof typeof(expr)
type TypeTypeof struct {
	typeBase
	Expr Expr
}

// TypeUnion A | B，T? 表示为末尾带 TypeOptional 成员的联合
type TypeUnion struct {
	typeBase
	Types []Type
}

// TypeIntersection A & B
type TypeIntersection struct {
	typeBase
	Types []Type
}

// TypeOptional 联合类型中的 ? 后缀
type TypeOptional struct{ typeBase }

// TypeGroup 括号类型 (T)
type TypeGroup struct {
	typeBase
	Type Type
}

// TypeSingletonBool 布尔单例类型
type TypeSingletonBool struct {
	typeBase
	Value bool
}

// TypeSingletonString 字符串单例类型，Value 是解码后的值
type TypeSingletonString struct {
	typeBase
	Value string
}

// TypeError 类型语法错误占位
type TypeError struct {
	typeBase
	Types        []Type
	IsMissing    bool
	MessageIndex int
}

// ============================================================================
// 类型包节点
// ============================================================================

// TypePackExplicit 显式类型列表，带括号与否由 CST 记录
type TypePackExplicit struct {
	packBase
	TypeList TypeList
}

// TypePackVariadic ...T；出现在可变参数注解中时没有前导 ...
type TypePackVariadic struct {
	packBase
	VariadicType Type
}

// TypePackGeneric T...
type TypePackGeneric struct {
	packBase
	GenericName string
}
