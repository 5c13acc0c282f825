package cst

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/errors"
)

// Map AST 节点到 CST 节点的稀疏对应表
//
// 以 ast.NodeID 为键，不持有 AST 节点。禁用的 Map 对任何键都返回 nil，
// 打印器据此统一走默认排版路径。nil *Map 等价于禁用的 Map。
type Map struct {
	nodes    map[ast.NodeID]Node
	disabled bool
}

// NewMap 创建空的对应表
func NewMap() *Map {
	return &Map{nodes: make(map[ast.NodeID]Node)}
}

// Disabled 返回禁用的对应表
func Disabled() *Map {
	return &Map{disabled: true}
}

// Set 记录 id 的 CST 节点
//
// 以下情况属于内部错误：向禁用的表写入、id 为 0（未登记的节点）、
// n 为 nil、同一 id 记录两次。
func (m *Map) Set(id ast.NodeID, n Node) {
	errors.Assert(m != nil && !m.disabled, "cst: write to a disabled map")
	errors.Assert(id != 0, "cst: %s attached to an unregistered node", kindOf(n))
	errors.Assert(n != nil, "cst: nil node for id %d", id)
	_, exists := m.nodes[id]
	errors.Assert(!exists, "cst: node %d decorated twice", id)
	m.nodes[id] = n
}

// Lookup 返回 id 的 CST 节点，没有时返回 nil
func (m *Map) Lookup(id ast.NodeID) Node {
	if m == nil || m.disabled || id == 0 {
		return nil
	}
	return m.nodes[id]
}

// Len 已记录的节点数量
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.nodes)
}

// IsDisabled 是否为禁用的表
func (m *Map) IsDisabled() bool {
	return m == nil || m.disabled
}

func kindOf(n Node) Kind {
	if n == nil {
		return kindInvalid
	}
	return n.Kind()
}
