package ast

import "github.com/JohnnyMorganz/luau/internal/token"

// ============================================================================
// Arena 节点登记表
// ============================================================================
//
// Arena 在一次解析的生命周期内持有全部 AST 节点，并为每个节点分配
// 从 1 开始单调递增的 NodeID。CST 映射以 NodeID 为键，
// 因此映射本身不持有节点，节点也从不反向引用 CST。
//
// 使用方式：
//   arena := ast.NewArena(0)
//   call := ast.Add(arena, &ast.ExprCall{Func: f, Args: args}, loc)
//   id := call.ID()               // 非 0
//   arena.Node(id) == call        // true
//
// ============================================================================

// 默认初始容量
const defaultCapacity = 256

// Arena 节点登记表
type Arena struct {
	nodes []Node // nodes[0] 保留，对应 NodeID 0
}

// NewArena 创建一个新的 Arena
//
// 参数:
//   - capacity: 预估节点数量，<= 0 时使用默认值
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	nodes := make([]Node, 1, capacity+1)
	return &Arena{nodes: nodes}
}

// Add 登记节点并设置其位置，返回同一个节点以便链式构造
//
// 同一个节点只能登记一次。
func Add[P Node](a *Arena, n P, loc token.Location) P {
	if n.ID() != 0 {
		panic("ast: node registered twice")
	}
	n.bind(NodeID(len(a.nodes)), loc)
	a.nodes = append(a.nodes, n)
	return n
}

// Node 按 ID 查找节点，未知 ID 返回 nil
func (a *Arena) Node(id NodeID) Node {
	if id == 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Len 已登记的节点数量
func (a *Arena) Len() int {
	return len(a.nodes) - 1
}

// Reset 丢弃全部节点，保留底层容量
func (a *Arena) Reset() {
	for i := range a.nodes {
		a.nodes[i] = nil
	}
	a.nodes = a.nodes[:1]
}
