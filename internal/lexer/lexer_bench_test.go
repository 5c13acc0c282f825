package lexer

import (
	"strings"
	"testing"
)

// ============================================================================
// Lexer 基准测试
// ============================================================================
//
// 运行基准测试：
//   go test -bench=. -benchmem ./internal/lexer/...
//
// 对比优化前后：
//   go test -bench=. -benchmem -count=5 ./internal/lexer/... > new.txt
//   benchstat old.txt new.txt
//
// ============================================================================

// 测试源码样本：模拟真实的 Luau 模块
var benchSource = `
--[[
	基准测试用的示例模块
	包含各种常见的语法结构
]]

local Players = game:GetService("Players")
local Signal = require(script.Parent.Signal)

export type Options = {
	retries: number?,
	name: string,
	[string]: any,
}

type Callback<T...> = (T...) -> ()

local Controller = {}
Controller.__index = Controller

function Controller.new(options: Options)
	local self = setmetatable({}, Controller)
	self.retries = options.retries or 3
	self.changed = Signal.new()
	return self
end

function Controller:login(username: string, password: string): boolean
	-- 验证输入
	if username == "" or password == "" then
		return false
	end

	for i = 1, self.retries do
		local ok, result = pcall(self.authenticate, self, username, password)
		if ok and result ~= nil then
			self.changed:Fire(result)
			return true
		end
	end

	return false
end

function Controller:score(base: number, multiplier: number): number
	local bonus = 1.5e2 + 0x10 + 0b1010
	local total = base * multiplier // 1
	total += bonus
	return if total > 100 then 100 else total
end

function Controller:format(params: { [string]: string }): string
	return ` + "`Hello, {params.name}! Your score is {params.score}.`" + `
end

return Controller
`

// BenchmarkLexer 测试完整的词法分析性能
func BenchmarkLexer(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSource)))

	for i := 0; i < b.N; i++ {
		lexer := New(benchSource, "bench.luau")
		_ = lexer.ScanTokens()
	}
}

// BenchmarkLexerLargeFile 测试大文件的词法分析性能
func BenchmarkLexerLargeFile(b *testing.B) {
	largeSource := strings.Repeat(benchSource, 100)

	b.ReportAllocs()
	b.SetBytes(int64(len(largeSource)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		lexer := New(largeSource, "large.luau")
		_ = lexer.ScanTokens()
	}
}

// BenchmarkLexerStrings 测试字符串解析性能
func BenchmarkLexerStrings(b *testing.B) {
	source := `"simple string" 'another string' [[long string]]` +
		strings.Repeat(` "string with content number 123"`, 100) +
		strings.Repeat(` "hello\nworld\t\"escaped\"\u{48}"`, 100)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))

	for i := 0; i < b.N; i++ {
		lexer := New(source, "strings.luau")
		_ = lexer.ScanTokens()
	}
}

// BenchmarkLexerInterp 测试插值字符串解析性能
func BenchmarkLexerInterp(b *testing.B) {
	source := strings.Repeat("`a {b} c {d + 1} e` ", 100)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))

	for i := 0; i < b.N; i++ {
		lexer := New(source, "interp.luau")
		_ = lexer.ScanTokens()
	}
}

// BenchmarkLexerNumbers 测试数字解析性能
func BenchmarkLexerNumbers(b *testing.B) {
	source := strings.Repeat("123 456 789 0 1 2 3 4 5 6 7 8 9 ", 50) +
		strings.Repeat("3.14 2.718 1.0e10 1_000_000 ", 30) +
		strings.Repeat("0xFF 0x1234 0b1010 ", 20)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))

	for i := 0; i < b.N; i++ {
		lexer := New(source, "numbers.luau")
		_ = lexer.ScanTokens()
	}
}

// BenchmarkLexerComments 测试注释跳过性能
func BenchmarkLexerComments(b *testing.B) {
	source := strings.Repeat("-- single line comment\n", 50) +
		strings.Repeat("--[[ block comment ]] ", 30) +
		"--[==[ long ]] comment ]==] identifier"

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))

	for i := 0; i < b.N; i++ {
		lexer := New(source, "comments.luau")
		_ = lexer.ScanTokens()
	}
}
