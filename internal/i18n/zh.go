package i18n

var messagesZH = map[string]string{
	// ========== 词法分析器 ==========
	ErrUnexpectedChar:      "意外字符 '%s'",
	ErrMalformedString:     "字符串格式错误，是否忘记闭合？",
	ErrMalformedLongString: "长字符串格式错误，是否忘记闭合？",
	ErrMalformedInterp:     "插值字符串格式错误，是否忘记添加 '`'？",
	ErrDoubleBrace:         "插值字符串中不允许使用双花括号，是否想写 '\\{'？",
	ErrUnfinishedComment:   "未闭合的长注释",
	ErrMalformedNumber:     "数字格式错误",
	ErrMalformedEscape:     "字符串字面量包含畸形的转义序列",

	// ========== 语法分析器 ==========
	ErrExpectedButGot:        "需要 %s，实际为 %s",
	ErrExpectedWhenParsing:   "解析%[2]s时需要 %[1]s，实际为 %[3]s",
	ErrExpectedToCloseLine:   "需要 %s（用于闭合第 %[3]d 行的 %[2]s），实际为 %[4]s",
	ErrExpectedToCloseColumn: "需要 %s（用于闭合第 %[3]d 列的 %[2]s），实际为 %[4]s",
	ErrExpectedExpression:    "解析表达式时需要标识符，实际为 %s",
	ErrIncompleteStatement:   "语句不完整：需要赋值或函数调用",
	ErrAssignTarget:          "赋值目标必须是变量或字段",
	ErrAmbiguousCall:         "语法有歧义：这既像函数调用的参数列表，也像新语句的开头；请使用 ';' 分隔语句",
	ErrVarargOutside:         "不能在非可变参数函数中使用 '...'",
	ErrRecursionLimit:        "超出允许的递归深度，请简化表达式",
	ErrMixedUnion:            "不允许混用联合类型与交叉类型，请使用括号",
	ErrMultipleIndexers:      "表类型不能有多个索引器",
	ErrGenericOrder:          "泛型类型参数必须写在泛型类型包参数之前",
	ErrMalformedInterpExpr:   "插值字符串格式错误，'{}' 中缺少表达式",
	ErrTooManyErrors:         "错误过多，停止解析",

	// ========== 诊断 ==========
	HintUnclosedBlock:    "每个块的起始关键字都需要对应的结束关键字",
	HintMalformedLiteral: "检查字面量的定界符与转义序列",
	HintAssignTarget:     "只有名字、字段与下标表达式可以被赋值",
	HintRecursionLimit:   "把表达式拆分到局部变量中",
	DiagErrorsFound:      "发现 %d 个错误",

	// ========== 命令行 ==========
	CmdRootShort:      "保留格式的 Luau 转写工具",
	CmdTranspileShort: "从语法树重新打印 Luau 文件（可去除类型）",
	CmdCheckShort:     "检查 Luau 文件的语法错误",
	CmdInitShort:      "生成默认的 luau-transpile.toml",
	CmdLspShort:       "在标准输入输出上运行语言服务器",
	FlagConfig:        "luau-transpile.toml 路径（默认从工作目录向上查找）",
	FlagLang:          "消息语言 (en/zh)",
	FlagVerbose:       "详细日志",
	FlagTypes:         "保留类型注解与类型声明",
	FlagCanonical:     "忽略记录的排版，按规范布局打印",
	FlagDiff:          "输出输入与结果之间的统一 diff",
	FlagOutput:        "把结果写入该文件而不是标准输出",
	FlagForce:         "覆盖已存在的配置文件",
	MsgSyntaxOK:       "✓ %s: 语法正确",
	MsgConfigWritten:  "✓ 已写入 %s",
	MsgNoChanges:      "%s: 无变化",
	ErrReadFile:       "读取 %s 失败: %v",
	ErrWriteFile:      "写入 %s 失败: %v",
	ErrConfigExists:   "%s 已存在（使用 --force 覆盖）",
	ErrCheckFailed:    "发现语法错误",

	// ========== 语言服务器 ==========
	ErrDocumentTooLarge: "文档过大，无法解析（%d 字节）",
	ErrUnknownDocument:  "文档未打开: %s",
}
