package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "Unexpected character '%s'",
	ErrMalformedString:     "Malformed string; did you forget to finish it?",
	ErrMalformedLongString: "Malformed long string; did you forget to finish it?",
	ErrMalformedInterp:     "Malformed interpolated string; did you forget to add a '`'?",
	ErrDoubleBrace:         "Double braces are not permitted within interpolated strings; did you mean '\\{'?",
	ErrUnfinishedComment:   "Unfinished long comment",
	ErrMalformedNumber:     "Malformed number",
	ErrMalformedEscape:     "String literal contains malformed escape sequence",

	// ========== Parser ==========
	ErrExpectedButGot:        "Expected %s, got %s",
	ErrExpectedWhenParsing:   "Expected %s when parsing %s, got %s",
	ErrExpectedToCloseLine:   "Expected %s (to close %s at line %d), got %s",
	ErrExpectedToCloseColumn: "Expected %s (to close %s at column %d), got %s",
	ErrExpectedExpression:    "Expected identifier when parsing expression, got %s",
	ErrIncompleteStatement:   "Incomplete statement: expected assignment or a function call",
	ErrAssignTarget:          "Assigned expression must be a variable or a field",
	ErrAmbiguousCall:         "Ambiguous syntax: this looks like an argument list for a function call, but could also be a start of new statement; use ';' to separate statements",
	ErrVarargOutside:         "Cannot use '...' outside of a vararg function",
	ErrRecursionLimit:        "Exceeded allowed recursion depth; simplify your expression to make the code compile",
	ErrMixedUnion:            "Mixing union and intersection types is not allowed; consider wrapping in parentheses",
	ErrMultipleIndexers:      "Cannot have more than one table indexer",
	ErrGenericOrder:          "Generic types come before generic type packs",
	ErrMalformedInterpExpr:   "Malformed interpolated string, expected expression inside '{}'",
	ErrTooManyErrors:         "Too many errors, giving up",

	// ========== Diagnostics ==========
	HintUnclosedBlock:    "every block opener needs its matching closing keyword",
	HintMalformedLiteral: "check the literal's delimiters and escape sequences",
	HintAssignTarget:     "only names, fields and indexed expressions can be assigned",
	HintRecursionLimit:   "split the expression into local variables",
	DiagErrorsFound:      "%d error(s) found",

	// ========== CLI ==========
	CmdRootShort:      "Luau formatting-preserving transpiler",
	CmdTranspileShort: "Print a Luau file back from its syntax tree (optionally stripping types)",
	CmdCheckShort:     "Check Luau files for syntax errors",
	CmdInitShort:      "Write a default luau-transpile.toml",
	CmdLspShort:       "Run the language server on stdio",
	FlagConfig:        "path to luau-transpile.toml (default: search upwards from the working directory)",
	FlagLang:          "message language (en/zh)",
	FlagVerbose:       "verbose logging",
	FlagTypes:         "keep type annotations and type declarations",
	FlagCanonical:     "ignore recorded formatting and print canonical layout",
	FlagDiff:          "print a unified diff between input and output",
	FlagOutput:        "write the result to this file instead of stdout",
	FlagForce:         "overwrite an existing config file",
	MsgSyntaxOK:       "✓ %s: syntax OK",
	MsgConfigWritten:  "✓ wrote %s",
	MsgNoChanges:      "%s: no changes",
	ErrReadFile:       "reading %s: %v",
	ErrWriteFile:      "writing %s: %v",
	ErrConfigExists:   "%s already exists (use --force to overwrite)",
	ErrCheckFailed:    "syntax errors found",

	// ========== LSP ==========
	ErrDocumentTooLarge: "document too large to parse (%d bytes)",
	ErrUnknownDocument:  "document not open: %s",
}
