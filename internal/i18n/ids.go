package i18n

// 消息 ID
const (
	// ========== Lexer ==========
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrMalformedString     = "lexer.malformed_string"
	ErrMalformedLongString = "lexer.malformed_long_string"
	ErrMalformedInterp     = "lexer.malformed_interp"
	ErrDoubleBrace         = "lexer.double_brace"
	ErrUnfinishedComment   = "lexer.unfinished_comment"
	ErrMalformedNumber     = "lexer.malformed_number"
	ErrMalformedEscape     = "lexer.malformed_escape"

	// ========== Parser ==========
	ErrExpectedButGot        = "parser.expected_got"
	ErrExpectedWhenParsing   = "parser.expected_when_parsing"
	ErrExpectedToCloseLine   = "parser.expected_close_line"
	ErrExpectedToCloseColumn = "parser.expected_close_column"
	ErrExpectedExpression    = "parser.expected_expression"
	ErrIncompleteStatement   = "parser.incomplete_statement"
	ErrAssignTarget          = "parser.assign_target"
	ErrAmbiguousCall         = "parser.ambiguous_call"
	ErrVarargOutside         = "parser.vararg_outside"
	ErrRecursionLimit        = "parser.recursion_limit"
	ErrMixedUnion            = "parser.mixed_union"
	ErrMultipleIndexers      = "parser.multiple_indexers"
	ErrGenericOrder          = "parser.generic_order"
	ErrMalformedInterpExpr   = "parser.malformed_interp_expr"
	ErrTooManyErrors         = "parser.too_many_errors"

	// ========== Diagnostics ==========
	HintUnclosedBlock    = "hint.unclosed_block"
	HintMalformedLiteral = "hint.malformed_literal"
	HintAssignTarget     = "hint.assign_target"
	HintRecursionLimit   = "hint.recursion_limit"
	DiagErrorsFound      = "diag.errors_found"

	// ========== CLI ==========
	CmdRootShort      = "cli.root_short"
	CmdTranspileShort = "cli.transpile_short"
	CmdCheckShort     = "cli.check_short"
	CmdInitShort      = "cli.init_short"
	CmdLspShort       = "cli.lsp_short"
	FlagConfig        = "cli.flag_config"
	FlagLang          = "cli.flag_lang"
	FlagVerbose       = "cli.flag_verbose"
	FlagTypes         = "cli.flag_types"
	FlagCanonical     = "cli.flag_canonical"
	FlagDiff          = "cli.flag_diff"
	FlagOutput        = "cli.flag_output"
	FlagForce         = "cli.flag_force"
	MsgSyntaxOK       = "cli.syntax_ok"
	MsgConfigWritten  = "cli.config_written"
	MsgNoChanges      = "cli.no_changes"
	ErrReadFile       = "cli.read_file"
	ErrWriteFile      = "cli.write_file"
	ErrConfigExists   = "cli.config_exists"
	ErrCheckFailed    = "cli.check_failed"

	// ========== LSP ==========
	ErrDocumentTooLarge = "lsp.document_too_large"
	ErrUnknownDocument  = "lsp.unknown_document"
)
