package readers

// CST node kinds produced by the Objective-C grammar. The reader dispatches
// on these; anything unlisted falls through to unknown nodes.
const (
	kindClassInterface     = "class_interface"
	kindClassImplementation = "class_implementation"
	kindCategoryInterface  = "category_interface"
	kindCategoryImpl       = "category_implementation"
	kindProtocolDecl       = "protocol_declaration"
	kindInstanceVariables  = "instance_variables"
	kindFieldDeclaration   = "field_declaration"
	kindPropertyDecl       = "property_declaration"
	kindMethodDeclaration  = "method_declaration"
	kindMethodDefinition   = "method_definition"
	kindSynthesizeDef      = "synthesize_definition"
	kindDynamicDef         = "dynamic_definition"
	kindTypeDefinition     = "type_definition"
	kindDeclaration        = "declaration"
	kindFunctionDefinition = "function_definition"
	kindEnumSpecifier      = "enum_specifier"
	kindStructSpecifier    = "struct_specifier"
	kindEnumeratorList     = "enumerator_list"
	kindEnumerator         = "enumerator"
	kindFieldDeclList      = "field_declaration_list"
	kindCompoundStatement  = "compound_statement"
	kindComment            = "comment"
	kindIdentifier         = "identifier"
	kindInitDeclarator     = "init_declarator"
	kindFunctionDeclarator = "function_declarator"
	kindParameterList      = "parameter_list"
	kindParameterDecl      = "parameter_declaration"

	kindExpressionStatement = "expression_statement"
	kindIfStatement         = "if_statement"
	kindElseClause          = "else_clause"
	kindWhileStatement      = "while_statement"
	kindDoStatement         = "do_statement"
	kindForStatement        = "for_statement"
	kindForInStatement      = "for_in_statement"
	kindSwitchStatement     = "switch_statement"
	kindCaseStatement       = "case_statement"
	kindReturnStatement     = "return_statement"
	kindBreakStatement      = "break_statement"
	kindContinueStatement   = "continue_statement"

	kindParenExpression   = "parenthesized_expression"
	kindBinaryExpression  = "binary_expression"
	kindUnaryExpression   = "unary_expression"
	kindUpdateExpression  = "update_expression"
	kindAssignExpression  = "assignment_expression"
	kindCondExpression    = "conditional_expression"
	kindCastExpression    = "cast_expression"
	kindCallExpression    = "call_expression"
	kindArgumentList      = "argument_list"
	kindFieldExpression   = "field_expression"
	kindSubscriptExpr     = "subscript_expression"
	kindPointerExpression = "pointer_expression"
	kindCommaExpression   = "comma_expression"
	kindNumberLiteral     = "number_literal"
	kindStringLiteral     = "string_literal"
	kindCharLiteral       = "char_literal"
	kindTrue              = "true"
	kindFalse             = "false"
	kindNull              = "null"

	kindMessageExpression = "message_expression"
	kindMessageSelector   = "message_selector"
	kindKeywordArgument   = "keyword_argument"
	kindSelectorExpr      = "selector_expression"
	kindStringExpression  = "string_expression"
	kindArrayExpression   = "array_expression"
	kindDictExpression    = "dictionary_expression"
	kindNumberExpression  = "number_expression"
	kindBlockExpression   = "block_expression"
	kindBlockLiteral      = "block_literal"
	kindSelf              = "self"
	kindSuper             = "super"
	kindNil               = "nil"
)

// preprocKinds are preprocessor node kinds preserved as directive comments.
var preprocKinds = map[string]bool{
	"preproc_include":      true,
	"preproc_def":          true,
	"preproc_function_def": true,
	"preproc_if":           true,
	"preproc_ifdef":        true,
	"preproc_call":         true,
	"preproc_import":       true,
}
