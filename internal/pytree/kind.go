package pytree

// Kind identifies the syntactic category of a node. The set mirrors what the
// upstream parser produces for a dynamically-typed source language; the engine
// itself only dispatches on it and never interprets individual kinds beyond
// scoping and statement counting.
type Kind uint8

const (
	KindModule Kind = iota
	KindClassDef
	KindFunctionDef
	KindIf
	KindFor
	KindWhile
	KindWith
	KindTry
	// KindBranch is one arm of a multi-branch statement: an if/elif/else arm
	// or a try/except/else/finally arm. Each branch opens its own scope.
	KindBranch
	KindAssign
	KindAugAssign
	KindReturn
	KindRaise
	KindImport
	KindExprStmt
	KindPass
	KindBreak
	KindContinue
	KindGlobal
	KindDelete
	KindAssert
	KindCall
	KindName
	KindAttribute
	KindSubscript
	KindConst
	KindBinOp
	KindCompare
	KindArguments
	KindArg
	KindKeyword
	KindLambda
	KindComprehension
	KindDict
	KindList
	KindTuple

	kindCount
)

var kindNames = [...]string{
	KindModule:        "module",
	KindClassDef:      "classdef",
	KindFunctionDef:   "functiondef",
	KindIf:            "if",
	KindFor:           "for",
	KindWhile:         "while",
	KindWith:          "with",
	KindTry:           "try",
	KindBranch:        "branch",
	KindAssign:        "assign",
	KindAugAssign:     "augassign",
	KindReturn:        "return",
	KindRaise:         "raise",
	KindImport:        "import",
	KindExprStmt:      "exprstmt",
	KindPass:          "pass",
	KindBreak:         "break",
	KindContinue:      "continue",
	KindGlobal:        "global",
	KindDelete:        "delete",
	KindAssert:        "assert",
	KindCall:          "call",
	KindName:          "name",
	KindAttribute:     "attribute",
	KindSubscript:     "subscript",
	KindConst:         "const",
	KindBinOp:         "binop",
	KindCompare:       "compare",
	KindArguments:     "arguments",
	KindArg:           "arg",
	KindKeyword:       "keyword",
	KindLambda:        "lambda",
	KindComprehension: "comprehension",
	KindDict:          "dict",
	KindList:          "list",
	KindTuple:         "tuple",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Count returns the number of node kinds; dispatch tables size themselves by it.
func Count() int { return int(kindCount) }

// IsStatement reports whether nodes of this kind count as analyzable statements.
func (k Kind) IsStatement() bool {
	switch k {
	case KindAssign, KindAugAssign, KindReturn, KindRaise, KindImport,
		KindExprStmt, KindPass, KindBreak, KindContinue, KindGlobal,
		KindDelete, KindAssert, KindIf, KindFor, KindWhile, KindWith,
		KindTry, KindFunctionDef, KindClassDef:
		return true
	}
	return false
}

// IsBlockStatement reports whether statements of this kind carry an indented
// body, so their spans cover more than their own header lines.
func (k Kind) IsBlockStatement() bool {
	switch k {
	case KindIf, KindFor, KindWhile, KindWith, KindTry,
		KindFunctionDef, KindClassDef:
		return true
	}
	return false
}

// OpensScope reports whether nodes of this kind introduce a suppression scope
// for their body: the module, function/class bodies, and every branch arm.
func (k Kind) OpensScope() bool {
	switch k {
	case KindModule, KindClassDef, KindFunctionDef, KindBranch:
		return true
	}
	return false
}
