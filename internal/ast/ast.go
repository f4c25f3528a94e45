// Package ast defines the expression, pattern, and from-step IR nodes
// the inverter operates on. Expressions are immutable once
// constructed and carry a token.Token for diagnostics and a
// types.Type for the type checker's already-resolved type.
package ast

import (
	"github.com/funvibe/funql/internal/token"
	"github.com/funvibe/funql/internal/types"
)

// Node is the base interface for every AST node.
type Node interface {
	Accept(v Visitor)
	GetToken() token.Token
}

// Expression is a Node that yields a value of some Type.
type Expression interface {
	Node
	expressionNode()
	Type() types.Type
}

// Pattern destructures a value, optionally binding identifiers.
type Pattern interface {
	Node
	patternNode()
	// Vars returns the identifier patterns bound by this pattern, in
	// left-to-right order, including nested ones.
	Vars() []*IdentifierPattern
}
