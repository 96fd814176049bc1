package parser

import "fmt"

// ErrorKind classifies a parse failure. The set is closed: failures are
// signals for backtracking first and error reporting second, so a message
// category is all downstream consumers need.
type ErrorKind int

const (
	// UnexpectedToken means consume saw a different token than required.
	UnexpectedToken ErrorKind = iota
	// MissingSeparator means no statement boundary could be justified.
	MissingSeparator
	// ToplevelOnly means a declaration keyword appeared in statement position.
	ToplevelOnly
	// MissingArguments means a call position had no argument section at all.
	MissingArguments
	// SingleElementTuple means a parenthesized single pattern was used where
	// a tuple pattern of two or more elements is required.
	SingleElementTuple
	// ExpectedConstruct means no alternative matched at a grammar entry point.
	ExpectedConstruct
	// NotImplemented marks a recognized but unsupported grammar branch.
	NotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case MissingSeparator:
		return "MissingSeparator"
	case ToplevelOnly:
		return "ToplevelOnly"
	case MissingArguments:
		return "MissingArguments"
	case SingleElementTuple:
		return "SingleElementTupleError"
	case ExpectedConstruct:
		return "ExpectedConstruct"
	case NotImplemented:
		return "NotImplemented"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is a parse failure: a message plus the 0-based token index at
// which it occurred. It carries no partial result; a failure always aborts
// the enclosing sub-parse unless an attempt backtracks over it.
type ParseError struct {
	Kind ErrorKind
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at token %d: %s", e.Kind, e.Pos, e.Msg)
}
