// Package filter builds metadata filter expressions and serializes them to the
// JSON query form used by the vector query, delete and stats endpoints.
//
//	f := filter.Or(
//	    filter.Eq("title", filter.String("Marvel_Comics")),
//	    filter.Eq("title", filter.String("PlayStation_3")),
//	)
//	body, _ := filter.Marshal(f)
//	// {"filter":{"$or":[{"title":{"$eq":"Marvel_Comics"}},{"title":{"$eq":"PlayStation_3"}}]}}
package filter

import (
	"encoding/json"
	"fmt"
)

// Key is the body field every attached filter lives under.
const Key = "filter"

// Expression is one of Binary, Array, Combination or Empty.
type Expression interface {
	// Tree returns the inner filter object, without the outer "filter" key.
	Tree() map[string]any
	isExpression()
}

// BinaryOp compares a field to one value.
type BinaryOp int

// Binary operators.
const (
	OpEq BinaryOp = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
)

// Symbol returns the wire operator.
func (op BinaryOp) Symbol() string {
	switch op {
	case OpEq:
		return "$eq"
	case OpNe:
		return "$ne"
	case OpGt:
		return "$gt"
	case OpGte:
		return "$gte"
	case OpLt:
		return "$lt"
	case OpLte:
		return "$lte"
	default:
		return ""
	}
}

// ArrayOp tests membership of a field in a list.
type ArrayOp int

// Array operators.
const (
	OpIn ArrayOp = iota
	OpNin
)

// Symbol returns the wire operator.
func (op ArrayOp) Symbol() string {
	switch op {
	case OpIn:
		return "$in"
	case OpNin:
		return "$nin"
	default:
		return ""
	}
}

// CombinationOp joins child expressions.
type CombinationOp int

// Combination operators.
const (
	OpAnd CombinationOp = iota
	OpOr
)

// Symbol returns the wire operator.
func (op CombinationOp) Symbol() string {
	switch op {
	case OpAnd:
		return "$and"
	case OpOr:
		return "$or"
	default:
		return ""
	}
}

// Binary is {key: {op: value}}.
type Binary struct {
	key   string
	op    BinaryOp
	value Value
}

// Eq matches metadata[key] == v.
func Eq(key string, v Value) Binary { return Binary{key: key, op: OpEq, value: v} }

// Ne matches metadata[key] != v.
func Ne(key string, v Value) Binary { return Binary{key: key, op: OpNe, value: v} }

// Gt matches metadata[key] > v.
func Gt(key string, v Value) Binary { return Binary{key: key, op: OpGt, value: v} }

// Gte matches metadata[key] >= v.
func Gte(key string, v Value) Binary { return Binary{key: key, op: OpGte, value: v} }

// Lt matches metadata[key] < v.
func Lt(key string, v Value) Binary { return Binary{key: key, op: OpLt, value: v} }

// Lte matches metadata[key] <= v.
func Lte(key string, v Value) Binary { return Binary{key: key, op: OpLte, value: v} }

// Key returns the metadata field name.
func (b Binary) Key() string { return b.key }

// Op returns the operator.
func (b Binary) Op() BinaryOp { return b.op }

// Value returns the compared value.
func (b Binary) Value() Value { return b.value }

// Tree implements Expression.
func (b Binary) Tree() map[string]any {
	return map[string]any{b.key: map[string]any{b.op.Symbol(): b.value}}
}

func (Binary) isExpression() {}

// Array is {key: {op: [values...]}}.
type Array struct {
	key    string
	op     ArrayOp
	values []Value
}

// In matches when metadata[key] equals one of values.
func In(key string, values ...Value) Array {
	return Array{key: key, op: OpIn, values: append([]Value(nil), values...)}
}

// Nin matches when metadata[key] equals none of values.
func Nin(key string, values ...Value) Array {
	return Array{key: key, op: OpNin, values: append([]Value(nil), values...)}
}

// Key returns the metadata field name.
func (a Array) Key() string { return a.key }

// Op returns the operator.
func (a Array) Op() ArrayOp { return a.op }

// Values returns a copy of the candidate values.
func (a Array) Values() []Value { return append([]Value(nil), a.values...) }

// Tree implements Expression.
func (a Array) Tree() map[string]any {
	vals := make([]any, len(a.values))
	for i, v := range a.values {
		vals[i] = v
	}
	return map[string]any{a.key: map[string]any{a.op.Symbol(): vals}}
}

func (Array) isExpression() {}

// Combination is {op: [child, ...]}. It always has at least one child and
// keeps children in the order given.
type Combination struct {
	op       CombinationOp
	children []Expression
}

// And matches when every child matches.
func And(first Expression, rest ...Expression) Combination {
	return Combination{op: OpAnd, children: append([]Expression{first}, rest...)}
}

// Or matches when any child matches.
func Or(first Expression, rest ...Expression) Combination {
	return Combination{op: OpOr, children: append([]Expression{first}, rest...)}
}

// NewCombination builds a combination from a slice. It rejects an empty or
// nil-containing child list.
func NewCombination(op CombinationOp, children []Expression) (Combination, error) {
	if op.Symbol() == "" {
		return Combination{}, fmt.Errorf("filter: unknown combination operator %d", op)
	}
	if len(children) == 0 {
		return Combination{}, fmt.Errorf("filter: %s requires at least one child", op.Symbol())
	}
	for i, c := range children {
		if c == nil {
			return Combination{}, fmt.Errorf("filter: %s child %d is nil", op.Symbol(), i)
		}
	}
	return Combination{op: op, children: append([]Expression(nil), children...)}, nil
}

// Op returns the operator.
func (c Combination) Op() CombinationOp { return c.op }

// Children returns a copy of the child expressions.
func (c Combination) Children() []Expression { return append([]Expression(nil), c.children...) }

// Tree implements Expression.
func (c Combination) Tree() map[string]any {
	kids := make([]any, len(c.children))
	for i, child := range c.children {
		kids[i] = child.Tree()
	}
	return map[string]any{c.op.Symbol(): kids}
}

func (Combination) isExpression() {}

// Empty is the no-op filter. It serializes to {}.
type Empty struct{}

// None returns the no-op filter.
func None() Empty { return Empty{} }

// Tree implements Expression.
func (Empty) Tree() map[string]any { return map[string]any{} }

func (Empty) isExpression() {}

// Validate walks e and rejects malformed nodes: unknown operators, nil or
// missing children of a combination, and leaves holding an invalid Value.
// A nil e itself is valid and means None.
func Validate(e Expression) error {
	if e == nil {
		return nil
	}
	return validate(e)
}

func validate(e Expression) error {
	switch x := e.(type) {
	case nil:
		return fmt.Errorf("filter: nil expression")
	case Empty:
		return nil
	case Binary:
		if x.op.Symbol() == "" {
			return fmt.Errorf("filter: %q: unknown operator %d", x.key, x.op)
		}
		if !x.value.IsValid() {
			return fmt.Errorf("filter: %q: invalid value", x.key)
		}
	case Array:
		if x.op.Symbol() == "" {
			return fmt.Errorf("filter: %q: unknown operator %d", x.key, x.op)
		}
		for i, v := range x.values {
			if !v.IsValid() {
				return fmt.Errorf("filter: %q: invalid value at %d", x.key, i)
			}
		}
	case Combination:
		if x.op.Symbol() == "" {
			return fmt.Errorf("filter: unknown combination operator %d", x.op)
		}
		if len(x.children) == 0 {
			return fmt.Errorf("filter: %s requires at least one child", x.op.Symbol())
		}
		for i, c := range x.children {
			if c == nil {
				return fmt.Errorf("filter: %s child %d is nil", x.op.Symbol(), i)
			}
			if err := validate(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Marshal serializes e as {"filter": <tree>}. A nil e is treated as None.
func Marshal(e Expression) ([]byte, error) {
	if e == nil {
		e = None()
	}
	if err := Validate(e); err != nil {
		return nil, err
	}
	data, err := json.Marshal(map[string]any{Key: e.Tree()})
	if err != nil {
		return nil, fmt.Errorf("filter: marshal: %w", err)
	}
	return data, nil
}
