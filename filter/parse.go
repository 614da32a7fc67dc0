package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Parse reads an inner filter object, the value found under "filter" in a
// request body. {} yields None. An object with several fields is read as an
// implicit $and over its fields in key order, and a bare field value
// ({"genre": "drama"}) as $eq.
func Parse(data []byte) (Expression, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("filter: decode: %w", err)
	}
	if raw == nil {
		return None(), nil
	}
	return parseNode(raw)
}

func parseNode(raw any) (Expression, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("filter: expected object, got %T", raw)
	}
	if len(obj) == 0 {
		return None(), nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]Expression, 0, len(keys))
	for _, k := range keys {
		e, err := parseEntry(k, obj[k])
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return And(parts[0], parts[1:]...), nil
}

func parseEntry(key string, raw any) (Expression, error) {
	switch key {
	case "$and", "$or":
		op := OpAnd
		if key == "$or" {
			op = OpOr
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("filter: %s expects an array, got %T", key, raw)
		}
		children := make([]Expression, 0, len(list))
		for _, item := range list {
			child, err := parseNode(item)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		c, err := NewCombination(op, children)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	cond, ok := raw.(map[string]any)
	if !ok {
		v, err := valueFromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("filter: %q: %w", key, err)
		}
		return Eq(key, v), nil
	}
	if len(cond) != 1 {
		return nil, fmt.Errorf("filter: %q: expected exactly one operator, got %d", key, len(cond))
	}
	for sym, operand := range cond {
		return parseCondition(key, sym, operand)
	}
	panic("unreachable")
}

func parseCondition(key, sym string, operand any) (Expression, error) {
	if op, ok := binaryOps[sym]; ok {
		v, err := valueFromJSON(operand)
		if err != nil {
			return nil, fmt.Errorf("filter: %q %s: %w", key, sym, err)
		}
		return Binary{key: key, op: op, value: v}, nil
	}
	if op, ok := arrayOps[sym]; ok {
		list, ok := operand.([]any)
		if !ok {
			return nil, fmt.Errorf("filter: %q %s expects an array, got %T", key, sym, operand)
		}
		vals := make([]Value, len(list))
		for i, item := range list {
			v, err := valueFromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("filter: %q %s[%d]: %w", key, sym, i, err)
			}
			vals[i] = v
		}
		return Array{key: key, op: op, values: vals}, nil
	}
	return nil, fmt.Errorf("filter: %q: unknown operator %q", key, sym)
}

var binaryOps = map[string]BinaryOp{
	"$eq":  OpEq,
	"$ne":  OpNe,
	"$gt":  OpGt,
	"$gte": OpGte,
	"$lt":  OpLt,
	"$lte": OpLte,
}

var arrayOps = map[string]ArrayOp{
	"$in":  OpIn,
	"$nin": OpNin,
}
