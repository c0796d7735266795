// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package expr evaluates --where expressions against dataset rows. An
// expression is HCL native syntax; each row key is exposed as a variable and
// the whole row as the object `row`.
//
//	status == "changed" && number(new) > number(original) * 2
//	contains(["qty", "unit"], field)
//	lower(name) != "spare"
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/tfctl/rowdiff/internal/differ"
	"github.com/tfctl/rowdiff/internal/log"
)

// ErrNotBool is returned by Eval when an expression yields anything but a
// known bool.
var ErrNotBool = errors.New("where expression did not evaluate to a bool")

// Where is a compiled --where expression.
type Where struct {
	source string
	expr   hclsyntax.Expression
	funcs  map[string]function.Function
}

// Compile parses src. An empty src compiles to nil, which matches every row.
func Compile(src string) (*Where, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil //nolint:nilnil
	}

	e, diags := hclsyntax.ParseExpression([]byte(src), "where", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid --where expression: %s", diags.Error())
	}
	log.Debugf("where compiled: src=%s", src)

	return &Where{source: src, expr: e, funcs: buildFunctionMap()}, nil
}

func (w *Where) String() string {
	if w == nil {
		return ""
	}
	return w.source
}

// Eval evaluates the expression against row.
func (w *Where) Eval(row map[string]interface{}) (bool, error) {
	if w == nil {
		return true, nil
	}

	ctx := &hcl.EvalContext{
		Variables: buildVariableMap(row),
		Functions: w.funcs,
	}

	val, diags := w.expr.Value(ctx)
	if diags.HasErrors() {
		return false, fmt.Errorf("failed to evaluate %q: %s", w.source, diags.Error())
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.Bool {
		return false, ErrNotBool
	}
	return val.True(), nil
}

// Filter returns the rows for which the expression is true. Rows that fail to
// evaluate are dropped.
func (w *Where) Filter(rows []map[string]interface{}) []map[string]interface{} {
	if w == nil {
		return rows
	}

	kept := rows[:0:0]
	for _, row := range rows {
		ok, err := w.Eval(row)
		if err != nil {
			log.Debugf("where dropped row: id=%v, err=%v", row["id"], err)
			continue
		}
		if ok {
			kept = append(kept, row)
		}
	}
	return kept
}

// buildFunctionMap is the cty stdlib subset useful on flat string rows plus
// number(), which coerces a cell the same way the differ does.
func buildFunctionMap() map[string]function.Function {
	return map[string]function.Function{
		"abs":        stdlib.AbsoluteFunc,
		"ceil":       stdlib.CeilFunc,
		"floor":      stdlib.FloorFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"signum":     stdlib.SignumFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"upper":      stdlib.UpperFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"substr":     stdlib.SubstrFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"strlen":     stdlib.StrlenFunc,
		"contains":   stdlib.ContainsFunc,
		"length":     stdlib.LengthFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"regex":      stdlib.RegexFunc,
		"regexall":   stdlib.RegexAllFunc,
		"parseint":   stdlib.ParseIntFunc,
		"number":     numberFunc,
		"numeric":    numericFunc,
		"try":        tryfunc.TryFunc,
		"can":        tryfunc.CanFunc,
	}
}

var numberFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.String, AllowNull: true}},
	Type:   function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if args[0].IsNull() {
			return cty.Zero, nil
		}
		n := differ.ParseNumber(args[0].AsString())
		if !n.Numeric {
			return cty.NilVal, fmt.Errorf("%q is not a number", args[0].AsString())
		}
		return cty.NumberFloatVal(n.Value), nil
	},
})

var numericFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.String, AllowNull: true}},
	Type:   function.StaticReturnType(cty.Bool),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if args[0].IsNull() {
			return cty.False, nil
		}
		return cty.BoolVal(differ.ParseNumber(args[0].AsString()).Numeric), nil
	},
})

func buildVariableMap(row map[string]interface{}) map[string]cty.Value {
	vars := make(map[string]cty.Value, len(row)+1)
	obj := make(map[string]cty.Value, len(row))
	for key, value := range row {
		v := convertToCtyValue(value)
		obj[key] = v
		if hclsyntax.ValidIdentifier(key) {
			vars[key] = v
		}
	}
	vars["row"] = cty.ObjectVal(obj)
	return vars
}

func convertToCtyValue(val interface{}) cty.Value {
	switch v := val.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case string:
		return cty.StringVal(v)
	default:
		return cty.StringVal(fmt.Sprintf("%v", v))
	}
}
