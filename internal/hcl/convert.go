package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/socforge/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// exprToValue evaluates a literal expression. Object and tuple constructors
// are walked item by item so their order is kept.
func exprToValue(expr hclsyntax.Expression) (*config.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		out := config.EmptyMap()
		for _, item := range e.Items {
			kv, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			key, err := convert.Convert(kv, cty.String)
			if err != nil || key.IsNull() || !key.IsKnown() {
				return nil, fmt.Errorf("%s: object key must be a string", item.KeyExpr.Range())
			}
			val, err := exprToValue(item.ValueExpr)
			if err != nil {
				return nil, err
			}
			out.Map.Set(key.AsString(), val)
		}
		return out, nil
	case *hclsyntax.TupleConsExpr:
		out := config.List()
		for _, elem := range e.Exprs {
			val, err := exprToValue(elem)
			if err != nil {
				return nil, err
			}
			out.List = append(out.List, val)
		}
		return out, nil
	default:
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		val, err := ctyToValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", expr.Range(), err)
		}
		return val, nil
	}
}

// ctyToValue recursively converts a cty.Value into a document node. Numbers
// that are whole become integers.
func ctyToValue(v cty.Value) (*config.Value, error) {
	if v.IsNull() {
		return config.Null(), nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known without an evaluation context")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return config.String(v.AsString()), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return config.Int(i), nil
			}
		}
		f, _ := bf.Float64()
		return config.Float(f), nil

	case ty == cty.Bool:
		return config.Bool(v.True()), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := config.List()
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			val, err := ctyToValue(elem)
			if err != nil {
				return nil, err
			}
			out.List = append(out.List, val)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := config.EmptyMap()
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			val, err := ctyToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out.Map.Set(key.AsString(), val)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported cty type: %s", ty.FriendlyName())
	}
}
