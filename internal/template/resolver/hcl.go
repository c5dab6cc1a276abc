package resolver

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// generatorExtension is the file extension of generators found by name.
const generatorExtension = ".hcl"

// hclSchemaAttr is the attribute that, when it is the only one in the file,
// holds the whole schema instead of the file body.
const hclSchemaAttr = "schema"

// decodeHCLModule parses an HCL schema source into a generator. Top-level
// attributes are evaluated per template with the variables `name` and
// `override`.
func decodeHCLModule(path string, data []byte) (*Module, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	return &Module{
		Path: path,
		Generator: func(name string, override any) (any, error) {
			return evalHCLAttributes(attrs, name, override)
		},
	}, nil
}

// hclFunctions is the function table available to HCL schema sources.
func hclFunctions() map[string]function.Function {
	return map[string]function.Function{
		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"title":      stdlib.TitleFunc,
		"replace":    stdlib.ReplaceFunc,
		"format":     stdlib.FormatFunc,
		"concat":     stdlib.ConcatFunc,
		"merge":      stdlib.MergeFunc,
		"length":     stdlib.LengthFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
	}
}

func evalHCLAttributes(attrs hcl.Attributes, name string, override any) (any, error) {
	overrideVal, err := goToCty(override)
	if err != nil {
		return nil, fmt.Errorf("cannot pass inline override to HCL: %w", err)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"name":     cty.StringVal(name),
			"override": overrideVal,
		},
		Functions: hclFunctions(),
	}

	out := make(map[string]any, len(attrs))
	for key, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		out[key] = goVal
	}

	if len(out) == 1 {
		if whole, ok := out[hclSchemaAttr]; ok {
			return whole, nil
		}
	}
	return out, nil
}

// goToCty converts a JSON-shaped Go value into a cty value by way of its JSON
// encoding. nil becomes a dynamically typed null.
func goToCty(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(buf, ty)
}

// ctyToGo converts a known cty value to the Go shapes produced by
// encoding/json: map[string]any, []any, string, bool, int64 or float64.
func ctyToGo(v cty.Value) (any, error) {
	v, _ = v.Unmark()
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			g, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			g, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = g
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
