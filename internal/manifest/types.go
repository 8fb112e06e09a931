package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts a manifest's `type = ...` expression into its
// cty.Type equivalent: bare keywords for primitives and the fixed-size
// vector shorthands the spec's wire format singles out (vec2/3/4, encoded
// as arrays of N floats), and single-argument function-call syntax for
// collection constructors.
func typeExprToCtyType(expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if len(v.Args) != 1 {
			return cty.NilType, fmt.Errorf("manifest: type constructor %q takes exactly one argument", v.Name)
		}
		elem, err := typeExprToCtyType(v.Args[0])
		if err != nil {
			return cty.NilType, err
		}
		switch v.Name {
		case "list":
			return cty.List(elem), nil
		case "set":
			return cty.Set(elem), nil
		case "map":
			return cty.Map(elem), nil
		default:
			return cty.NilType, fmt.Errorf("manifest: unknown type constructor %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.NilType, fmt.Errorf("manifest: type keyword must be a single identifier")
		}
		switch v.Traversal.RootName() {
		case "string":
			return cty.String, nil
		case "number", "int", "float", "double":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		case "vec2":
			return cty.Tuple([]cty.Type{cty.Number, cty.Number}), nil
		case "vec3":
			return cty.Tuple([]cty.Type{cty.Number, cty.Number, cty.Number}), nil
		case "vec4":
			return cty.Tuple([]cty.Type{cty.Number, cty.Number, cty.Number, cty.Number}), nil
		case "any":
			return cty.DynamicPseudoType, nil
		default:
			return cty.NilType, fmt.Errorf("manifest: unknown primitive type %q", v.Traversal.RootName())
		}

	default:
		return cty.NilType, fmt.Errorf("manifest: unsupported type expression %T", v)
	}
}

// evalLiteral evaluates a default/min/max expression with no variables in
// scope: manifests may only write literals there, never references.
func evalLiteral(expr hcl.Expression) (cty.Value, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return v, nil
}
