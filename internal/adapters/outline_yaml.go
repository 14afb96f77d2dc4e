package adapters

import (
	"os"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"configplanner/internal/types"
)

// OutlineYAMLAdapter loads a package outline set from a single YAML
// document (spec.md §3). It is the one place the repo's pure value/
// constraint model meets an on-disk wire format.
type OutlineYAMLAdapter struct{}

func NewOutlineYAMLAdapter() OutlineYAMLAdapter { return OutlineYAMLAdapter{} }

func (a OutlineYAMLAdapter) LoadOutlines(path string) ([]types.PackageOutline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("outline file not found").
			WithCause(err)
	}
	var file outlineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse outline yaml").
			WithCause(err)
	}

	outlines := make([]types.PackageOutline, 0, len(file.Packages))
	for _, pkg := range file.Packages {
		outline, err := pkg.toOutline()
		if err != nil {
			return nil, err
		}
		outlines = append(outlines, outline)
	}
	return outlines, nil
}

// outlineFile is the top-level wire document: a flat list of packages.
type outlineFile struct {
	Packages []packageDTO `yaml:"packages"`
}

type packageDTO struct {
	Name        string                `yaml:"name"`
	SetOptions  map[string]valueDTO   `yaml:"set_options"`
	SetDefaults map[string]defaultDTO `yaml:"set_defaults"`
	Constraints []constraintDTO       `yaml:"constraints"`
}

func (p packageDTO) toOutline() (types.PackageOutline, error) {
	outline := types.NewPackageOutline(p.Name)
	for name, v := range p.SetOptions {
		val, err := v.toValue()
		if err != nil {
			return types.PackageOutline{}, err
		}
		outline.SetOptions[name] = val
	}
	for name, d := range p.SetDefaults {
		dv, err := d.toDefaultValue()
		if err != nil {
			return types.PackageOutline{}, err
		}
		outline.SetDefaults[name] = dv
	}
	for _, c := range p.Constraints {
		constraint, err := c.toConstraint()
		if err != nil {
			return types.PackageOutline{}, err
		}
		outline.Constraints = append(outline.Constraints, constraint)
	}
	return outline, nil
}

// valueDTO is a tagged scalar: exactly one of the typed fields is set,
// matched by Type.
type valueDTO struct {
	Type    string  `yaml:"type"`
	Bool    bool    `yaml:"bool,omitempty"`
	Int     int64   `yaml:"int,omitempty"`
	Float   float64 `yaml:"float,omitempty"`
	Str     string  `yaml:"str,omitempty"`
	Version string  `yaml:"version,omitempty"`
}

func (v valueDTO) toValue() (types.OptionValue, error) {
	switch types.OptionType(v.Type) {
	case types.OptionTypeBool:
		return types.BoolValue(v.Bool), nil
	case types.OptionTypeInt:
		return types.IntValue(v.Int), nil
	case types.OptionTypeFloat:
		return types.FloatValue(v.Float), nil
	case types.OptionTypeStr:
		return types.StrValue(v.Str), nil
	case types.OptionTypeVersion:
		ver, err := types.ParseVersion(v.Version)
		if err != nil {
			return types.OptionValue{}, err
		}
		return types.VersionValue(ver), nil
	default:
		return types.OptionValue{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown option value type: " + v.Type)
	}
}

type defaultDTO struct {
	Clear bool     `yaml:"clear,omitempty"`
	Value valueDTO `yaml:"value,omitempty"`
}

func (d defaultDTO) toDefaultValue() (types.DefaultValue, error) {
	if d.Clear {
		return types.ClearDefault(), nil
	}
	v, err := d.Value.toValue()
	if err != nil {
		return types.DefaultValue{}, err
	}
	return types.SetDefault(v), nil
}

type refDTO struct {
	Package string `yaml:"package"`
	Option  string `yaml:"option"`
}

type cmpDTO struct {
	LHS constraintDTO `yaml:"lhs"`
	Op  string        `yaml:"op"`
	RHS constraintDTO `yaml:"rhs"`
}

type ifThenDTO struct {
	Cond constraintDTO `yaml:"cond"`
	Then constraintDTO `yaml:"then"`
}

type numOfDTO struct {
	Children []constraintDTO `yaml:"children"`
}

type objectiveDTO struct {
	Child constraintDTO `yaml:"child"`
}

// constraintDTO is a one-of node over the constraint AST (spec.md
// §4.B); exactly one field may be set per node.
type constraintDTO struct {
	Depends  *string       `yaml:"depends,omitempty"`
	Ref      *refDTO       `yaml:"ref,omitempty"`
	Literal  *valueDTO     `yaml:"literal,omitempty"`
	Cmp      *cmpDTO       `yaml:"cmp,omitempty"`
	IfThen   *ifThenDTO    `yaml:"if_then,omitempty"`
	NumOf    *numOfDTO     `yaml:"num_of,omitempty"`
	Maximize *objectiveDTO `yaml:"maximize,omitempty"`
	Minimize *objectiveDTO `yaml:"minimize,omitempty"`
}

func (c constraintDTO) toConstraint() (types.Constraint, error) {
	switch {
	case c.Depends != nil:
		return types.Depends{Package: *c.Depends}, nil
	case c.Ref != nil:
		return types.SpecOptionRef{Package: c.Ref.Package, Option: c.Ref.Option}, nil
	case c.Literal != nil:
		v, err := c.Literal.toValue()
		if err != nil {
			return nil, err
		}
		return types.Literal{Value: v}, nil
	case c.Cmp != nil:
		lhs, err := c.Cmp.LHS.toConstraint()
		if err != nil {
			return nil, err
		}
		rhs, err := c.Cmp.RHS.toConstraint()
		if err != nil {
			return nil, err
		}
		op, err := toCmpOp(c.Cmp.Op)
		if err != nil {
			return nil, err
		}
		return types.Cmp{LHS: lhs, RHS: rhs, Op: op}, nil
	case c.IfThen != nil:
		cond, err := c.IfThen.Cond.toConstraint()
		if err != nil {
			return nil, err
		}
		then, err := c.IfThen.Then.toConstraint()
		if err != nil {
			return nil, err
		}
		return types.IfThen{Cond: cond, Then: then}, nil
	case c.NumOf != nil:
		children := make([]types.Constraint, 0, len(c.NumOf.Children))
		for _, child := range c.NumOf.Children {
			cc, err := child.toConstraint()
			if err != nil {
				return nil, err
			}
			children = append(children, cc)
		}
		return types.NumOf{Children: children}, nil
	case c.Maximize != nil:
		child, err := c.Maximize.Child.toConstraint()
		if err != nil {
			return nil, err
		}
		return types.Maximize{Child: child}, nil
	case c.Minimize != nil:
		child, err := c.Minimize.Child.toConstraint()
		if err != nil {
			return nil, err
		}
		return types.Minimize{Child: child}, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("constraint node has no recognized variant")
	}
}

func toCmpOp(raw string) (types.CmpOp, error) {
	switch types.CmpOp(raw) {
	case types.CmpLt, types.CmpLe, types.CmpEq, types.CmpNe, types.CmpGe, types.CmpGt:
		return types.CmpOp(raw), nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown comparison operator: " + raw)
	}
}
