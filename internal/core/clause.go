package core

import (
	"sort"

	"configplanner/internal/types"
)

// slotDomain is the sorted, deduplicated set of literal values a
// non-Bool option slot is ever compared against (spec.md §4.G). Bool
// slots never need one: a single SAT variable already represents their
// two possible values.
type slotDomain struct {
	values []types.OptionValue
}

// orderEncoding is the monotone "at-least" boolean encoding of one
// non-Bool slot's finite domain (spec.md §4.G). vars has one more
// entry than domain: vars[i] means "value >= domain[i]" for
// i in [0,len(domain)-1], and vars[len(domain)] means "value is
// strictly greater than the largest value ever compared against it" —
// an otherwise free variable that keeps Gt/Ge total at the top of the
// domain without assuming domain is the type's true upper bound.
type orderEncoding struct {
	domain []types.OptionValue
	vars   []int
}

func (oe *orderEncoding) monotoneClauses() [][]int {
	clauses := make([][]int, 0, len(oe.vars)-1)
	for i := 1; i < len(oe.vars); i++ {
		clauses = append(clauses, []int{-oe.vars[i], oe.vars[i-1]})
	}
	return clauses
}

// CompareValues orders two same-typed OptionValues: false < true for
// Bool, numeric order for Int/Float, lexicographic for Str, and the
// spec.md §3 total order for Version.
func CompareValues(a, b types.OptionValue) (int, error) {
	if a.Type != b.Type {
		return 0, errTypeMismatch(a.String(), b.String(), a.Type, b.Type)
	}
	switch a.Type {
	case types.OptionTypeBool:
		switch {
		case a.Bool == b.Bool:
			return 0, nil
		case !a.Bool && b.Bool:
			return -1, nil
		default:
			return 1, nil
		}
	case types.OptionTypeInt:
		switch {
		case a.Int < b.Int:
			return -1, nil
		case a.Int > b.Int:
			return 1, nil
		default:
			return 0, nil
		}
	case types.OptionTypeFloat:
		switch {
		case a.Float < b.Float:
			return -1, nil
		case a.Float > b.Float:
			return 1, nil
		default:
			return 0, nil
		}
	case types.OptionTypeStr:
		switch {
		case a.Str < b.Str:
			return -1, nil
		case a.Str > b.Str:
			return 1, nil
		default:
			return 0, nil
		}
	case types.OptionTypeVersion:
		return types.CompareVersions(a.Version, b.Version)
	default:
		return 0, nil
	}
}

// CollectDomains scans every package's constraints and records, for
// each non-Bool option slot, every literal value it is ever compared
// against directly (a Cmp with a SpecOptionRef on one side and a
// Literal on the other). This is the domain the order encoding is
// built over: values never referenced by a comparison need no boolean
// representation at all.
func CollectDomains(g *OutlineGraph, r *Registry) map[int]*slotDomain {
	domains := map[int]*slotDomain{}
	var walk func(c types.Constraint)
	walk = func(c types.Constraint) {
		switch n := c.(type) {
		case types.Cmp:
			if ref, lit, ok := refLiteralPair(n.LHS, n.RHS); ok {
				if idx, found := r.Lookup(ref.Package, ref.Option); found && r.Entry(idx).Type != types.OptionTypeBool {
					// A wildcard version literal is a pattern, not an
					// assignable value: it must not become a domain
					// entry itself (spec.md §4.G wildcard expansion
					// matches the pattern against the slot's other,
					// concrete domain entries instead).
					if lit.Value.Type != types.OptionTypeVersion || !lit.Value.Version.HasWildcard() {
						addDomainValue(r, domains, idx, lit.Value)
					}
				}
			}
			walk(n.LHS)
			walk(n.RHS)
		case types.IfThen:
			walk(n.Cond)
			walk(n.Then)
		case types.NumOf:
			for _, child := range n.Children {
				walk(child)
			}
		case types.Maximize:
			walk(n.Child)
		case types.Minimize:
			walk(n.Child)
		}
	}
	for _, name := range g.PackageNames() {
		node, _ := g.Node(name)
		for _, c := range node.Outline.Constraints {
			walk(c)
		}
	}
	return domains
}

func addDomainValue(r *Registry, domains map[int]*slotDomain, idx int, v types.OptionValue) {
	d, ok := domains[idx]
	if !ok {
		d = &slotDomain{}
		domains[idx] = d
	}
	if containsValue(d.values, v) {
		return
	}
	d.values = append(d.values, v)
	sortValues(r, d.values)
}

// ensureDomainValue is addDomainValue's exported-within-package sibling
// used for pinned values (explicit --set flags, outline SetOptions,
// propagated SetDefaults): a pin must appear in the domain even if no
// Cmp ever compared against it.
func ensureDomainValue(r *Registry, domains map[int]*slotDomain, idx int, v types.OptionValue) []types.OptionValue {
	addDomainValue(r, domains, idx, v)
	return domains[idx].values
}

func containsValue(values []types.OptionValue, v types.OptionValue) bool {
	for _, existing := range values {
		if existing.Equal(v) {
			return true
		}
	}
	return false
}

// sortValues orders a slot's collected domain. Version-typed values
// defer to the registry's interned ordering (spec.md §4.A/§4.C, finalized
// by Registry.Build before CollectDomains runs) rather than re-deriving
// an order independently; everything else still uses CompareValues
// directly, including a Version pair the registry hasn't interned (r is
// nil in the few unit tests that build a domain without a registry).
func sortValues(r *Registry, values []types.OptionValue) {
	sort.Slice(values, func(i, j int) bool {
		if r != nil && values[i].Type == types.OptionTypeVersion && values[j].Type == types.OptionTypeVersion {
			if ii, ok := r.Versions.IndexOf(values[i].Version); ok {
				if jj, ok := r.Versions.IndexOf(values[j].Version); ok {
					return ii < jj
				}
			}
		}
		cmp, err := CompareValues(values[i], values[j])
		if err != nil {
			return values[i].String() < values[j].String()
		}
		return cmp < 0
	})
}

// ctxAndLit returns a literal equivalent to (a AND b), introducing a
// fresh Tseitin variable and its defining clauses.
func ctxAndLit(ctx *encodingContext, a, b int) (int, error) {
	v := ctx.freshVar()
	ctx.addClause(-v, a)
	ctx.addClause(-v, b)
	ctx.addClause(v, -a, -b)
	return v, nil
}

// ctxOrLit returns a literal equivalent to (a OR b).
func ctxOrLit(ctx *encodingContext, a, b int) (int, error) {
	v := ctx.freshVar()
	ctx.addClause(-v, a, b)
	ctx.addClause(v, -a)
	ctx.addClause(v, -b)
	return v, nil
}

// ctxEqvLit returns a literal equivalent to (a == b).
func ctxEqvLit(ctx *encodingContext, a, b int) (int, error) {
	v := ctx.freshVar()
	ctx.addClause(-v, -a, b)
	ctx.addClause(-v, a, -b)
	ctx.addClause(v, a, b)
	ctx.addClause(v, -a, -b)
	return v, nil
}

// ctxXorLit returns a literal equivalent to (a != b).
func ctxXorLit(ctx *encodingContext, a, b int) (int, error) {
	v := ctx.freshVar()
	ctx.addClause(-v, a, b)
	ctx.addClause(-v, -a, -b)
	ctx.addClause(v, -a, b)
	ctx.addClause(v, a, -b)
	return v, nil
}

// isBareBool reports whether a constraint node's value type is Bool,
// using the same rules as internal/core/typecheck.go's softType.
func isBareBool(c types.Constraint, r *Registry) bool {
	return softType(c, r) == types.OptionTypeBool
}

func reverseOp(op types.CmpOp) types.CmpOp {
	switch op {
	case types.CmpLt:
		return types.CmpGt
	case types.CmpLe:
		return types.CmpGe
	case types.CmpGe:
		return types.CmpLe
	case types.CmpGt:
		return types.CmpLt
	default:
		return op
	}
}

// normalizeCmp recognizes the ref-vs-literal shape of a Cmp (the
// supported general case; ref-vs-ref across two non-Bool options is a
// deliberate scope cut, documented in DESIGN.md) and returns it in
// canonical "ref OP literal" order.
func normalizeCmp(n types.Cmp) (types.SpecOptionRef, types.OptionValue, types.CmpOp, bool) {
	if ref, ok := n.LHS.(types.SpecOptionRef); ok {
		if lit, ok2 := n.RHS.(types.Literal); ok2 {
			return ref, lit.Value, n.Op, true
		}
	}
	if ref, ok := n.RHS.(types.SpecOptionRef); ok {
		if lit, ok2 := n.LHS.(types.Literal); ok2 {
			return ref, lit.Value, reverseOp(n.Op), true
		}
	}
	return types.SpecOptionRef{}, types.OptionValue{}, "", false
}

func evalOp(op types.CmpOp, cmp int) bool {
	switch op {
	case types.CmpLt:
		return cmp < 0
	case types.CmpLe:
		return cmp <= 0
	case types.CmpEq:
		return cmp == 0
	case types.CmpNe:
		return cmp != 0
	case types.CmpGe:
		return cmp >= 0
	case types.CmpGt:
		return cmp > 0
	default:
		return false
	}
}

func constFoldCmp(ctx *encodingContext, lhs types.OptionValue, op types.CmpOp, rhs types.OptionValue) (int, error) {
	cmp, err := CompareValues(lhs, rhs)
	if err != nil {
		return 0, err
	}
	if evalOp(op, cmp) {
		return ctx.trueV, nil
	}
	return ctx.falseV, nil
}

// litForOrder translates "slot OP val" into a literal over idx's order
// encoding (spec.md §4.G). val must already be present in domain.
func litForOrder(ctx *encodingContext, idx int, domain []types.OptionValue, op types.CmpOp, val types.OptionValue) (int, error) {
	j := -1
	for i, d := range domain {
		cmp, err := CompareValues(d, val)
		if err != nil {
			return 0, err
		}
		if cmp == 0 {
			j = i
			break
		}
	}
	if j < 0 {
		return 0, errInvalidConstraint("comparison value missing from its option's collected domain")
	}
	oe := ctx.slotOrderEncoding(idx, domain)
	ge := oe.vars[j]
	gt := oe.vars[j+1]
	switch op {
	case types.CmpGe:
		return ge, nil
	case types.CmpGt:
		return gt, nil
	case types.CmpLt:
		return -ge, nil
	case types.CmpLe:
		return -gt, nil
	case types.CmpEq:
		return ctxAndLit(ctx, ge, -gt)
	case types.CmpNe:
		return ctxOrLit(ctx, -ge, gt)
	default:
		return 0, errInvalidConstraint("unsupported comparison operator " + string(op))
	}
}

// wildcardEqLit translates Cmp(ref, pattern, =) for a wildcard version
// pattern (spec.md §4.G): the slot's value is always one of domain's
// concrete entries, so the per-part pattern match reduces to a
// disjunction of per-value equalities over whichever domain entries the
// pattern matches. An empty disjunction (no domain entry matches) folds
// to false, the same way an empty cardinality sum would.
func wildcardEqLit(ctx *encodingContext, domain []types.OptionValue, idx int, pattern types.Version) (int, error) {
	acc := ctx.falseV
	matched := false
	for _, v := range domain {
		if v.Type != types.OptionTypeVersion || !pattern.MatchesWildcard(v.Version) {
			continue
		}
		eq, err := litForOrder(ctx, idx, domain, types.CmpEq, v)
		if err != nil {
			return 0, err
		}
		if !matched {
			acc = eq
			matched = true
			continue
		}
		acc, err = ctxOrLit(ctx, acc, eq)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// wildcardCmpLit dispatches Cmp(ref, pattern, op) for a wildcard version
// literal. Only `=`/`≠` are well-typed here; ordering operators against
// a wildcard are rejected earlier, at type-check (internal/core/typecheck.go),
// so reaching the default case here would mean that rejection was
// bypassed.
func wildcardCmpLit(ctx *encodingContext, domain []types.OptionValue, idx int, op types.CmpOp, pattern types.Version) (int, error) {
	eq, err := wildcardEqLit(ctx, domain, idx, pattern)
	if err != nil {
		return 0, err
	}
	switch op {
	case types.CmpEq:
		return eq, nil
	case types.CmpNe:
		return -eq, nil
	default:
		return 0, errInvalidConstraint("ordering comparator " + string(op) + " is ill-typed against a wildcard version literal")
	}
}

// litForEquals returns a literal asserting that option slot idx equals
// val, adding val to the slot's domain first if it is a pin that no
// Cmp ever compared against (spec.md §4.E/§4.G: a pinned value is
// always part of the feasible domain).
func litForEquals(ctx *encodingContext, domains map[int]*slotDomain, idx int, val types.OptionValue) (int, error) {
	if val.Type == types.OptionTypeBool {
		v := ctx.boolSlotVar(idx)
		if val.Bool {
			return v, nil
		}
		return -v, nil
	}
	domain := ensureDomainValue(ctx.registry, domains, idx, val)
	return litForOrder(ctx, idx, domain, types.CmpEq, val)
}

// cmpThresholds handles NumOf(children) OP literal(int): the
// cardinality-constraint case resolved by the count-vs-literal
// grammar (spec.md open-question resolution). When NumOf sits on the
// right of the Cmp, the caller passes the reversed op so NumOf reads as
// the left operand.
func cmpThresholds(ctx *encodingContext, r *Registry, domains map[int]*slotDomain, n types.NumOf, op types.CmpOp, lit types.OptionValue) (int, error) {
	regs, err := cardinalityVars(ctx, r, domains, n.Children)
	if err != nil {
		return 0, err
	}
	m := int64(len(regs))
	k := lit.Int
	ge := func(k int64) int {
		if k <= 0 {
			return ctx.trueV
		}
		if k > m {
			return ctx.falseV
		}
		return regs[k-1]
	}
	switch op {
	case types.CmpGe:
		return ge(k), nil
	case types.CmpGt:
		return ge(k + 1), nil
	case types.CmpLt:
		return -ge(k), nil
	case types.CmpLe:
		return -ge(k + 1), nil
	case types.CmpEq:
		return ctxAndLit(ctx, ge(k), -ge(k+1))
	case types.CmpNe:
		return ctxOrLit(ctx, -ge(k), ge(k+1))
	default:
		return 0, errInvalidConstraint("unsupported comparison operator " + string(op))
	}
}

// cardinalityVars builds Sinz's sequential-counter encoding over the
// children's literals and returns reg[k] = "at least k+1 of the
// children are true", for k in [0,len(children)-1].
func cardinalityVars(ctx *encodingContext, r *Registry, domains map[int]*slotDomain, children []types.Constraint) ([]int, error) {
	m := len(children)
	if m == 0 {
		return nil, nil
	}
	lits := make([]int, m)
	for i, child := range children {
		lit, err := litFor(ctx, r, domains, child)
		if err != nil {
			return nil, err
		}
		lits[i] = lit
	}

	reg := make([][]int, m) // reg[i][j], 1 <= j <= i+1
	for i := range reg {
		reg[i] = make([]int, i+2)
	}
	reg[0][1] = lits[0]
	for i := 1; i < m; i++ {
		v1, err := ctxOrLit(ctx, lits[i], reg[i-1][1])
		if err != nil {
			return nil, err
		}
		reg[i][1] = v1
		for j := 2; j <= i; j++ {
			conj, err := ctxAndLit(ctx, lits[i], reg[i-1][j-1])
			if err != nil {
				return nil, err
			}
			v, err := ctxOrLit(ctx, conj, reg[i-1][j])
			if err != nil {
				return nil, err
			}
			reg[i][j] = v
		}
		last, err := ctxAndLit(ctx, lits[i], reg[i-1][i])
		if err != nil {
			return nil, err
		}
		reg[i][i+1] = last
	}

	out := make([]int, m)
	copy(out, reg[m-1][1:m+1])
	return out, nil
}

// valueThresholds returns the monotone "value >= threshold" literals of
// a value-producing, non-Bool constraint node, used to build Maximize
// /Minimize cost contributions (spec.md §4.G).
func valueThresholds(ctx *encodingContext, r *Registry, domains map[int]*slotDomain, c types.Constraint) ([]int, error) {
	switch n := c.(type) {
	case types.SpecOptionRef:
		idx, ok := r.Lookup(n.Package, n.Option)
		if !ok {
			return nil, errMissingOption(n.Package, n.Option)
		}
		dom := domains[idx]
		if dom == nil || len(dom.values) == 0 {
			return nil, nil
		}
		oe := ctx.slotOrderEncoding(idx, dom.values)
		return append([]int(nil), oe.vars[:len(dom.values)]...), nil
	case types.NumOf:
		return cardinalityVars(ctx, r, domains, n.Children)
	case types.Literal:
		return nil, nil
	default:
		return nil, errInvalidConstraint("objective child must be an option, num_of(...), or a literal")
	}
}

// litFor returns the SAT literal representing a Bool-valued constraint
// node's truth (spec.md §4.B's to_solver_clause operation, restricted
// to the Boolean sub-grammar: Depends, a Bool SpecOptionRef, a Bool
// Literal, Cmp, and IfThen).
func litFor(ctx *encodingContext, r *Registry, domains map[int]*slotDomain, c types.Constraint) (int, error) {
	switch n := c.(type) {
	case types.Depends:
		idx, err := r.ActivationToggle(n.Package)
		if err != nil {
			return 0, err
		}
		return ctx.boolSlotVar(idx), nil
	case types.SpecOptionRef:
		idx, ok := r.Lookup(n.Package, n.Option)
		if !ok {
			return 0, errMissingOption(n.Package, n.Option)
		}
		if r.Entry(idx).Type != types.OptionTypeBool {
			return 0, errInvalidConstraint("option " + n.Package + "/" + n.Option + " used as a boolean but is not bool-typed")
		}
		return ctx.boolSlotVar(idx), nil
	case types.Literal:
		if n.Value.Type != types.OptionTypeBool {
			return 0, errInvalidConstraint("literal used as a boolean value must be bool-typed")
		}
		if n.Value.Bool {
			return ctx.trueV, nil
		}
		return ctx.falseV, nil
	case types.Cmp:
		return cmpLit(ctx, r, domains, n)
	case types.IfThen:
		condLit, err := litFor(ctx, r, domains, n.Cond)
		if err != nil {
			return 0, err
		}
		thenLit, err := litFor(ctx, r, domains, n.Then)
		if err != nil {
			return 0, err
		}
		return ctxOrLit(ctx, -condLit, thenLit)
	default:
		return 0, errInvalidConstraint("constraint node cannot be used as a boolean value")
	}
}

// cmpLit dispatches a Cmp node to the matching translation: Bool
// equivalence/inequality, a cardinality comparison against NumOf,
// constant folding when both sides are literals, or the general
// ref-vs-literal order-encoded comparison.
func cmpLit(ctx *encodingContext, r *Registry, domains map[int]*slotDomain, n types.Cmp) (int, error) {
	if isBareBool(n.LHS, r) && isBareBool(n.RHS, r) {
		l, err := litFor(ctx, r, domains, n.LHS)
		if err != nil {
			return 0, err
		}
		rr, err := litFor(ctx, r, domains, n.RHS)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case types.CmpEq:
			return ctxEqvLit(ctx, l, rr)
		case types.CmpNe:
			return ctxXorLit(ctx, l, rr)
		default:
			return 0, errInvalidConstraint("ordering comparator " + string(n.Op) + " not valid on bool")
		}
	}

	if numOf, ok := n.LHS.(types.NumOf); ok {
		if lit, ok2 := n.RHS.(types.Literal); ok2 {
			return cmpThresholds(ctx, r, domains, numOf, n.Op, lit.Value)
		}
	}
	if numOf, ok := n.RHS.(types.NumOf); ok {
		if lit, ok2 := n.LHS.(types.Literal); ok2 {
			return cmpThresholds(ctx, r, domains, numOf, reverseOp(n.Op), lit.Value)
		}
	}

	if lLit, ok := n.LHS.(types.Literal); ok {
		if rLit, ok2 := n.RHS.(types.Literal); ok2 {
			return constFoldCmp(ctx, lLit.Value, n.Op, rLit.Value)
		}
	}

	ref, litVal, op, ok := normalizeCmp(n)
	if !ok {
		return 0, errInvalidConstraint("unsupported comparison shape: " + types.Describe(n))
	}
	idx, found := r.Lookup(ref.Package, ref.Option)
	if !found {
		return 0, errMissingOption(ref.Package, ref.Option)
	}
	dom := domains[idx]
	if dom == nil || len(dom.values) == 0 {
		return 0, errInvalidConstraint("option " + ref.Package + "/" + ref.Option + " is never compared against a literal value")
	}
	if litVal.Type == types.OptionTypeVersion && litVal.Version.HasWildcard() {
		return wildcardCmpLit(ctx, dom.values, idx, op, litVal.Version)
	}
	return litForOrder(ctx, idx, dom.values, op, litVal)
}
