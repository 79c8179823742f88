package filterexpr

// Compile builds a Predicate from a decoded "where" config. cfg is whatever
// gopkg.in/yaml.v3 (or encoding/json) produced for that key: typically a
// map[string]any, but any other shape is treated as malformed.
//
// A nil cfg (the key was absent from the manifest) compiles to Const(true):
// views with no "where" clause match every record. Any other value that
// does not parse as a valid leaf or combinator compiles to Const(false), so
// a manifest typo silently excludes records instead of crashing the
// extraction run.
func Compile(cfg any) Predicate {
	if cfg == nil {
		return Const(true)
	}

	m, ok := cfg.(map[string]any)
	if !ok {
		return Const(false)
	}

	if logic, hasLogic := m["logic"]; hasLogic {
		return compileCombinator(logic, m["conditions"])
	}

	return compileLeaf(m)
}

func compileCombinator(logic any, conditionsAny any) Predicate {
	logicStr, ok := logic.(string)
	if !ok {
		return Const(false)
	}

	conditions, ok := conditionsAny.([]any)
	if !ok {
		return Const(false)
	}

	children := make([]Predicate, 0, len(conditions))
	for _, c := range conditions {
		cm, ok := c.(map[string]any)
		if !ok {
			return Const(false)
		}
		// Conditions are always leaves: the grammar is one combinator level
		// deep, per the manifest format.
		children = append(children, compileLeaf(cm))
	}

	switch logicStr {
	case "any":
		return AnyOf(children)
	case "all":
		return AllOf(children)
	default:
		return Const(false)
	}
}

func compileLeaf(m map[string]any) Predicate {
	source, ok := m["source"].(string)
	if !ok || source == "" {
		return Const(false)
	}

	opRaw, ok := m["op"].(string)
	if !ok {
		return Const(false)
	}

	op, ok := opAliases[opRaw]
	if !ok {
		return Const(false)
	}

	value := stringify(m["value"])

	return Leaf{Source: source, Op: op, Value: value}
}
