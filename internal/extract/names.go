package extract

// UniqueNames holds the suffix-derived names assigned to one declaration.
// Both are empty when the declaration has no suffix attribute.
type UniqueNames struct {
	Global string
	Method string
}

// NameRegistry rejects duplicate generated names within one header. It is
// append-only and must not outlive the extraction of that header.
type NameRegistry struct {
	global  map[string]struct{}
	methods map[string]struct{}
}

// NewNameRegistry returns an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		global:  make(map[string]struct{}),
		methods: make(map[string]struct{}),
	}
}

// Register derives and records the unique names for a declaration.
// Without a suffix nothing is generated or checked.
func (r *NameRegistry) Register(sanitized, method, suffix string) (UniqueNames, error) {
	if suffix == "" {
		return UniqueNames{}, nil
	}

	var names UniqueNames
	names.Global = sanitized + "_" + suffix
	if _, dup := r.global[names.Global]; dup {
		return UniqueNames{}, violationf(RuleUniqueGlobalName,
			"unique name %q (name %q, suffix %q) is already used in this header",
			names.Global, sanitized, suffix)
	}

	if method != "" {
		names.Method = method + "_" + suffix
		if _, dup := r.methods[names.Method]; dup {
			return UniqueNames{}, violationf(RuleUniqueMethodName,
				"unique method name %q (method %q, suffix %q) is already used in this header",
				names.Method, method, suffix)
		}
		r.methods[names.Method] = struct{}{}
	}

	r.global[names.Global] = struct{}{}
	return names, nil
}

// Len returns the number of registered global names.
func (r *NameRegistry) Len() int {
	return len(r.global)
}
