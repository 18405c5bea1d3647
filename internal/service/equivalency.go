package service

// EquivalencyResolver expands named equivalency groups into membership tests.
// A group is satisfied when any one member is present in the student's
// available-course set. Unknown group names are treated as literal course
// codes by callers.
type EquivalencyResolver struct {
	groups map[string][]string
}

// DefaultEquivalencies is the fixed table of named requirement groups the
// curriculum declares by name instead of by course code.
var DefaultEquivalencies = map[string][]string{
	"Statistics": {"MATH 106", "MATH 351", "BUAD 231"},
}

// NewEquivalencyResolver builds a resolver over the provided group table.
// A nil table falls back to DefaultEquivalencies.
func NewEquivalencyResolver(groups map[string][]string) *EquivalencyResolver {
	if groups == nil {
		groups = DefaultEquivalencies
	}
	return &EquivalencyResolver{groups: groups}
}

// IsGroup reports whether the name refers to a known equivalency group.
func (r *EquivalencyResolver) IsGroup(name string) bool {
	_, ok := r.groups[name]
	return ok
}

// IsSatisfiedBy reports whether any member of the named group appears in the
// available set. Unknown groups are never satisfied here; the caller falls
// back to a literal course-code membership test.
func (r *EquivalencyResolver) IsSatisfiedBy(name string, available map[string]struct{}) bool {
	members, ok := r.groups[name]
	if !ok {
		return false
	}
	for _, member := range members {
		if _, has := available[member]; has {
			return true
		}
	}
	return false
}
