package extract

import (
	"fmt"
	"strings"
)

// RuleID numbers an attribute consistency rule. The numbers are part of the
// user-facing contract: diagnostics and documentation refer to them.
type RuleID int

const (
	RuleSelfRequiresClass      RuleID = 1
	RuleAccessorRequiresOwner  RuleID = 2
	RuleConstructorDestructor  RuleID = 3
	RuleLifecycleWithAccessor  RuleID = 4
	RuleLifecycleWithMethod    RuleID = 5
	RuleAccessorWithMethod     RuleID = 6
	RuleSelfNamesParameter     RuleID = 7
	RuleSelfTypeMatchesClass   RuleID = 8
	RuleGetterReturnsValue     RuleID = 9
	RuleLegacyGetterArity      RuleID = 10
	RuleLegacySetterArity      RuleID = 11
	RulePluralGetterArity      RuleID = 12
	RulePluralSetterArity      RuleID = 13
	RuleUniqueGlobalName       RuleID = 14
	RuleUniqueMethodName       RuleID = 15
	RulePointerTypedefHasClass RuleID = 16
)

// RuleInput is everything the rule table may inspect for one declaration.
type RuleInput struct {
	Attributes Attributes
	// Parameters is the parsed parameter list in declaration order.
	Parameters *ParsedList
	// Return is nil for declarations without a return type.
	Return *TypeDescriptor
	// PointerAlias is set for simple typedefs that alias a pointer.
	PointerAlias bool
}

// RuleInfo describes a rule for listings.
type RuleInfo struct {
	ID      RuleID `yaml:"id" json:"id"`
	Summary string `yaml:"summary" json:"summary"`
}

type rule struct {
	RuleInfo
	// check returns a violation message, or "" when the rule holds. Rules
	// enforced elsewhere have no check.
	check func(in *RuleInput) string
}

var lifecycle = []string{AttrConstructor, AttrDestructor}
var accessors = []string{AttrGetter, AttrSetter}

var ruleTable = []rule{
	{RuleInfo{RuleSelfRequiresClass, "self, constructor or destructor requires class"},
		func(in *RuleInput) string {
			a := in.Attributes
			if a.HasAny(AttrSelf, AttrDestructor, AttrConstructor) && !a.Has(AttrClass) {
				return "self, constructor and destructor require a class attribute"
			}
			return ""
		}},
	{RuleInfo{RuleAccessorRequiresOwner, "method, getter or setter requires class or static"},
		func(in *RuleInput) string {
			a := in.Attributes
			if a.HasAny(AttrMethod, AttrGetter, AttrSetter) && !a.HasAny(AttrClass, AttrStatic) {
				return "method, getter and setter require a class or static attribute"
			}
			return ""
		}},
	{RuleInfo{RuleConstructorDestructor, "constructor and destructor are mutually exclusive"},
		func(in *RuleInput) string {
			if in.Attributes.Has(AttrConstructor) && in.Attributes.Has(AttrDestructor) {
				return "a declaration cannot be both constructor and destructor"
			}
			return ""
		}},
	{RuleInfo{RuleLifecycleWithAccessor, "non-static constructor/destructor cannot be a getter/setter"},
		func(in *RuleInput) string {
			a := in.Attributes
			if !a.Has(AttrStatic) && a.HasAny(lifecycle...) && a.HasAny(accessors...) {
				return "a non-static constructor or destructor cannot also be a getter or setter"
			}
			return ""
		}},
	{RuleInfo{RuleLifecycleWithMethod, "non-static constructor/destructor cannot be a method"},
		func(in *RuleInput) string {
			a := in.Attributes
			if !a.Has(AttrStatic) && a.HasAny(lifecycle...) && a.Has(AttrMethod) {
				return "a non-static constructor or destructor cannot also be a method"
			}
			return ""
		}},
	{RuleInfo{RuleAccessorWithMethod, "non-static getter/setter cannot be a method"},
		func(in *RuleInput) string {
			a := in.Attributes
			if !a.Has(AttrStatic) && a.HasAny(accessors...) && a.Has(AttrMethod) {
				return "a non-static getter or setter cannot also be a method"
			}
			return ""
		}},
	{RuleInfo{RuleSelfNamesParameter, "self must name a parameter"},
		func(in *RuleInput) string {
			self, ok := in.Attributes[AttrSelf]
			if ok && !in.Parameters.Has(self) {
				return fmt.Sprintf("self names %q, which is not a parameter", self)
			}
			return ""
		}},
	{RuleInfo{RuleSelfTypeMatchesClass, "self parameter type must equal class"},
		func(in *RuleInput) string {
			self, ok := in.Attributes[AttrSelf]
			if !ok || !in.Parameters.Has(self) {
				return ""
			}
			class := in.Attributes[AttrClass]
			got := baseTypeName(in.Parameters.Type(self))
			if got != class {
				return fmt.Sprintf("self parameter %q has type %q but class is %q", self, got, class)
			}
			return ""
		}},
	{RuleInfo{RuleGetterReturnsValue, "getter must not return void"},
		func(in *RuleInput) string {
			if in.Attributes.Has(AttrGetter) && in.Return != nil && in.Return.IsVoid() {
				return "a getter must return a value"
			}
			return ""
		}},
	{RuleInfo{RuleLegacyGetterArity, "class get accessor takes exactly one parameter, named by self"},
		func(in *RuleInput) string {
			a := in.Attributes
			if !a.Has(AttrClass) || !a.Has(AttrLegacyGet) {
				return ""
			}
			if n := in.Parameters.Len(); n != 1 || !a.Has(AttrSelf) {
				return fmt.Sprintf("a class get accessor needs exactly 1 parameter and a self attribute, has %d parameters", n)
			}
			return ""
		}},
	{RuleInfo{RuleLegacySetterArity, "class set accessor takes exactly two parameters, self first"},
		func(in *RuleInput) string {
			a := in.Attributes
			if !a.Has(AttrClass) || !a.Has(AttrLegacySet) {
				return ""
			}
			names := in.Parameters.Names()
			if len(names) != 2 {
				return fmt.Sprintf("a class set accessor needs exactly 2 parameters, has %d", len(names))
			}
			if self := a[AttrSelf]; names[0] != self {
				return fmt.Sprintf("a class set accessor must take self %q first, got %q", self, names[0])
			}
			return ""
		}},
	{RuleInfo{RulePluralGetterArity, "class getters take no parameters"},
		func(in *RuleInput) string {
			a := in.Attributes
			if a.Has(AttrClass) && a.Has(AttrGetters) && in.Parameters.Len() != 0 {
				return fmt.Sprintf("class getters take no parameters, has %d", in.Parameters.Len())
			}
			return ""
		}},
	{RuleInfo{RulePluralSetterArity, "class setters take exactly two parameters"},
		func(in *RuleInput) string {
			a := in.Attributes
			if a.Has(AttrClass) && a.Has(AttrSetters) && in.Parameters.Len() != 2 {
				return fmt.Sprintf("class setters take exactly 2 parameters, has %d", in.Parameters.Len())
			}
			return ""
		}},
	{RuleInfo{RuleUniqueGlobalName, "unique global name (name_suffix) must not repeat within a header"}, nil},
	{RuleInfo{RuleUniqueMethodName, "unique method name (method_suffix) must not repeat within a header"}, nil},
	{RuleInfo{RulePointerTypedefHasClass, "pointer typedef requires class"},
		func(in *RuleInput) string {
			if in.PointerAlias && !in.Attributes.Has(AttrClass) {
				return "a pointer typedef must declare a class attribute"
			}
			return ""
		}},
}

// Rules lists the full rule table in evaluation order.
func Rules() []RuleInfo {
	out := make([]RuleInfo, len(ruleTable))
	for i, r := range ruleTable {
		out[i] = r.RuleInfo
	}
	return out
}

// Validate evaluates the rule table and returns the first violation.
func Validate(in RuleInput) error {
	if in.Parameters == nil {
		in.Parameters = &ParsedList{}
	}
	if in.Attributes == nil {
		in.Attributes = Attributes{}
	}
	for _, r := range ruleTable {
		if r.check == nil {
			continue
		}
		if msg := r.check(&in); msg != "" {
			return violationf(r.ID, "%s", msg)
		}
	}
	return nil
}

// baseTypeName strips qualifiers and markers from a raw parameter type.
func baseTypeName(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if m := typeRe.FindStringSubmatch(s); m != nil {
		return m[2]
	}
	return s
}
