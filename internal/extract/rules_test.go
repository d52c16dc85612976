package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voidReturn() *TypeDescriptor { return &TypeDescriptor{Type: "void"} }

func TestValidateRules(t *testing.T) {
	self := NewParsedList([2]string{"c", "Canvas *"})
	selfAndValue := NewParsedList([2]string{"c", "Canvas *"}, [2]string{"v", "int"})
	valueAndSelf := NewParsedList([2]string{"v", "int"}, [2]string{"c", "Canvas *"})

	tests := []struct {
		name string
		in   RuleInput
		rule RuleID // 0 means valid
	}{
		{"plain function", RuleInput{}, 0},
		{"self without class", RuleInput{Attributes: Attributes{AttrSelf: "c"}, Parameters: self}, RuleSelfRequiresClass},
		{"constructor without class", RuleInput{Attributes: Attributes{AttrConstructor: ""}}, RuleSelfRequiresClass},
		{"destructor without class", RuleInput{Attributes: Attributes{AttrDestructor: ""}}, RuleSelfRequiresClass},
		{"method without owner", RuleInput{Attributes: Attributes{AttrMethod: "draw"}}, RuleAccessorRequiresOwner},
		{"getter without owner", RuleInput{Attributes: Attributes{AttrGetter: "w"}}, RuleAccessorRequiresOwner},
		{"static method", RuleInput{Attributes: Attributes{AttrStatic: "", AttrMethod: "count"}}, 0},
		{"constructor and destructor", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrConstructor: "", AttrDestructor: ""}}, RuleConstructorDestructor},
		{"constructor getter", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrConstructor: "", AttrGetter: "w"}}, RuleLifecycleWithAccessor},
		{"static constructor getter", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrStatic: "", AttrConstructor: "", AttrGetter: "w"}}, 0},
		{"destructor method", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrDestructor: "", AttrMethod: "free"}}, RuleLifecycleWithMethod},
		{"setter method", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSetter: "w", AttrMethod: "set"}}, RuleAccessorWithMethod},
		{"self names nothing", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "x"}, Parameters: self}, RuleSelfNamesParameter},
		{"self type mismatch", RuleInput{Attributes: Attributes{AttrClass: "Bar", AttrSelf: "c"}, Parameters: NewParsedList([2]string{"c", "Foo *"})}, RuleSelfTypeMatchesClass},
		{"self const pointer", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "c"}, Parameters: NewParsedList([2]string{"c", "const Canvas *"})}, 0},
		{"getter returns void", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrGetter: "w"}, Return: voidReturn()}, RuleGetterReturnsValue},
		{"getter returns void pointer", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrGetter: "data"}, Return: &TypeDescriptor{Type: "void", IsPointer: true}}, 0},
		{"legacy get with self", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "c", AttrLegacyGet: ""}, Parameters: self}, 0},
		{"legacy get two params", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "c", AttrLegacyGet: ""}, Parameters: selfAndValue}, RuleLegacyGetterArity},
		{"legacy get without self", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrLegacyGet: ""}, Parameters: self}, RuleLegacyGetterArity},
		{"legacy set self first", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "c", AttrLegacySet: ""}, Parameters: selfAndValue}, 0},
		{"legacy set self second", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "c", AttrLegacySet: ""}, Parameters: valueAndSelf}, RuleLegacySetterArity},
		{"legacy set one param", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSelf: "c", AttrLegacySet: ""}, Parameters: self}, RuleLegacySetterArity},
		{"plural getters no params", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrGetters: ""}}, 0},
		{"plural getters with params", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrGetters: ""}, Parameters: self}, RulePluralGetterArity},
		{"plural setters two params", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSetters: ""}, Parameters: selfAndValue}, 0},
		{"plural setters one param", RuleInput{Attributes: Attributes{AttrClass: "Canvas", AttrSetters: ""}, Parameters: self}, RulePluralSetterArity},
		{"pointer alias without class", RuleInput{PointerAlias: true}, RulePointerTypedefHasClass},
		{"pointer alias with class", RuleInput{Attributes: Attributes{AttrClass: "Canvas"}, PointerAlias: true}, 0},
		{"value alias without class", RuleInput{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.rule == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, KindRuleViolation, e.Kind)
			assert.Equal(t, tt.rule, e.Rule)
		})
	}
}

func TestValidateSelfTypeMessage(t *testing.T) {
	err := Validate(RuleInput{
		Attributes: Attributes{AttrClass: "Bar", AttrSelf: "f"},
		Parameters: NewParsedList([2]string{"f", "Foo *"}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 8")
	assert.Contains(t, err.Error(), `"Foo"`)
	assert.Contains(t, err.Error(), `"Bar"`)
}

func TestValidateFirstViolationWins(t *testing.T) {
	// Breaks rule 1 and rule 3; the lower number is reported.
	err := Validate(RuleInput{Attributes: Attributes{AttrConstructor: "", AttrDestructor: ""}})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, RuleSelfRequiresClass, e.Rule)
}

func TestRulesListing(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 16)
	for i, r := range rules {
		assert.Equal(t, RuleID(i+1), r.ID)
		assert.NotEmpty(t, r.Summary)
	}
}

func TestParsedListKeepsFirstPosition(t *testing.T) {
	p := NewParsedList([2]string{"a", "int"}, [2]string{"b", "char"}, [2]string{"a", "float"})
	assert.Equal(t, []string{"a", "b"}, p.Names())
	assert.Equal(t, "float", p.Type("a"))
	assert.Equal(t, 2, p.Len())
	assert.False(t, p.Has("c"))
}
