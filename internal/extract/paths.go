package extract

// Markup paths into HeaderDoc's XML output, relative to the header root or
// to a single declaration element.
const (
	pathFunctions = "functions/function"
	pathTypedefs  = "typedefs/typedef"
	pathStructs   = "structs_and_unions/struct"
	pathEnums     = "enums/enum"
	pathDefines   = "defines/pdefine"

	pathName        = "name"
	pathBrief       = "abstract"
	pathDescription = "desc"
	pathDeclaration = "declaration"
	pathReturnType  = "returntype"
	pathResult      = "result"

	pathAttributes      = "attributes/attribute"
	pathParsedParams    = "parsedparameterlist/parsedparameter"
	pathDocParams       = "parameterlist/parameter"
	pathDocFields       = "fields/field"
	pathDocConstants    = "constants/constant"
	pathGenericParam    = "declaration//declaration_template"
	pathTypedefKindAttr = "type"
)

// Declaration token classes.
const (
	tagDeclParam  = "declaration_param"
	tagDeclVar    = "declaration_var"
	tagDeclMember = "declaration_member"
	tagDeclNumber = "declaration_number"
)

// typedefFuncPtr is the typedef "type" attribute value for function-pointer
// typedefs.
const typedefFuncPtr = "funcPtr"
