package cppast

// CursorKind identifies what a declaration cursor represents.
type CursorKind int

const (
	KindUnknown CursorKind = iota
	KindTranslationUnit
	KindNamespace
	KindStruct
	KindUnion
	KindEnum
	KindEnumConstant
	KindField
	KindFunction
	KindMethod
	KindConstructor
	KindParam
	KindTypedef
	KindClassTemplate
	KindFunctionTemplate
)

var cursorKindNames = map[CursorKind]string{
	KindUnknown:          "Unknown",
	KindTranslationUnit:  "TranslationUnit",
	KindNamespace:        "Namespace",
	KindStruct:           "Struct",
	KindUnion:            "Union",
	KindEnum:             "Enum",
	KindEnumConstant:     "EnumConstant",
	KindField:            "Field",
	KindFunction:         "Function",
	KindMethod:           "Method",
	KindConstructor:      "Constructor",
	KindParam:            "Param",
	KindTypedef:          "Typedef",
	KindClassTemplate:    "ClassTemplate",
	KindFunctionTemplate: "FunctionTemplate",
}

func (k CursorKind) String() string {
	if name, ok := cursorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// TypeKind classifies a C/C++ type by shape.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeInt
	TypeUInt
	TypeFloat
	TypeDouble
	TypePointer
	TypeLValueRef
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeConstantArray
	TypeUnexposed
)

var typeKindNames = map[TypeKind]string{
	TypeInvalid:       "Invalid",
	TypeVoid:          "Void",
	TypeBool:          "Bool",
	TypeInt:           "Int",
	TypeUInt:          "UInt",
	TypeFloat:         "Float",
	TypeDouble:        "Double",
	TypePointer:       "Pointer",
	TypeLValueRef:     "LValueRef",
	TypeRecord:        "Record",
	TypeEnum:          "Enum",
	TypeTypedef:       "Typedef",
	TypeConstantArray: "ConstantArray",
	TypeUnexposed:     "Unexposed",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "Invalid"
}
