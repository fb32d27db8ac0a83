package element

// Group names a resolver. Fields in the same group are fetched together.
type Group string

// Primary is the group used by fields that do not name one
const Primary Group = "populate"

// Shape is the structure of a field's raw value
type Shape int

const (
	Scalar Shape = iota
	Sequence
	Mapping
)

func (s Shape) String() string {
	switch s {
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "scalar"
	}
}

// Conversion turns a raw JSON value into the value handed to callers
type Conversion int

const (
	// Passthrough returns the decoded JSON value unchanged
	Passthrough Conversion = iota
	// Date parses YYYY-MM-DD into time.Time
	Date
	// TrimSlash strips leading slashes from a path
	TrimSlash
	// Entity builds a child element from a raw JSON object
	Entity
	// EntityArg builds a child element whose first init argument is the raw value
	EntityArg
)

// Order controls how sequence items are arranged before conversion
type Order int

const (
	OrderNone Order = iota
	// OrderByLanguage moves items whose iso_639_1 matches the locale to the front
	OrderByLanguage
	// OrderByCountry moves items whose iso_3166_1 matches the locale to the front
	OrderByCountry
	// OrderByKey sorts ascending by a numeric attribute, "order" unless OrderKey is set
	OrderByKey
)

// Field declares one attribute of a Type
type Field struct {
	Name string
	// Key is a dot separated path into the raw object
	Key      string
	Shape    Shape
	Convert  Conversion
	Child    *Type
	Default  any
	Group    Group
	Order    Order
	OrderKey string
	// MapKey is the raw attribute used to key Mapping entries
	MapKey string
	// Passthrough copies parent fields into child init arguments, parent name to child name
	Passthrough map[string]string
}

// Point declares a scalar field
func Point(name, key string) Field {
	return Field{Name: name, Key: key, Shape: Scalar}
}

// List declares a sequence field
func List(name, key string) Field {
	return Field{Name: name, Key: key, Shape: Sequence}
}

// Dict declares a mapping field keyed by the mapKey attribute of each item
func Dict(name, key, mapKey string) Field {
	return Field{Name: name, Key: key, Shape: Mapping, MapKey: mapKey}
}

// From assigns the field to a resolver group
func (f Field) From(g Group) Field {
	f.Group = g
	return f
}

// As sets the conversion
func (f Field) As(c Conversion) Field {
	f.Convert = c
	return f
}

// Of sets the child type. Fields still using Passthrough switch to Entity.
func (f Field) Of(t *Type) Field {
	f.Child = t
	if f.Convert == Passthrough {
		f.Convert = Entity
	}
	return f
}

// WithDefault sets the value returned when the key is absent
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// SortBy sets the ordering rule, optionally overriding the attribute it reads
func (f Field) SortBy(o Order, key ...string) Field {
	f.Order = o
	if len(key) > 0 {
		f.OrderKey = key[0]
	}
	return f
}

// Pass declares parent-to-child argument passthroughs
func (f Field) Pass(m map[string]string) Field {
	f.Passthrough = m
	return f
}

func (f *Field) group() Group {
	if f.Group == "" {
		return Primary
	}
	return f.Group
}

func (f *Field) orderKey() string {
	if f.OrderKey != "" {
		return f.OrderKey
	}
	switch f.Order {
	case OrderByLanguage:
		return "iso_639_1"
	case OrderByCountry:
		return "iso_3166_1"
	case OrderByKey:
		return "order"
	}
	return ""
}
