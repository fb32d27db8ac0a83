package element

import (
	"context"
	"encoding/json"
	"time"
)

func (e *Element) typeError(name, want string, got any) error {
	return &FieldTypeError{Type: e.typ.Name, Field: name, Want: want, Got: got}
}

// GetString reads a string field. Absent values yield "".
func (e *Element) GetString(ctx context.Context, name string) (string, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", e.typeError(name, "string", v)
	}
	return s, nil
}

// GetInt reads an integer field. JSON numbers are truncated.
func (e *Element) GetInt(ctx context.Context, name string) (int, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, e.typeError(name, "int", v)
		}
		return int(i), nil
	}
	return 0, e.typeError(name, "int", v)
}

// GetFloat reads a numeric field
func (e *Element) GetFloat(ctx context.Context, name string) (float64, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, e.typeError(name, "float", v)
		}
		return f, nil
	}
	return 0, e.typeError(name, "float", v)
}

// GetBool reads a boolean field
func (e *Element) GetBool(ctx context.Context, name string) (bool, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, e.typeError(name, "bool", v)
	}
	return b, nil
}

// GetTime reads a Date field. Absent or unparseable values yield the zero time.
func (e *Element) GetTime(ctx context.Context, name string) (time.Time, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, e.typeError(name, "time", v)
	}
	return t, nil
}

// GetList reads a sequence field as converted values
func (e *Element) GetList(ctx context.Context, name string) ([]any, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, e.typeError(name, "sequence", v)
	}
	return items, nil
}

// GetStrings reads a sequence of strings
func (e *Element) GetStrings(ctx context.Context, name string) ([]string, error) {
	items, err := e.GetList(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, e.typeError(name, "[]string", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// GetChild reads an entity field. Absent values yield nil.
func (e *Element) GetChild(ctx context.Context, name string) (*Element, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return nil, err
	}
	child, ok := v.(*Element)
	if !ok {
		return nil, e.typeError(name, "element", v)
	}
	return child, nil
}

// GetChildren reads a sequence of entities
func (e *Element) GetChildren(ctx context.Context, name string) ([]*Element, error) {
	items, err := e.GetList(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, 0, len(items))
	for _, item := range items {
		child, ok := item.(*Element)
		if !ok {
			return nil, e.typeError(name, "[]element", item)
		}
		out = append(out, child)
	}
	return out, nil
}

// GetMapping reads a mapping of entities keyed by their map attribute
func (e *Element) GetMapping(ctx context.Context, name string) (map[string]*Element, error) {
	v, err := e.Get(ctx, name)
	if err != nil || v == nil {
		return nil, err
	}
	items, ok := v.(map[string]any)
	if !ok {
		return nil, e.typeError(name, "mapping", v)
	}
	out := make(map[string]*Element, len(items))
	for k, item := range items {
		child, ok := item.(*Element)
		if !ok {
			return nil, e.typeError(name, "map[string]element", item)
		}
		out[k] = child
	}
	return out, nil
}

// PeekString reads a raw string without fetching
func (e *Element) PeekString(name string) string {
	v, _ := e.Peek(name)
	s, _ := v.(string)
	return s
}
