package element

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/s0up4200/tmdb3/request"
)

func (e *Element) convert(ctx context.Context, f *Field, raw any) (any, error) {
	switch f.Shape {
	case Sequence:
		items, ok := raw.([]any)
		if !ok {
			return nil, errors.Wrapf(ErrUnexpectedShape, "%s.%s: want array, got %T", e.typ.Name, f.Name, raw)
		}
		items = e.order(f, items)
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := e.convertOne(ctx, f, item)
			if err != nil {
				return nil, err
			}
			if v != nil {
				out = append(out, v)
			}
		}
		return out, nil

	case Mapping:
		var items []any
		switch t := raw.(type) {
		case []any:
			items = t
		case map[string]any:
			for _, v := range t {
				items = append(items, v)
			}
		default:
			return nil, errors.Wrapf(ErrUnexpectedShape, "%s.%s: want array or object, got %T", e.typ.Name, f.Name, raw)
		}
		out := make(map[string]any, len(items))
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key, ok := obj[f.MapKey]
			if !ok || key == nil {
				continue
			}
			v, err := e.convertOne(ctx, f, item)
			if err != nil {
				return nil, err
			}
			out[request.FormatValue(key)] = v
		}
		return out, nil

	default:
		return e.convertOne(ctx, f, raw)
	}
}

func (e *Element) convertOne(ctx context.Context, f *Field, raw any) (any, error) {
	switch f.Convert {
	case Date:
		return e.parseDate(f, raw), nil

	case TrimSlash:
		s, ok := raw.(string)
		if !ok {
			return raw, nil
		}
		return strings.TrimLeft(s, "/"), nil

	case Entity:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(ErrUnexpectedShape, "%s.%s: want object, got %T", e.typ.Name, f.Name, raw)
		}
		args, err := e.passthrough(ctx, f)
		if err != nil {
			return nil, err
		}
		return FromRaw(e.env, f.Child, obj, args), nil

	case EntityArg:
		if s, ok := raw.(string); ok && s == "" {
			return nil, nil
		}
		args, err := e.passthrough(ctx, f)
		if err != nil {
			return nil, err
		}
		if names := f.Child.Args(); len(names) > 0 {
			args[names[0]] = raw
		}
		return New(e.env, f.Child, args), nil

	default:
		return raw, nil
	}
}

func (e *Element) passthrough(ctx context.Context, f *Field) (Args, error) {
	args := make(Args, len(f.Passthrough)+1)
	for parent, child := range f.Passthrough {
		v, err := e.Get(ctx, parent)
		if err != nil {
			return nil, err
		}
		args[child] = v
	}
	return args, nil
}

func (e *Element) parseDate(f *Field, raw any) any {
	s, ok := raw.(string)
	if !ok {
		e.env.Logger.Warn().Str("field", f.Name).Interface("value", raw).Msg("Unsupported date value")
		return nil
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		e.env.Logger.Warn().
			Str("type", e.typ.Name).
			Str("field", f.Name).
			Str("value", s).
			Msg("Unsupported date format in upstream data")
		return nil
	}
	return t
}

// order arranges raw sequence items. The sort is stable so items that tie
// keep their response order.
func (e *Element) order(f *Field, items []any) []any {
	if f.Order == OrderNone || len(items) < 2 {
		return items
	}
	out := append([]any(nil), items...)
	attr := f.orderKey()

	switch f.Order {
	case OrderByLanguage, OrderByCountry:
		match := e.env.Locale.MatchesLanguage
		if f.Order == OrderByCountry {
			match = e.env.Locale.MatchesCountry
		}
		preferred := func(item any) bool {
			obj, ok := item.(map[string]any)
			if !ok {
				return false
			}
			code, _ := obj[attr].(string)
			return match(code)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return preferred(out[i]) && !preferred(out[j])
		})

	case OrderByKey:
		sort.SliceStable(out, func(i, j int) bool {
			return numeric(out[i], attr) < numeric(out[j], attr)
		})
	}
	return out
}

func numeric(item any, attr string) float64 {
	obj, ok := item.(map[string]any)
	if !ok {
		return 0
	}
	switch v := obj[attr].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		n, _ := strconv.ParseFloat(v, 64)
		return n
	}
	return 0
}
