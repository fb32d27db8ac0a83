package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// render writes value as JSON or YAML, or hands off to text for the
// human readable format
func render(w io.Writer, value any, text func(io.Writer) error) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// field prints a labelled line, skipping empty values
func field(w io.Writer, label string, value any) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int:
		if v == 0 {
			return
		}
		s = strconv.Itoa(v)
	case time.Time:
		if v.IsZero() {
			return
		}
		s = v.Format(time.DateOnly)
	case []string:
		s = strings.Join(v, ", ")
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return
	}
	fmt.Fprintf(w, "%-14s %s\n", label+":", s)
}

// number renders a decoded JSON number without exponent notation
func number(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case nil:
		return ""
	default:
		return fmt.Sprint(n)
	}
}

// label picks a display name and year out of a raw search record
func label(rec map[string]any) string {
	name, _ := rec["title"].(string)
	if name == "" {
		name, _ = rec["name"].(string)
	}
	for _, key := range []string{"release_date", "first_air_date"} {
		if d, ok := rec[key].(string); ok && len(d) >= 4 {
			return fmt.Sprintf("%s (%s)", name, d[:4])
		}
	}
	return name
}
