package receipt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Canonical field names used as keys of the alias table.
const (
	FieldOrderID            = "orderId"
	FieldCreatedAt          = "createdAt"
	FieldStatus             = "status"
	FieldCustomerName       = "customer.name"
	FieldCustomerEmail      = "customer.email"
	FieldCustomerPhone      = "customer.phone"
	FieldServiceTitle       = "service.title"
	FieldServiceDescription = "service.description"
	FieldServiceCategory    = "service.category"
	FieldServicePlatform    = "service.platform"
	FieldProjectComplexity  = "project.complexity"
	FieldProjectTimeline    = "project.timeline"
	FieldProjectBudget      = "project.budget"
	FieldProjectDeadline    = "project.deadline"
	FieldRequirements       = "requirements"
	FieldContactMethod      = "contactMethod"
)

// Path addresses a value inside a Raw record, one key per nesting level.
type Path []string

// String renders the path in dotted form.
func (p Path) String() string { return strings.Join(p, ".") }

// Alias lists, in priority order, the source paths a canonical field is read from.
type Alias struct {
	Field string
	Paths []Path
}

// Aliases is the resolution table. Earlier paths win. The summary.* paths
// cover documents written by the intake form and come after every legacy
// candidate of the same field.
var Aliases = []Alias{
	{FieldOrderID, []Path{{"id"}, {"orderId"}}},
	{FieldStatus, []Path{{"status"}}},
	{FieldCustomerName, []Path{{"client"}, {"customer", "name"}, {"name"}}},
	{FieldCustomerEmail, []Path{{"email"}, {"customer", "email"}}},
	{FieldCustomerPhone, []Path{{"phone"}, {"customer", "phone"}, {"contact"}}},
	{FieldServiceTitle, []Path{{"project"}, {"service", "title"}, {"title"}, {"summary", "title"}}},
	{FieldServiceDescription, []Path{{"description"}, {"service", "description"}, {"summary", "description"}}},
	{FieldServiceCategory, []Path{{"category"}, {"service", "category"}, {"summary", "category"}}},
	{FieldServicePlatform, []Path{{"platform"}, {"service", "platform"}}},
	{FieldProjectComplexity, []Path{{"complexity"}, {"project", "complexity"}}},
	{FieldProjectTimeline, []Path{{"timeline"}, {"project", "timeline"}}},
	{FieldProjectBudget, []Path{{"price"}, {"budget"}, {"project", "budget"}, {"summary", "budget"}}},
	{FieldProjectDeadline, []Path{{"deadline"}, {"project", "deadline"}, {"summary", "deadline"}}},
	{FieldRequirements, []Path{{"features"}, {"requirements"}}},
	{FieldContactMethod, []Path{{"contactMethod"}}},
}

var aliasIndex = func() map[string][]Path {
	idx := make(map[string][]Path, len(Aliases))
	for _, a := range Aliases {
		idx[a.Field] = a.Paths
	}
	return idx
}()

// PathsFor returns the candidate paths of a canonical field, or nil.
func PathsFor(field string) []Path { return aliasIndex[field] }

// Lookup walks p through nested objects of raw.
func (r Raw) Lookup(p Path) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range p {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, ok := m[key]
		if !ok || v == nil {
			return nil, false
		}
		cur = v
	}
	return cur, len(p) > 0
}

// resolveString returns the first candidate holding a non-empty scalar.
// Objects, arrays and booleans are skipped so a nested "project" object never
// becomes a title.
func resolveString(raw Raw, field string) (string, bool) {
	for _, p := range PathsFor(field) {
		v, ok := raw.Lookup(p)
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// resolveNumber returns the first candidate holding a non-zero number.
// Numeric strings are accepted since form values arrive as text.
func resolveNumber(raw Raw, field string) *float64 {
	for _, p := range PathsFor(field) {
		v, ok := raw.Lookup(p)
		if !ok {
			continue
		}
		if f, ok := toNumber(v); ok && f != 0 {
			return &f
		}
	}
	return nil
}

// resolveList returns the first array-shaped candidate. Elements that are
// not scalars are dropped.
func resolveList(raw Raw, field string) []string {
	for _, p := range PathsFor(field) {
		v, ok := raw.Lookup(p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []string:
			return append([]string{}, t...)
		case []any:
			out := make([]string, 0, len(t))
			for _, e := range t {
				if s, ok := scalarString(e); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return []string{}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, t != nil
	case Raw:
		return map[string]any(t), t != nil
	}
	return nil, false
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
