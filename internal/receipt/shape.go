package receipt

// Shape names the payload generation a raw record belongs to.
type Shape string

const (
	// ShapeIntake is written by the service-request form: customer plus a
	// summary object and source "service_request".
	ShapeIntake Shape = "intake"
	// ShapeFlat is the oldest layout: client, project (as a title), price.
	ShapeFlat Shape = "flat"
	// ShapeNested groups fields under customer, service and project objects.
	ShapeNested Shape = "nested"
	// ShapeGeneric is anything else, including empty records.
	ShapeGeneric Shape = "generic"
)

// DetectShape classifies raw. It only informs logging and metrics; field
// values always come from the alias table.
func DetectShape(raw Raw) Shape {
	if raw == nil {
		return ShapeGeneric
	}
	if _, ok := asMap(raw["summary"]); ok {
		return ShapeIntake
	}
	if src, _ := raw["source"].(string); src == "service_request" {
		return ShapeIntake
	}
	if _, ok := raw["client"]; ok {
		return ShapeFlat
	}
	if _, ok := raw["price"]; ok {
		return ShapeFlat
	}
	if s, ok := raw["project"].(string); ok && s != "" {
		return ShapeFlat
	}
	for _, k := range []string{"customer", "service", "project"} {
		if _, ok := asMap(raw[k]); ok {
			return ShapeNested
		}
	}
	return ShapeGeneric
}
