package models

// Template selects one of the three fixed document layouts. The set is
// closed: ParseTemplate maps anything unrecognized (including legacy values)
// to the standard layout, and rendering dispatch treats that as its default
// arm as well.
type Template string

const (
	TemplateStandard  Template = "Standard"
	TemplateCorporate Template = "Corporate"
	TemplateCreative  Template = "Creative"
)

// Templates lists the layouts in cycling order.
var Templates = []Template{TemplateStandard, TemplateCorporate, TemplateCreative}

// ParseTemplate resolves a raw value to a known template, falling back to the
// standard layout for unknown input.
func ParseTemplate(raw string) Template {
	switch Template(raw) {
	case TemplateCorporate:
		return TemplateCorporate
	case TemplateCreative:
		return TemplateCreative
	default:
		return TemplateStandard
	}
}

// Next returns the following template in cycling order, wrapping after the
// last one. Three advances always return to the starting layout.
func (t Template) Next() Template {
	for i, cur := range Templates {
		if cur == t {
			return Templates[(i+1)%len(Templates)]
		}
	}
	return TemplateStandard
}

func (t Template) String() string { return string(t) }
