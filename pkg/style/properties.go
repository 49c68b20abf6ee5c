package style

// ImportantProperties is the allow-list of computed properties read from an
// element, grouped by concern. Order is preserved in the output.
var ImportantProperties = []string{
	// Layout
	"display", "position", "top", "right", "bottom", "left", "z-index",
	"float", "clear", "overflow", "overflow-x", "overflow-y", "visibility",
	"box-sizing",
	// Box model
	"width", "height", "min-width", "min-height", "max-width", "max-height",
	"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
	// Flexbox
	"flex", "flex-direction", "flex-wrap", "flex-grow", "flex-shrink",
	"flex-basis", "justify-content", "align-items", "align-content",
	"align-self", "order", "gap", "row-gap", "column-gap",
	// Grid
	"grid-template-columns", "grid-template-rows", "grid-template-areas",
	"grid-column", "grid-row", "grid-area", "grid-auto-flow",
	"grid-auto-columns", "grid-auto-rows",
	// Typography
	"font-family", "font-size", "font-weight", "font-style", "line-height",
	"letter-spacing", "text-align", "text-decoration", "text-transform",
	"white-space", "word-break", "text-overflow", "color",
	// Background
	"background", "background-color", "background-image", "background-size",
	"background-position", "background-repeat",
	// Border
	"border", "border-width", "border-style", "border-color", "border-radius",
	"border-top", "border-right", "border-bottom", "border-left",
	"outline",
	// Effects
	"opacity", "box-shadow", "text-shadow", "transform", "transition",
	"animation", "filter", "backdrop-filter", "cursor", "pointer-events",
	"object-fit", "object-position",
}

// DefaultValues holds the value each property resolves to when nothing sets
// it. A computed value equal to its default carries no information and is
// dropped.
var DefaultValues = map[string]string{
	"display":               "block",
	"position":              "static",
	"top":                   "auto",
	"right":                 "auto",
	"bottom":                "auto",
	"left":                  "auto",
	"z-index":               "auto",
	"float":                 "none",
	"clear":                 "none",
	"overflow":              "visible",
	"overflow-x":            "visible",
	"overflow-y":            "visible",
	"visibility":            "visible",
	"box-sizing":            "content-box",
	"width":                 "auto",
	"height":                "auto",
	"min-width":             "0px",
	"min-height":            "0px",
	"max-width":             "none",
	"max-height":            "none",
	"margin":                "0px",
	"margin-top":            "0px",
	"margin-right":          "0px",
	"margin-bottom":         "0px",
	"margin-left":           "0px",
	"padding":               "0px",
	"padding-top":           "0px",
	"padding-right":         "0px",
	"padding-bottom":        "0px",
	"padding-left":          "0px",
	"flex":                  "0 1 auto",
	"flex-direction":        "row",
	"flex-wrap":             "nowrap",
	"flex-grow":             "0",
	"flex-shrink":           "1",
	"flex-basis":            "auto",
	"justify-content":       "normal",
	"align-items":           "normal",
	"align-content":         "normal",
	"align-self":            "auto",
	"order":                 "0",
	"gap":                   "normal",
	"row-gap":               "normal",
	"column-gap":            "normal",
	"grid-template-columns": "none",
	"grid-template-rows":    "none",
	"grid-template-areas":   "none",
	"grid-column":           "auto",
	"grid-row":              "auto",
	"grid-area":             "auto",
	"grid-auto-flow":        "row",
	"grid-auto-columns":     "auto",
	"grid-auto-rows":        "auto",
	"font-style":            "normal",
	"font-weight":           "400",
	"line-height":           "normal",
	"letter-spacing":        "normal",
	"text-align":            "start",
	"text-decoration":       "none",
	"text-transform":        "none",
	"white-space":           "normal",
	"word-break":            "normal",
	"text-overflow":         "clip",
	"background":            "none",
	"background-color":      "rgba(0, 0, 0, 0)",
	"background-image":      "none",
	"background-size":       "auto",
	"background-position":   "0% 0%",
	"background-repeat":     "repeat",
	"border":                "none",
	"border-width":          "0px",
	"border-style":          "none",
	"border-radius":         "0px",
	"border-top":            "none",
	"border-right":          "none",
	"border-bottom":         "none",
	"border-left":           "none",
	"outline":               "none",
	"opacity":               "1",
	"box-shadow":            "none",
	"text-shadow":           "none",
	"transform":             "none",
	"transition":            "all 0s ease 0s",
	"animation":             "none",
	"filter":                "none",
	"backdrop-filter":       "none",
	"cursor":                "auto",
	"pointer-events":        "auto",
	"object-fit":            "fill",
	"object-position":       "50% 50%",
}

// IsDefault reports whether value is the documented default for property.
func IsDefault(property, value string) bool {
	def, ok := DefaultValues[property]
	return ok && def == value
}

// unitlessProperties take bare numbers in style objects.
var unitlessProperties = map[string]bool{
	"opacity":     true,
	"z-index":     true,
	"flex":        true,
	"flex-grow":   true,
	"flex-shrink": true,
	"font-weight": true,
	"line-height": true,
	"order":       true,
	"zoom":        true,
	"grid-row":    true,
	"grid-column": true,
}

// IsUnitless reports whether a numeric value for property needs no unit.
// property may be camelCase or kebab-case.
func IsUnitless(property string) bool {
	return unitlessProperties[KebabCase(property)]
}

// styleNames is the set of style property names (camelCase) used to
// recognize style-like objects.
var styleNames = func() map[string]bool {
	m := make(map[string]bool, len(ImportantProperties))
	for _, p := range ImportantProperties {
		m[CamelCase(p)] = true
	}
	return m
}()

// IsStyleProperty reports whether name is a known style property in
// camelCase or kebab-case form.
func IsStyleProperty(name string) bool {
	return styleNames[CamelCase(name)]
}
