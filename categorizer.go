package twmanifest

import (
	"sort"
	"strings"

	"github.com/yacobolo/twmanifest/internal/rule"
)

// PropertyCategory groups related CSS properties
type PropertyCategory string

// Property categories for summarising generated declarations
const (
	CategoryTypography PropertyCategory = "Typography"
	CategorySpacing    PropertyCategory = "Spacing"
	CategorySizing     PropertyCategory = "Sizing"
	CategoryColor      PropertyCategory = "Color"
	CategoryBorder     PropertyCategory = "Border"
	CategoryLayout     PropertyCategory = "Layout"
	CategoryEffects    PropertyCategory = "Effects"
	CategoryCustom     PropertyCategory = "Custom"
)

// Categories lists the categories in display order.
var Categories = []PropertyCategory{
	CategoryTypography, CategorySpacing, CategorySizing, CategoryColor,
	CategoryBorder, CategoryLayout, CategoryEffects, CategoryCustom,
}

// propertyCategories maps CSS property names to categories
var propertyCategories = map[string]PropertyCategory{
	"font-family":     CategoryTypography,
	"font-size":       CategoryTypography,
	"font-weight":     CategoryTypography,
	"font-style":      CategoryTypography,
	"line-height":     CategoryTypography,
	"letter-spacing":  CategoryTypography,
	"text-decoration": CategoryTypography,
	"text-transform":  CategoryTypography,
	"text-indent":     CategoryTypography,
	"white-space":     CategoryTypography,

	"gap":        CategorySpacing,
	"row-gap":    CategorySpacing,
	"column-gap": CategorySpacing,
	"inset":      CategorySpacing,
	"top":        CategorySpacing,
	"right":      CategorySpacing,
	"bottom":     CategorySpacing,
	"left":       CategorySpacing,

	"width":      CategorySizing,
	"height":     CategorySizing,
	"min-width":  CategorySizing,
	"min-height": CategorySizing,
	"max-width":  CategorySizing,
	"max-height": CategorySizing,

	"color":            CategoryColor,
	"background-color": CategoryColor,
	"outline-color":    CategoryColor,
	"fill":             CategoryColor,
	"stroke":           CategoryColor,

	"display":         CategoryLayout,
	"align-items":     CategoryLayout,
	"justify-content": CategoryLayout,
	"pointer-events":  CategoryLayout,

	"transition-property":        CategoryEffects,
	"transition-duration":        CategoryEffects,
	"transition-timing-function": CategoryEffects,
	"opacity":                    CategoryEffects,
}

// CategorizedProperty is one declaration of a generated rule.
type CategorizedProperty struct {
	Selector string
	Name     string
	Value    string
	Category PropertyCategory
	// IsToken is true when the value is fluid or refers to a variable or
	// theme value instead of a literal.
	IsToken bool
}

// categorizeProperty determines the category of a CSS property
func categorizeProperty(name string) PropertyCategory {
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}

	switch {
	case strings.HasPrefix(name, "--"):
		return CategoryCustom
	case strings.HasPrefix(name, "padding"), strings.HasPrefix(name, "margin"):
		return CategorySpacing
	case strings.HasPrefix(name, "border"), strings.HasPrefix(name, "outline"):
		return CategoryBorder
	case strings.HasPrefix(name, "transition"), strings.HasPrefix(name, "animation"):
		return CategoryEffects
	}
	return CategoryLayout
}

// isTokenValue checks if a value comes from a token rather than a literal
func isTokenValue(value string) bool {
	return strings.Contains(value, "var(--") ||
		strings.Contains(value, "theme(") ||
		strings.Contains(value, "100vw")
}

// CategorizeRule flattens a selector→declarations rule and categorises
// every declaration. Nested selectors and at-rules are walked in order.
func CategorizeRule(r *rule.Rule) []CategorizedProperty {
	var out []CategorizedProperty
	for _, e := range r.Entries() {
		if child, ok := e.Value.(*rule.Rule); ok {
			collectProperties(e.Key, child, &out)
		}
	}
	return out
}

func collectProperties(selector string, r *rule.Rule, out *[]CategorizedProperty) {
	for _, e := range r.Entries() {
		if child, ok := e.Value.(*rule.Rule); ok {
			nested := selector
			if !strings.HasPrefix(e.Key, "@") {
				nested = rule.NestSelector(selector, e.Key)
			}
			collectProperties(nested, child, out)
			continue
		}
		name := rule.PropertyName(e.Key)
		value := rule.FormatValue(name, e.Value)
		*out = append(*out, CategorizedProperty{
			Selector: selector,
			Name:     name,
			Value:    value,
			Category: categorizeProperty(name),
			IsToken:  isTokenValue(value),
		})
	}
}

// GroupByCategory groups properties by category, sorted by name within
// each group.
func GroupByCategory(props []CategorizedProperty) map[PropertyCategory][]CategorizedProperty {
	result := make(map[PropertyCategory][]CategorizedProperty)
	for _, p := range props {
		result[p.Category] = append(result[p.Category], p)
	}
	for cat := range result {
		sort.SliceStable(result[cat], func(i, j int) bool {
			return result[cat][i].Name < result[cat][j].Name
		})
	}
	return result
}

// CountByCategory counts declarations per category.
func CountByCategory(props []CategorizedProperty) map[PropertyCategory]int {
	counts := make(map[PropertyCategory]int)
	for cat, group := range GroupByCategory(props) {
		counts[cat] = len(group)
	}
	return counts
}
