package prompt

import "strings"

// Render substitutes {name} placeholders in a template. Unknown placeholders
// are left untouched so JSON braces inside templates stay intact.
func Render(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
