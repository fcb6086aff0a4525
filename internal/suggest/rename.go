package suggest

import (
	"regexp"
	"strings"

	"github.com/sevigo/evo-warden/internal/core"
)

var snakeNameRe = regexp.MustCompile(`\b[a-z0-9]+(?:_[a-z0-9]+)+\b`)

// renameSnakeIdentifiers rewrites the snake_case identifiers named by the
// style findings to camelCase throughout the file. Only identifiers the
// analyzer actually flagged are touched.
func renameSnakeIdentifiers(content string, findings []core.Finding) (string, bool) {
	flagged := map[string]struct{}{}
	for _, f := range findings {
		// The identifier is quoted in the finding description.
		for _, name := range snakeNameRe.FindAllString(f.Description, -1) {
			flagged[name] = struct{}{}
		}
	}
	if len(flagged) == 0 {
		return content, false
	}

	rewritten := snakeNameRe.ReplaceAllStringFunc(content, func(name string) string {
		if _, ok := flagged[name]; !ok {
			return name
		}
		return snakeToCamel(name)
	})
	return rewritten, rewritten != content
}

func snakeToCamel(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
