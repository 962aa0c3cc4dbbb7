package sensor

import "strings"

const (
	entityDomain = "sensor"
)

// EntityIDFromName derives "sensor.<slug>" from a display name: lower case,
// every run of characters outside [a-z0-9] collapsed into one underscore.
func EntityIDFromName(name string) string {
	var sb strings.Builder

	pendingSep := false

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}

			pendingSep = false

			sb.WriteRune(r)

			continue
		}

		pendingSep = true
	}

	slug := sb.String()
	if slug == "" {
		slug = strings.ToLower(DefaultName)
	}

	return entityDomain + "." + slug
}
