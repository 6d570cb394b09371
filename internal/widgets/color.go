package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/deskshell/internal/configstore"
)

// ParseColor parses "#RRGGBB" or "RRGGBB" into 0xRRGGBB.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	return uint32(v), nil
}

// FormatColor renders 0xRRGGBB as "#RRGGBB".
func FormatColor(rgb uint32) string {
	return fmt.Sprintf("#%06X", rgb&0xFFFFFF)
}

// LoadColor reads key from g. A missing key gives def. A value that does not
// parse also gives def, together with the raw text and the parse error, so
// SaveColor can write the user's value back unchanged.
func LoadColor(g *configstore.Group, key string, def uint32) (rgb uint32, raw string, err error) {
	s := g.String(key, "")
	if s == "" {
		return def, "", nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return def, s, err
	}
	return c, "", nil
}

// SaveColor writes raw when it is set and rgb otherwise.
func SaveColor(g *configstore.Group, key string, rgb uint32, raw string) {
	if raw != "" {
		g.Set(key, raw)
		return
	}
	g.Set(key, FormatColor(rgb))
}
