// Package theme holds the color presets the portal can be rendered with.
package theme

import (
	"sort"
	"strings"
)

// StorageKey is both the browser localStorage key and the cookie name holding the chosen preset.
const StorageKey = "theme-preset"

const (
	PresetAQ      = "aq"
	PresetVibrant = "vibrant"
	PresetMinimal = "minimal"

	DefaultPreset = PresetAQ
)

// Preset maps CSS custom properties to HSL component values.
type Preset map[string]string

var presets = map[string]Preset{
	PresetAQ: {
		"--background": "216 50% 96%",
		"--foreground": "230 18% 20%",
		"--primary":    "280 80% 55%",
		"--card":       "0 0% 100%",
	},
	PresetVibrant: {
		"--background": "265 40% 10%",
		"--foreground": "0 0% 98%",
		"--primary":    "200 80% 55%",
		"--card":       "232 47% 12%",
	},
	PresetMinimal: {
		"--background": "220 10% 98%",
		"--foreground": "210 8% 20%",
		"--primary":    "210 16% 36%",
		"--card":       "0 0% 100%",
	},
}

// Get returns the named preset. ok is false for unknown names.
func Get(name string) (p Preset, ok bool) {
	p, ok = presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Resolve returns the named preset's name and values, falling back to DefaultPreset.
func Resolve(name string) (string, Preset) {
	name = strings.ToLower(strings.TrimSpace(name))
	if p, ok := presets[name]; ok {
		return name, p
	}
	return DefaultPreset, presets[DefaultPreset]
}

// Names lists the preset names in a stable order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every preset by name.
func All() map[string]Preset {
	out := make(map[string]Preset, len(presets))
	for n, p := range presets {
		out[n] = p
	}
	return out
}

// Style renders p as an inline CSS declaration list, properties sorted.
func (p Preset) Style() string {
	props := make([]string, 0, len(p))
	for k := range p {
		props = append(props, k)
	}
	sort.Strings(props)

	var b strings.Builder
	for i, k := range props {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(p[k])
		b.WriteString(";")
	}
	return b.String()
}
