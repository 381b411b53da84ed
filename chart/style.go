package chart

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Style controls which moving averages are drawn. A period absent from the
// map falls back to the default (enabled).
type Style struct {
	Enabled map[int]bool
}

// DefaultStyle enables every moving average.
func DefaultStyle() Style {
	return Style{Enabled: map[int]bool{}}
}

// IsEnabled reports whether the moving average for a period is drawn.
func (s Style) IsEnabled(period int) bool {
	if v, ok := s.Enabled[period]; ok {
		return v
	}
	return true
}

// Toggle sets a per-period flag, returning an updated copy so the render
// context stays value-like.
func (s Style) Toggle(period int, enabled bool) Style {
	next := Style{Enabled: make(map[int]bool, len(s.Enabled)+1)}
	for k, v := range s.Enabled {
		next.Enabled[k] = v
	}
	next.Enabled[period] = enabled
	return next
}

// StyleEvent is a decoded host style notification: an optional theme change
// plus per-period MA toggles.
type StyleEvent struct {
	Theme   string
	Toggles map[int]bool
}

// ParseStyleEvent accepts both shapes the host emits: a mapping of option
// names to {value}-wrapped settings, and the flat {"theme": "..."} object.
func ParseStyleEvent(raw []byte) (StyleEvent, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return StyleEvent{}, err
	}

	// the wrapped shape nests everything under "options"
	if options, ok := doc["options"]; ok {
		if err := json.Unmarshal(options, &doc); err != nil {
			return StyleEvent{}, err
		}
	}

	event := StyleEvent{Toggles: map[int]bool{}}
	for key, rv := range doc {
		val := unwrapValue(rv)

		switch {
		case key == "theme":
			var theme string
			if err := json.Unmarshal(val, &theme); err == nil {
				event.Theme = theme
			}
		case strings.HasPrefix(key, "ma") && strings.HasSuffix(key, "_enabled"):
			period, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(key, "ma"), "_enabled"))
			if err != nil {
				continue
			}
			var enabled bool
			if err := json.Unmarshal(val, &enabled); err == nil {
				event.Toggles[period] = enabled
			}
		}
	}

	return event, nil
}

// unwrapValue strips the {"value": ...} envelope when present.
func unwrapValue(raw json.RawMessage) json.RawMessage {
	var wrapped struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Value != nil {
		return wrapped.Value
	}
	return raw
}
