package entities

import (
	"fmt"
	"strings"
)

// LaunchMode is an activity's instancing and task-stack behavior.
type LaunchMode string

const (
	LaunchStandard       LaunchMode = "standard"
	LaunchSingleTop      LaunchMode = "singleTop"
	LaunchSingleTask     LaunchMode = "singleTask"
	LaunchSingleInstance LaunchMode = "singleInstance"
)

// Theme is the window theme variant a stub activity is declared with.
type Theme string

const (
	ThemeDefault     Theme = ""
	ThemeTranslucent Theme = "translucent"
	ThemeNoTitle     Theme = "notitle"
)

// LaunchModeClass is the bucket a stub or plugin activity falls into.
// Two classes are compatible only when they are equal; launch modes are
// never substituted for one another.
type LaunchModeClass struct {
	Mode  LaunchMode
	Theme Theme
}

// Standard is the default activity launch-mode class.
var Standard = LaunchModeClass{Mode: LaunchStandard}

// NewLaunchModeClass creates a LaunchModeClass.
func NewLaunchModeClass(mode LaunchMode, theme Theme) LaunchModeClass {
	return LaunchModeClass{Mode: mode, Theme: theme}
}

// IsZero reports whether c carries no launch mode (non-activity components).
func (c LaunchModeClass) IsZero() bool {
	return c.Mode == "" && c.Theme == ThemeDefault
}

// NormalizeFor returns the class as it applies to a component of the given kind.
// Only activities have launch modes; an activity without one is standard.
func (c LaunchModeClass) NormalizeFor(kind ComponentKind) LaunchModeClass {
	if kind != KindActivity {
		return LaunchModeClass{}
	}
	if c.Mode == "" {
		c.Mode = LaunchStandard
	}
	return c
}

// String returns the text form, e.g. "singleTask" or "standard+translucent".
func (c LaunchModeClass) String() string {
	if c.Theme == ThemeDefault {
		return string(c.Mode)
	}
	return string(c.Mode) + "+" + string(c.Theme)
}

// ParseLaunchModeClass parses the text form produced by String.
func ParseLaunchModeClass(s string) (LaunchModeClass, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LaunchModeClass{}, nil
	}
	mode, theme, _ := strings.Cut(s, "+")
	var c LaunchModeClass
	switch m := LaunchMode(mode); m {
	case LaunchStandard, LaunchSingleTop, LaunchSingleTask, LaunchSingleInstance:
		c.Mode = m
	default:
		return LaunchModeClass{}, fmt.Errorf("unknown launch mode %q", mode)
	}
	switch t := Theme(strings.ToLower(theme)); t {
	case ThemeDefault, ThemeTranslucent, ThemeNoTitle:
		c.Theme = t
	default:
		return LaunchModeClass{}, fmt.Errorf("unknown theme %q", theme)
	}
	return c, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c LaunchModeClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *LaunchModeClass) UnmarshalText(text []byte) error {
	parsed, err := ParseLaunchModeClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
