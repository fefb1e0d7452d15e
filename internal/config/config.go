package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/example/maskannotate/internal/history"
	"github.com/example/maskannotate/internal/maskfile"
	"github.com/example/maskannotate/internal/session"
	"github.com/example/maskannotate/internal/stroke"
	"github.com/example/maskannotate/internal/theme"
)

// ThemeEnv names the environment variable that overrides the configured theme.
const ThemeEnv = "MASKANNOTATE_THEME"

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Error bool
}

// Config holds the application configuration.
type Config struct {
	Root         string
	Theme        string
	HistoryDepth int
	BrushIndex   int
	Transparency float64
	ZoomStep     float64
	Brushes      stroke.Sizes
	Objects      []string
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // Default to empty to allow fallback to Env/Default
		HistoryDepth: history.DefaultDepth,
		BrushIndex:   stroke.DefaultSizeIndex,
		Transparency: 1,
		ZoomStep:     session.DefaultZoomStep,
		Brushes:      append(stroke.Sizes(nil), stroke.DefaultSizes...),
		Objects:      append([]string(nil), maskfile.DefaultTypes...),
		Notify: Notify{
			Save:  false,
			Error: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ThemeName resolves the theme to use: flag, then environment, then file.
func (c *Config) ThemeName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv(ThemeEnv)); v != "" {
		return v
	}
	return c.Theme
}

// SessionOptions converts the editing settings into session options.
func (c *Config) SessionOptions() []session.Option {
	return []session.Option{
		session.WithHistoryDepth(c.HistoryDepth),
		session.WithBrushSizes(c.Brushes),
		session.WithBrushIndex(c.BrushIndex),
		session.WithTransparency(c.Transparency),
		session.WithZoomStep(c.ZoomStep),
		session.WithTypes(c.Objects),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Root != "" {
		fmt.Fprintf(&sb, "root = %s\n", c.Root)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "history_depth = %d\n", c.HistoryDepth)
	fmt.Fprintf(&sb, "brush_index = %d\n", c.BrushIndex)
	fmt.Fprintf(&sb, "transparency = %s\n", strconv.FormatFloat(c.Transparency, 'g', -1, 64))
	fmt.Fprintf(&sb, "zoom_step = %s\n", strconv.FormatFloat(c.ZoomStep, 'g', -1, 64))
	sb.WriteString("\n")

	sb.WriteString("[brushes]\n")
	sizes := make([]string, len(c.Brushes))
	for i, s := range c.Brushes {
		sizes[i] = strconv.Itoa(s)
	}
	fmt.Fprintf(&sb, "sizes = %s\n", strings.Join(sizes, ", "))
	sb.WriteString("\n")

	sb.WriteString("[objects]\n")
	fmt.Fprintf(&sb, "types = %s\n", strings.Join(c.Objects, ", "))
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "error = %v\n", c.Notify.Error)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
