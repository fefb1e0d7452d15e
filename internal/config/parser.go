package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/maskannotate/internal/stroke"
	"github.com/example/maskannotate/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "brushes":
			err = setBrushField(cfg, key, value)
		case currentSection == "objects":
			err = setObjectField(cfg, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "root":
		cfg.Root = value
	case "theme":
		cfg.Theme = value
	case "history_depth":
		cfg.HistoryDepth, err = parsePositive(key, value)
	case "brush_index":
		cfg.BrushIndex, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
	case "transparency":
		cfg.Transparency, err = parseFloatRange(key, value, 0, 1)
	case "zoom_step":
		cfg.ZoomStep, err = parseFloatRange(key, value, 0.1, 100)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "error":
		n.Error = b
	}
	return nil
}

func setBrushField(cfg *Config, key, value string) error {
	if !strings.EqualFold(key, "sizes") {
		return nil
	}
	var sizes stroke.Sizes
	for _, f := range splitList(value) {
		n, err := parsePositive(key, f)
		if err != nil {
			return err
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return fmt.Errorf("key %s needs at least one size", key)
	}
	cfg.Brushes = sizes.Normalize()
	return nil
}

func setObjectField(cfg *Config, key, value string) error {
	if !strings.EqualFold(key, "types") {
		return nil
	}
	types := splitList(value)
	if len(types) == 0 {
		return fmt.Errorf("key %s needs at least one object type", key)
	}
	cfg.Objects = types
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, f := range strings.Split(value, ",") {
		f = strings.Trim(strings.TrimSpace(f), "\"")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("key %s must be at least 1, got %d", key, n)
	}
	return n, nil
}

func parseFloatRange(key, value string, lo, hi float64) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("key %s must be within [%g, %g], got %g", key, lo, hi, f)
	}
	return f, nil
}
