package logging

import (
	"fmt"
	"regexp"
	"strings"
)

// LoggerPatternConfig is an instance of a level specification for a given logger.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

const (
	// e.g. "foo" or "jacobian-pinv".
	validLoggerSectionName = `[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*`
	// e.g. "foo" or "*".
	validLoggerSectionNameWithWildcard = `(` + validLoggerSectionName + `|\*)`
	// e.g. "ikdemo.*.ccd".
	validLoggerSectionsWithWildcard = validLoggerSectionNameWithWildcard + `(\.` + validLoggerSectionNameWithWildcard + `)*`
	// Restricts above regex to be the entire pattern.
	validLoggerName = `^` + validLoggerSectionsWithWildcard + `$`
)

var loggerPatternRegexp = regexp.MustCompile(validLoggerName)

func validatePattern(pattern string) bool {
	return loggerPatternRegexp.MatchString(pattern)
}

func buildRegexFromPattern(pattern string) string {
	var matcher strings.Builder
	matcher.WriteRune('^')
	for _, ch := range pattern {
		switch ch {
		case '*':
			matcher.WriteString(`.*`)
		case '.':
			matcher.WriteString(`\.`)
		default:
			matcher.WriteRune(ch)
		}
	}
	matcher.WriteRune('$')
	return matcher.String()
}

// Validate checks the pattern grammar and the level name.
func (cfg LoggerPatternConfig) Validate(path string) error {
	if !validatePattern(cfg.Pattern) {
		return fmt.Errorf("%s: invalid logger pattern %q", path, cfg.Pattern)
	}
	if _, err := LevelFromString(cfg.Level); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LevelForName returns the level of the last pattern in patterns that matches
// name. Later patterns take precedence. Invalid patterns are skipped.
func LevelForName(name string, patterns []LoggerPatternConfig) (Level, bool) {
	var (
		found bool
		level Level
	)
	for _, cfg := range patterns {
		if !validatePattern(cfg.Pattern) {
			continue
		}
		lvl, err := LevelFromString(cfg.Level)
		if err != nil {
			continue
		}
		matched, err := regexp.MatchString(buildRegexFromPattern(cfg.Pattern), name)
		if err != nil || !matched {
			continue
		}
		level, found = lvl, true
	}
	return level, found
}

// ApplyPatterns sets the level of logger when one of patterns matches its name.
func ApplyPatterns(logger Logger, patterns []LoggerPatternConfig) {
	if level, ok := LevelForName(logger.Name(), patterns); ok {
		logger.SetLevel(level)
	}
}
