// ABOUTME: Human-readable rendering of effective engine settings and layer paths
// ABOUTME: Used by the "config" CLI subcommand to show merged settings

package config

import (
	"fmt"
	"os"
	"strings"
)

// Explain renders a human-readable summary of the effective settings and
// the files they were read from for projectRoot.
func Explain(s *Settings, projectRoot string) string {
	if s == nil {
		s = &Settings{}
	}

	var b strings.Builder

	b.WriteString("=== Engine ===\n")
	fmt.Fprintf(&b, "  LogLevel:      %s\n", orDefault(s.LogLevel, "info"))
	fmt.Fprintf(&b, "  Shell:         %s\n", orDefault(s.Shell, defaultShell))
	fmt.Fprintf(&b, "  BashTimeout:   %s\n", s.BashTimeout())
	fmt.Fprintf(&b, "  ProjectDirEnv: %s\n", orDefault(s.ProjectDirEnv, DefaultProjectDirEnv))
	fmt.Fprintf(&b, "  SessionIDEnv:  %s\n", orDefault(s.SessionIDEnv, DefaultSessionIDEnv))
	b.WriteString("\n")

	b.WriteString("=== Settings files ===\n")
	for _, path := range []string{GlobalSettingsFile(), ProjectSettingsFile(projectRoot)} {
		fmt.Fprintf(&b, "  %s%s\n", path, presence(path))
	}
	b.WriteString("\n")

	b.WriteString("=== Hook layers ===\n")
	for _, path := range HookFiles(projectRoot) {
		fmt.Fprintf(&b, "  %s%s\n", path, presence(path))
	}
	b.WriteString("\n")

	b.WriteString("=== Command dirs ===\n")
	for _, path := range CommandsDirs(projectRoot) {
		fmt.Fprintf(&b, "  %s%s\n", path, presence(path))
	}
	b.WriteString("\n")

	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func presence(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (missing)"
	}
	return ""
}
