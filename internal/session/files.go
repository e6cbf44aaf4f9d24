// ABOUTME: Recognizes file-modifying tool calls and extracts their target path
// ABOUTME: Paths are cleaned and NFC-normalized so one file maps to one set entry

package session

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// writeTools are tool names whose successful execution modifies a file.
var writeTools = map[string]bool{
	"write": true, "edit": true,
}

// filePathKeys are the argument names hosts use for a tool's target file,
// in lookup order.
var filePathKeys = []string{"filePath", "file_path", "path", "notebook_path"}

// IsWriteTool reports whether tool modifies files. Case-insensitive.
func IsWriteTool(tool string) bool {
	return writeTools[strings.ToLower(tool)]
}

// FilePathArg pulls the target file path from tool arguments, or "".
func FilePathArg(args map[string]any) string {
	for _, key := range filePathKeys {
		if p, ok := args[key].(string); ok && strings.TrimSpace(p) != "" {
			return p
		}
	}
	return ""
}

// NormalizePath cleans p and converts it to NFC so that visually identical
// paths from different sources compare equal.
func NormalizePath(p string) string {
	return norm.NFC.String(filepath.Clean(p))
}
