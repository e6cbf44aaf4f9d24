// ABOUTME: YAML frontmatter parsing for hook and command definition documents
// ABOUTME: Strict generic decoder plus a tolerant key/value parser that never fails

package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

var errUnterminated = errors.New("unterminated frontmatter: missing closing ---")

// Document is a parsed frontmatter document: the key/value block and the
// text that follows it.
type Document struct {
	Data map[string]any
	Body string
}

// ParseFrontmatter extracts YAML frontmatter from Markdown content.
// It returns the parsed frontmatter as T, the remaining body, and any error.
// If no frontmatter is found, it returns (zero T, original content, nil).
// If the opening delimiter is present but the closing one is missing, it returns an error.
func ParseFrontmatter[T any](content string) (T, string, error) {
	var zero T

	block, body, found, err := splitFrontmatter(content)
	if err != nil {
		return zero, "", err
	}
	if !found {
		return zero, content, nil
	}

	var result T
	if err := yaml.Unmarshal([]byte(block), &result); err != nil {
		return zero, "", fmt.Errorf("parse frontmatter YAML: %w", err)
	}
	return result, body, nil
}

// ParseDocument is the tolerant variant of ParseFrontmatter. A missing,
// unterminated, or malformed block yields empty Data; it never fails.
func ParseDocument(content string) Document {
	block, body, found, err := splitFrontmatter(content)
	if err != nil || !found {
		return Document{Data: map[string]any{}, Body: content}
	}

	data := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &data); err != nil || data == nil {
		return Document{Data: map[string]any{}, Body: body}
	}
	return Document{Data: data, Body: body}
}

// splitFrontmatter separates the YAML block from the body. CRLF line endings
// are normalized before matching delimiters.
func splitFrontmatter(content string) (block, body string, found bool, err error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return "", content, false, nil
	}
	rest := normalized[len(frontmatterDelimiter)+1:]

	var afterClosing string
	if strings.HasPrefix(rest, frontmatterDelimiter+"\n") || rest == frontmatterDelimiter {
		afterClosing = rest[len(frontmatterDelimiter):]
	} else {
		before, after, ok := strings.Cut(rest, "\n"+frontmatterDelimiter)
		if !ok {
			return "", "", false, errUnterminated
		}
		block = before
		afterClosing = after
	}

	return block, strings.TrimPrefix(afterClosing, "\n"), true, nil
}
