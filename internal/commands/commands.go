// ABOUTME: Command catalog: named prompt templates loaded from Markdown files with frontmatter
// ABOUTME: Resolves agent/model bindings for hook command actions; project overrides global

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
	"github.com/mauromedda/pi-hooks/internal/log"
)

// argumentsPlaceholder is replaced by the invocation arguments in a template.
const argumentsPlaceholder = "$ARGUMENTS"

// Command is one named command definition.
type Command struct {
	Name        string
	Description string
	Agent       string
	Model       string
	Template    string // Markdown body after frontmatter
	SourcePath  string
}

// commandFrontmatter is the typed structure for YAML frontmatter in command files.
type commandFrontmatter struct {
	Description string `yaml:"description"`
	Agent       string `yaml:"agent"`
	Model       string `yaml:"model"`
}

// Expand renders the template with args. Templates without a placeholder
// get non-empty args appended on their own paragraph.
func (c Command) Expand(args string) string {
	args = strings.TrimSpace(args)
	if strings.Contains(c.Template, argumentsPlaceholder) {
		return strings.ReplaceAll(c.Template, argumentsPlaceholder, args)
	}
	if args == "" {
		return c.Template
	}
	if c.Template == "" {
		return args
	}
	return c.Template + "\n\n" + args
}

// Catalog holds commands by name.
type Catalog struct {
	byName map[string]Command
}

// Load reads every directory concurrently and merges them in order: a
// command in a later directory replaces one with the same name in an
// earlier directory. Missing directories are skipped.
func Load(ctx context.Context, dirs ...string) (*Catalog, error) {
	perDir := make([][]Command, len(dirs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			perDir[i] = loadDir(dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{byName: make(map[string]Command)}
	for _, cmds := range perDir {
		for _, cmd := range cmds {
			c.byName[cmd.Name] = cmd
		}
	}
	return c, nil
}

// LoadProject loads the global and project command directories.
func LoadProject(ctx context.Context, projectRoot string) (*Catalog, error) {
	return Load(ctx, config.CommandsDirs(projectRoot)...)
}

func loadDir(dir string) []Command {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("commands: reading %s: %v", dir, err)
		}
		return nil
	}

	var cmds []Command
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		cmd, err := parseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn("commands: %v", err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func parseFile(path string) (Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Command{}, fmt.Errorf("reading command %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".md")
	cmd := Command{Name: name, SourcePath: path}

	content := string(data)
	fm, body, err := config.ParseFrontmatter[commandFrontmatter](content)
	if err != nil {
		// Frontmatter parse error; use content as-is
		log.Debug("commands: %s: %v", path, err)
		cmd.Template = strings.TrimSpace(content)
		return cmd, nil
	}
	cmd.Description = fm.Description
	cmd.Agent = fm.Agent
	cmd.Model = fm.Model
	cmd.Template = strings.TrimSpace(body)
	return cmd, nil
}

// Lookup finds a command by name. A leading slash is ignored.
func (c *Catalog) Lookup(name string) (Command, bool) {
	cmd, ok := c.byName[strings.TrimPrefix(name, "/")]
	return cmd, ok
}

// List returns all commands sorted by name for deterministic output.
func (c *Catalog) List() []Command {
	result := make([]Command, 0, len(c.byName))
	for _, cmd := range c.byName {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Suggest returns up to limit command names that fuzzy-match name, best first.
func (c *Catalog) Suggest(name string, limit int) []string {
	names := make([]string, 0, len(c.byName))
	for _, cmd := range c.List() {
		names = append(names, cmd.Name)
	}
	matches := fuzzy.Find(strings.TrimPrefix(name, "/"), names)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Infos describes the catalog in the form the hook engine consumes.
func (c *Catalog) Infos() []hooks.CommandInfo {
	list := c.List()
	infos := make([]hooks.CommandInfo, len(list))
	for i, cmd := range list {
		infos[i] = hooks.CommandInfo{
			Name:        cmd.Name,
			Description: cmd.Description,
			Agent:       cmd.Agent,
			Model:       cmd.Model,
		}
	}
	return infos
}
