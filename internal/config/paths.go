// ABOUTME: Standard filesystem paths for hook layers, commands, and engine settings
// ABOUTME: Resolves ~/.pi-go/ for the global layer and .pi-go/ for the project layer

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".pi-go"
	projectDirName = ".pi-go"

	// HooksFileName is the well-known hook document inside a layer directory.
	HooksFileName = "hooks.md"

	// SettingsFileName holds engine settings inside a layer directory.
	SettingsFileName = "hooks.json"

	commandsDirName = "commands"
)

// GlobalDir returns the user-global config directory (~/.pi-go/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.pi-go/ under root).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// HookLayerDirs returns the hook layer directories in merge order:
// global first, project last.
func HookLayerDirs(projectRoot string) []string {
	return []string{GlobalDir(), ProjectDir(projectRoot)}
}

// HooksFile returns the hook document path inside a layer directory.
func HooksFile(layerDir string) string {
	return filepath.Join(layerDir, HooksFileName)
}

// HookFiles returns the hook document of every layer, in merge order.
func HookFiles(projectRoot string) []string {
	dirs := HookLayerDirs(projectRoot)
	files := make([]string, len(dirs))
	for i, d := range dirs {
		files[i] = HooksFile(d)
	}
	return files
}

// CommandsDirs returns command definition directories in override order
// (global first; project entries replace global ones with the same name).
func CommandsDirs(projectRoot string) []string {
	return []string{
		filepath.Join(GlobalDir(), commandsDirName),
		filepath.Join(ProjectDir(projectRoot), commandsDirName),
	}
}

// GlobalSettingsFile returns the global engine settings path.
func GlobalSettingsFile() string {
	return filepath.Join(GlobalDir(), SettingsFileName)
}

// ProjectSettingsFile returns the project engine settings path.
func ProjectSettingsFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), SettingsFileName)
}
