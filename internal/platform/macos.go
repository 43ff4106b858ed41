package platform

import "path/filepath"

// macOSProtectedPaths lists global npm/yarn/pnpm install locations on macOS
func macOSProtectedPaths(homeDir string) []string {
	return []string{
		"/usr/local/lib/node_modules",
		"/opt/homebrew/lib/node_modules",
		filepath.Join(homeDir, ".npm-global", "lib", "node_modules"),
		filepath.Join(homeDir, "Library", "pnpm", "global", "5", "node_modules"),
		filepath.Join(homeDir, ".config", "yarn", "global", "node_modules"),
	}
}
