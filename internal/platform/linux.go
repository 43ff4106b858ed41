package platform

import "path/filepath"

// linuxProtectedPaths lists global npm/yarn/pnpm install locations on Linux
func linuxProtectedPaths(homeDir string) []string {
	return []string{
		"/usr/lib/node_modules",
		"/usr/local/lib/node_modules",
		"/usr/share/nodejs",
		"/opt/node_modules",
		filepath.Join(homeDir, ".npm-global", "lib", "node_modules"),
		filepath.Join(homeDir, ".local", "lib", "node_modules"),
		filepath.Join(homeDir, ".local", "share", "pnpm", "global", "5", "node_modules"),
		filepath.Join(homeDir, ".config", "yarn", "global", "node_modules"),
	}
}
