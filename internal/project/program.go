package project

import "path"

// Program describes one buildable executable: its name, the source files
// that make it up, its preprocessor defines, the libraries it links against
// and any extra include directories. Programs are constructed once at
// manifest-load time and read-only thereafter.
type Program struct {
	Name        string   `toml:"name"`
	Sources     []string `toml:"sources"`
	Defines     []string `toml:"defines"`
	Libraries   []string `toml:"libraries"`
	IncludeDirs []string `toml:"include-directories"`
}

// PrependDir maps bare filenames into dir/filename paths. Authoring
// convenience for manifests that list sources from several directories.
func PrependDir(dir string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = path.Join(dir, name)
	}
	return out
}
