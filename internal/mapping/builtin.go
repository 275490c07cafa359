package mapping

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed tables/*.yaml
var builtinFS embed.FS

// Builtin returns the tables shipped with the module for every supported
// provider. The embedded files are parsed once.
func Builtin() Set {
	return builtinTables()
}

var builtinTables = sync.OnceValue(func() Set {
	set, err := loadFS(builtinFS, "tables/*.yaml")
	if err != nil {
		panic(fmt.Sprintf("mapping: embedded tables: %v", err))
	}

	return set
})

// loadFS parses every file matching pattern and merges their tables.
func loadFS(fsys fs.FS, pattern string) (Set, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	set := make(Set)

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}

		f, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}

		if diags := Validate(f, DefaultRegistry()); diags.HasErrors() {
			return nil, fmt.Errorf("%s: %w", p, diags.Error())
		}

		for name, t := range f.Tables() {
			set[name] = t
		}
	}

	return set, nil
}
