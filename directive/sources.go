package directive

import (
	"os"
	"path/filepath"
)

// Sources loads the files directives refer to. Implementations return an
// error matching fs.ErrNotExist when a file is absent.
type Sources interface {
	// Fragment returns the HTML fragment named by an !include directive.
	Fragment(name string) (string, error)
	// Markdown returns the raw markdown behind an !include_md directive.
	Markdown(path string) (string, error)
	// Posts returns the file names in the posts directory.
	Posts() ([]string, error)
}

// DirSources resolves directives against directories on disk.
type DirSources struct {
	ComponentsDir string // !include(name) reads <ComponentsDir>/<name>.html
	ContentRoot   string // !include_md(path) reads <ContentRoot>/<path>
	PagesDir      string // !blog_list lists the files of PagesDir
}

func (d DirSources) Fragment(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.ComponentsDir, name+".html"))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d DirSources) Markdown(path string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.ContentRoot, path))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Posts returns the names of the regular files in PagesDir, sorted.
// Subdirectories are skipped.
func (d DirSources) Posts() ([]string, error) {
	entries, err := os.ReadDir(d.PagesDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
