// Package exclude decides which directories an input walk should not
// descend into when collecting HeaderDoc XML files.
package exclude

import (
	"os"
	"path/filepath"
	"strings"
)

// Result holds the directories to skip, relative to the walk root, and why.
type Result struct {
	Directories []string
	Reasons     map[string]string
}

// Skips reports whether rel, or any of its parents, is excluded.
func (r *Result) Skips(rel string) bool {
	for _, dir := range r.Directories {
		if rel == dir || strings.HasPrefix(rel, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (r *Result) add(dir, reason string) {
	for _, d := range r.Directories {
		if d == dir {
			return
		}
	}
	r.Directories = append(r.Directories, dir)
	r.Reasons[dir] = reason
}

// alwaysSkipped are directory names never searched for headers.
var alwaysSkipped = map[string]string{
	".doxir": "doxir state directory",
	".git":   "version control metadata",
	".hg":    "version control metadata",
	".svn":   "version control metadata",
}

// marker ties a project file to a sibling dependency directory. The
// directory is excluded only when probe exists inside it.
type marker struct {
	file   string
	dir    string
	probe  string
	reason string
}

var markers = []marker{
	{file: "package.json", dir: "node_modules", reason: "Node.js dependencies (package.json detected)"},
	{file: "Cargo.toml", dir: "target", reason: "Rust build artifacts (Cargo.toml detected)"},
	{file: "go.mod", dir: "vendor", probe: "modules.txt", reason: "Go vendored dependencies (vendor/modules.txt detected)"},
	{file: "composer.json", dir: "vendor", probe: "autoload.php", reason: "PHP Composer dependencies (vendor/autoload.php detected)"},
}

// Detect scans root for directories that hold tooling state or third-party
// dependencies rather than generated documentation. Only file-existence
// checks are used, so a detection is never a guess.
func Detect(root string) *Result {
	result := &Result{Reasons: make(map[string]string)}

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if reason, ok := alwaysSkipped[d.Name()]; ok {
				result.add(rel, reason)
				return filepath.SkipDir
			}
			if result.Skips(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		parent := filepath.Dir(path)
		relParent := filepath.Dir(rel)
		name := d.Name()

		if name == "pyvenv.cfg" && relParent != "." {
			result.add(relParent, "Python virtual environment (pyvenv.cfg detected)")
			return nil
		}
		for _, m := range markers {
			if name != m.file {
				continue
			}
			target := filepath.Join(parent, m.dir)
			if m.probe != "" {
				target = filepath.Join(target, m.probe)
				if !fileExists(target) {
					continue
				}
			} else if !dirExists(target) {
				continue
			}
			result.add(filepath.Join(relParent, m.dir), m.reason)
		}
		return nil
	})

	return result
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
