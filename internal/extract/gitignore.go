package extract

import (
	"os"
	"path/filepath"
	"strings"

	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// dirsForRel returns the list of directories from "." to the directory of rel.
func dirsForRel(rel string) []string {
	dir := filepath.Dir(rel)
	parts := []string{}
	if dir != "." {
		parts = strings.Split(dir, string(os.PathSeparator))
	}
	cur := "."
	dirs := []string{"."}
	for _, part := range parts {
		if cur == "." {
			cur = part
		} else {
			cur = filepath.Join(cur, part)
		}
		dirs = append(dirs, cur)
	}
	return dirs
}

// gitignore caches the patterns of every .gitignore file read during a scan.
type gitignore struct {
	root     string
	patterns map[string][]gitgitignore.Pattern
}

func newGitignore(root string) *gitignore {
	return &gitignore{root: root, patterns: map[string][]gitgitignore.Pattern{}}
}

func (g *gitignore) dirPatterns(d string) []gitgitignore.Pattern {
	if ps, ok := g.patterns[d]; ok {
		return ps
	}
	var ps []gitgitignore.Pattern
	b, err := os.ReadFile(filepath.Join(g.root, d, ".gitignore"))
	if err == nil {
		base := []string{}
		if d != "." && d != "" {
			base = strings.Split(filepath.ToSlash(d), "/")
		}
		for _, line := range strings.Split(string(b), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ps = append(ps, gitgitignore.ParsePattern(line, base))
		}
	}
	g.patterns[d] = ps
	return ps
}

// match reports whether rel (relative to the scan root) is ignored.
func (g *gitignore) match(rel string, isDir bool) bool {
	var patterns []gitgitignore.Pattern
	for _, d := range dirsForRel(rel) {
		patterns = append(patterns, g.dirPatterns(d)...)
	}
	if len(patterns) == 0 {
		return false
	}
	comps := strings.Split(filepath.ToSlash(rel), "/")
	return gitgitignore.NewMatcher(patterns).Match(comps, isDir)
}
