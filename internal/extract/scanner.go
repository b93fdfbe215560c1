package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/ngc-helper/internal/config"
	"github.com/flarebyte/ngc-helper/internal/ctxlog"
	"github.com/flarebyte/ngc-helper/internal/syntax"
)

// Options controls which paths are visited and which decorator matches.
type Options struct {
	Decorator        string
	SourceSuffixes   []string
	TestSuffixes     []string
	ExcludeDirs      []string
	RespectGitignore bool
}

// OptionsFromConfig maps the extractor config section onto Options.
func OptionsFromConfig(c config.Extractor) Options {
	return Options{
		Decorator:        c.Decorator,
		SourceSuffixes:   append([]string(nil), c.SourceSuffixes...),
		TestSuffixes:     append([]string(nil), c.TestSuffixes...),
		ExcludeDirs:      append([]string(nil), c.ExcludeDirs...),
		RespectGitignore: c.RespectGitignore,
	}
}

// Scanner walks a directory tree and extracts components from every
// eligible source file. A Scanner is not safe for concurrent use.
type Scanner struct {
	opts   Options
	parser *syntax.Parser
}

// NewScanner returns a Scanner for opts.
func NewScanner(opts Options) *Scanner {
	return &Scanner{opts: opts, parser: syntax.NewParser()}
}

// Close releases the parser.
func (s *Scanner) Close() {
	s.parser.Close()
}

// Scan walks root depth-first. Failures on individual files or directories
// are recorded in Result.Errors and never stop the walk; the returned error
// is non-nil only when ctx is done.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	w := &walker{
		ctx:     ctx,
		scanner: s,
		root:    root,
		visited: map[string]struct{}{},
		result:  NewResult(),
	}
	if s.opts.RespectGitignore {
		w.ignore = newGitignore(root)
	}
	log := ctxlog.FromContext(ctx)
	log.Debug("scan started", "root", root)
	w.walkDir(root)
	log.Debug("scan finished", "components", len(w.result.Components), "errors", len(w.result.Errors))
	return w.result, ctx.Err()
}

func (s *Scanner) isExcludedDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ex := range s.opts.ExcludeDirs {
		if name == ex {
			return true
		}
	}
	return false
}

func (s *Scanner) isSourceFile(name string) bool {
	for _, suffix := range s.opts.TestSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	for _, suffix := range s.opts.SourceSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

type walker struct {
	ctx     context.Context
	scanner *Scanner
	root    string
	ignore  *gitignore
	visited map[string]struct{}
	result  Result
}

func (w *walker) walkError(p string, err error) {
	w.result.Errors = append(w.result.Errors, fmt.Sprintf("Error walking %s: %v", p, err))
}

func (w *walker) fileError(p string, err error) {
	w.result.Errors = append(w.result.Errors, fmt.Sprintf("Error in %s: %v", p, err))
}

func (w *walker) ignored(p string, isDir bool) bool {
	if w.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return false
	}
	return w.ignore.match(rel, isDir)
}

func (w *walker) walkDir(dirPath string) {
	if w.ctx.Err() != nil {
		return
	}
	canonDir, err := filepath.EvalSymlinks(dirPath)
	if err != nil {
		w.walkError(dirPath, err)
		return
	}
	if _, ok := w.visited[canonDir]; ok {
		return
	}
	w.visited[canonDir] = struct{}{}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		w.walkError(dirPath, err)
		return
	}
	for _, ent := range entries {
		name := ent.Name()
		childPath := filepath.Join(dirPath, name)
		// Stat follows symlinks, so linked directories are walked too.
		info, err := os.Stat(childPath)
		if err != nil {
			w.walkError(childPath, err)
			continue
		}
		if info.IsDir() {
			if w.scanner.isExcludedDir(name) || w.ignored(childPath, true) {
				continue
			}
			w.walkDir(childPath)
			continue
		}
		if !w.scanner.isSourceFile(name) || w.ignored(childPath, false) {
			continue
		}
		w.scanFile(childPath)
	}
}

func (w *walker) scanFile(p string) {
	src, err := os.ReadFile(p)
	if err != nil {
		w.fileError(p, err)
		return
	}
	f, err := w.scanner.parser.Parse(w.ctx, p, src)
	if err != nil {
		ctxlog.FromContext(w.ctx).Debug("parse failed", "path", p, "err", err)
		w.fileError(p, err)
		return
	}
	w.result.Components = append(w.result.Components, Components(w.ctx, f, w.scanner.opts.Decorator, p)...)
}
