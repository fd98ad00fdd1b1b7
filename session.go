// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package gradual

import (
	"log/slog"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/astutil"
	"github.com/wdamron/gradual/merge"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// Session checks a set of modules against a shared symbol store, and rechecks individual modules as
// they change. Each module version is committed to the store only once it has been fully analyzed
// and merged with its previous version; when a recheck fails, the previous version remains current.
//
// The methods of a Session may be called concurrently; checks are serialized.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	log     *slog.Logger
	alloc   *symtab.Allocator
	store   *symtab.Store
	modules map[string]*ast.Module
	results map[string]*Result
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. By default, records below the configured level are discarded and the
// rest are written to stderr.
func WithLogger(log *slog.Logger) Option { return func(s *Session) { s.log = log } }

// WithConfig sets the checker configuration.
func WithConfig(cfg Config) Option { return func(s *Session) { s.cfg = cfg } }

// WithAllocator sets the allocator of identity tokens.
func WithAllocator(alloc *symtab.Allocator) Option { return func(s *Session) { s.alloc = alloc } }

// NewSession creates a session and checks the builtins module.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		cfg:     DefaultConfig(),
		store:   symtab.NewStore(),
		modules: make(map[string]*ast.Module),
		results: make(map[string]*Result),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "new session")
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.cfg.Level()}))
	}
	if s.alloc == nil {
		s.alloc = symtab.NewAllocator()
	}
	if _, _, err := s.check(Builtins()); err != nil {
		return nil, errors.Wrap(err, "check builtins")
	}
	return s, nil
}

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Store returns the symbol store holding the current version of each checked module.
func (s *Session) Store() *symtab.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Result returns the result of the last successful check of a module, or nil.
func (s *Session) Result(module string) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[module]
}

// Check checks modules in dependency order: each module is checked after the modules it imports.
// Modules which import each other are checked in the given order. The results are returned in the
// order the modules were checked. Checking stops at the first module which cannot be committed.
func (s *Session) Check(modules ...*ast.Module) ([]*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph := astutil.NewImportGraph(modules)
	results := make([]*Result, 0, len(modules))
	for _, scc := range graph.Order() {
		if len(scc) > 1 {
			names := make([]string, len(scc))
			for i, m := range scc {
				names[i] = m.Name
			}
			s.log.Debug("import cycle", "modules", names)
		}
		for _, m := range scc {
			res, _, err := s.check(m)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// Recheck checks a new version of a previously checked module. Symbols which are unchanged keep
// their identities; the report describes the changes. If the new version cannot be merged, the
// previous version remains current and an error is returned.
func (s *Session) Recheck(m *ast.Module) (*Result, *merge.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check(m)
}

func (s *Session) check(m *ast.Module) (*Result, *merge.Report, error) {
	s.log.Debug("checking module", "module", m.Name)
	res := newChecker(s.cfg, s.log, s.alloc, s.store, m).analyze()
	s.log.Debug("checked module", "module", m.Name, "errors", len(res.Diagnostics.Errors()), "diagnostics", len(res.Diagnostics))

	var report *merge.Report
	if old := s.store.Module(m.Name); old != nil {
		var err error
		if report, err = merge.Merge(s.alloc, old, res.Table); err != nil {
			s.log.Warn("keeping previous module version", "module", m.Name, "err", err)
			return nil, nil, errors.Wrapf(err, "merge %s", m.Name)
		}
		for e, t := range res.Types {
			res.Types[e] = types.RemapIDs(t, report.ID)
		}
		for _, sym := range res.nested {
			sym.Type = types.RemapIDs(sym.Type, report.ID)
		}
		s.log.Debug("merged module", "module", m.Name, "preserved", len(report.Preserved), "changed", len(report.Changed),
			"added", len(report.Added), "removed", len(report.Removed))
	}
	if err := s.store.Commit(res.Table); err != nil {
		s.log.Warn("keeping previous module version", "module", m.Name, "err", err)
		return nil, nil, errors.Wrapf(err, "commit %s", m.Name)
	}
	s.modules[m.Name] = m
	s.results[m.Name] = res
	return res, report, nil
}

// Dependents returns the names of the checked modules which import the named module, directly or
// transitively.
func (s *Session) Dependents(module string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	modules := make([]*ast.Module, len(names))
	for i, name := range names {
		modules[i] = s.modules[name]
	}
	return astutil.NewImportGraph(modules).Dependents(module)
}
