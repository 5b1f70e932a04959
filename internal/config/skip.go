package config

import (
	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
)

// Skips holds the compiled form of SkipConfig, ready for matching against
// declaration names and unified symbol references.
type Skips struct {
	names        []glob.Glob
	usrs         map[string]struct{}
	constructors map[string]struct{}
}

// CompileSkips compiles the skip configuration into matchers. Name entries
// are glob patterns; a plain name is a pattern matching only itself.
func CompileSkips(cfg *SkipConfig) (*Skips, error) {
	s := &Skips{
		usrs:         make(map[string]struct{}, len(cfg.USRs)),
		constructors: make(map[string]struct{}, len(cfg.Constructors)),
	}
	for _, pattern := range cfg.Names {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling skip pattern %q", pattern)
		}
		s.names = append(s.names, g)
	}
	for _, usr := range cfg.USRs {
		s.usrs[usr] = struct{}{}
	}
	for _, name := range cfg.Constructors {
		s.constructors[name] = struct{}{}
	}
	return s, nil
}

// MatchName reports whether a declaration name is skipped.
func (s *Skips) MatchName(name string) bool {
	for _, g := range s.names {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// MatchUSR reports whether a unified symbol reference is skipped.
func (s *Skips) MatchUSR(usr string) bool {
	_, ok := s.usrs[usr]
	return ok
}

// SkipConstructor reports whether a struct's Lua factory functions are
// suppressed.
func (s *Skips) SkipConstructor(structName string) bool {
	_, ok := s.constructors[structName]
	return ok
}
