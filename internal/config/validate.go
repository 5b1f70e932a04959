package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
)

// Validation errors returned by Validate. Multiple failures are collected
// into a single error listing every problem.
var (
	ErrEmptyOutputDir   = errors.New("output dir must not be empty")
	ErrEmptyOutputFile  = errors.New("output file name must not be empty")
	ErrEmptyFFIPrefix   = errors.New("library ffi_prefix must not be empty")
	ErrNoVectorTypes    = errors.New("library vector type list must name at least one type")
	ErrEmptyPODName     = errors.New("library POD mirror type must not be empty")
	ErrEmptyExportMacro = errors.New("library export_macro must not be empty")
	ErrEmptyHostInclude = errors.New("library host_include must not be empty")
	ErrBadSkipPattern   = errors.New("skip name pattern does not compile")
)

// Validate checks a configuration for values the generator cannot work with.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Output.Dir == "" {
		errs = append(errs, ErrEmptyOutputDir)
	}
	for _, name := range []string{cfg.Output.FFIHeader, cfg.Output.HostSource, cfg.Output.LuaModule} {
		if name == "" {
			errs = append(errs, ErrEmptyOutputFile)
			break
		}
	}

	if cfg.Library.FFIPrefix == "" {
		errs = append(errs, ErrEmptyFFIPrefix)
	}
	if len(cfg.Library.Vec2Types) == 0 {
		errs = append(errs, errors.Wrap(ErrNoVectorTypes, "vec2_types"))
	}
	if len(cfg.Library.Vec4Types) == 0 {
		errs = append(errs, errors.Wrap(ErrNoVectorTypes, "vec4_types"))
	}
	if cfg.Library.Vec2POD == "" {
		errs = append(errs, errors.Wrap(ErrEmptyPODName, "vec2_pod"))
	}
	if cfg.Library.Vec4POD == "" {
		errs = append(errs, errors.Wrap(ErrEmptyPODName, "vec4_pod"))
	}
	if cfg.Library.ExportMacro == "" {
		errs = append(errs, ErrEmptyExportMacro)
	}
	if cfg.Library.HostInclude == "" {
		errs = append(errs, ErrEmptyHostInclude)
	}

	for _, pattern := range cfg.Skip.Names {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, errors.Wrapf(ErrBadSkipPattern, "%q", pattern))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = "  - " + err.Error()
	}
	return errors.Newf("validation failed:\n%s", strings.Join(parts, "\n"))
}
