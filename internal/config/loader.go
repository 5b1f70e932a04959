package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	file    string
}

// NewLoader creates a configuration loader that searches rootDir for
// imwrap.yml (or imwrap.yaml).
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a configuration loader pinned to an explicit file,
// as selected by the --config flag.
func NewFileLoader(path string) Loader {
	return &loader{file: path}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (IMWRAP_*)
// 2. Config file (imwrap.yml or imwrap.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("imwrap")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("IMWRAP")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., IMWRAP_OUTPUT_DIR)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind scalar keys explicitly so AutomaticEnv sees them even when the
	// config file omits the section.
	bindings := []string{
		"output.dir",
		"output.ffi_header",
		"output.host_source",
		"output.lua_module",
		"library.ffi_prefix",
		"library.type_prefix",
		"library.enum_strip_prefix",
		"library.vec2_pod",
		"library.vec4_pod",
		"library.host_include",
		"library.export_macro",
		"library.windows_macro",
	}
	for _, key := range bindings {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "binding environment variable for %s", key)
		}
	}

	setDefaults(v)

	// Read config file if present. A missing file is fine, defaults apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("output.dir", def.Output.Dir)
	v.SetDefault("output.ffi_header", def.Output.FFIHeader)
	v.SetDefault("output.host_source", def.Output.HostSource)
	v.SetDefault("output.lua_module", def.Output.LuaModule)

	v.SetDefault("library.ffi_prefix", def.Library.FFIPrefix)
	v.SetDefault("library.type_prefix", def.Library.TypePrefix)
	v.SetDefault("library.enum_strip_prefix", def.Library.EnumStripPrefix)
	v.SetDefault("library.vec2_types", def.Library.Vec2Types)
	v.SetDefault("library.vec4_types", def.Library.Vec4Types)
	v.SetDefault("library.vec2_pod", def.Library.Vec2POD)
	v.SetDefault("library.vec4_pod", def.Library.Vec4POD)
	v.SetDefault("library.host_include", def.Library.HostInclude)
	v.SetDefault("library.export_macro", def.Library.ExportMacro)
	v.SetDefault("library.windows_macro", def.Library.WindowsMacro)

	v.SetDefault("skip.names", def.Skip.Names)
	v.SetDefault("skip.usrs", def.Skip.USRs)
	v.SetDefault("skip.constructors", def.Skip.Constructors)

	v.SetDefault("parser.defines", def.Parser.Defines)
	v.SetDefault("parser.strip_macros", def.Parser.StripMacros)
}

// LoadConfig loads configuration from the current directory.
func LoadConfig() (*Config, error) {
	return NewLoader(".").Load()
}

// LoadConfigFromFile loads configuration from an explicit file path.
func LoadConfigFromFile(path string) (*Config, error) {
	return NewFileLoader(path).Load()
}
