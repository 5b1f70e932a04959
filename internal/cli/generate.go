package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/hexaforge/imwrap/internal/config"
	"github.com/hexaforge/imwrap/internal/cppast"
	"github.com/hexaforge/imwrap/internal/gen"
	"github.com/hexaforge/imwrap/internal/logging"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <header>",
	Short: "Generate FFI binding artifacts from a C++ header",
	Long: `Generate parses the given C++ library header and writes the three
binding artifacts into the configured output directory: the C declaration
header, the host export source and the Lua wrapper module.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runGenerate(cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cfg *config.Config, headerPath string) error {
	log := logging.Named("cli")
	log.Infow("generating bindings", "header", headerPath, "output", cfg.Output.Dir)

	unit, err := cppast.ParseFile(headerPath, cppast.Options{
		Defines:     cfg.Parser.Defines,
		StripMacros: cfg.Parser.StripMacros,
	})
	if err != nil {
		return err
	}

	generator, err := gen.New(unit, cfg)
	if err != nil {
		return err
	}
	reporter := NewGenProgressReporter(jsonLogs)
	generator.OnProgress(reporter.OnDeclaration)

	artifacts, err := generator.Run()
	if err != nil {
		return err
	}
	reporter.Finish()

	if err := writeArtifacts(cfg, artifacts); err != nil {
		return err
	}

	fmt.Println("SUCCESS!")
	fmt.Printf("Generated bindings are in %s\n", cfg.Output.Dir)
	return nil
}

func writeArtifacts(cfg *config.Config, a *gen.Artifacts) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", cfg.Output.Dir)
	}
	outputs := []struct {
		name string
		data []byte
	}{
		{cfg.Output.FFIHeader, a.FFIHeader},
		{cfg.Output.HostSource, a.HostSource},
		{cfg.Output.LuaModule, a.LuaModule},
	}
	for _, out := range outputs {
		path := filepath.Join(cfg.Output.Dir, out.name)
		if err := os.WriteFile(path, out.data, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}
