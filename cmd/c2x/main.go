// Command c2x is the §6 external CLI front end over the core pipeline:
// read a config, parse the configured header(s) with internal/ccoracle,
// run internal/pipeline, and either emit bindings (generate) or print
// diagnostics only (diagnose). Built on cobra, the CLI stack every other
// code-generator repo in the pack reaches for, rather than the teacher's
// bare flag package (SPEC_FULL.md "CLI front end").
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccsurface/c2x/internal/ccoracle"
	"github.com/ccsurface/c2x/internal/config"
	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/emit"
	"github.com/ccsurface/c2x/internal/emit/golang"
	"github.com/ccsurface/c2x/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "c2x",
		Short:         "Generate foreign-language bindings from a C header's abstract surface",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCmd(), newDiagnoseCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var configPath, outputPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the pipeline once and emit bindings for the configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, result, err := runOnce(configPath)
			if err != nil {
				return err
			}
			printDiagnostics(result.Collector)
			if result.Collector.HasErrors() {
				return fmt.Errorf("generate: pipeline reported errors, see diagnostics above")
			}

			emitter := golang.New(strings.ToLower(cfg.ClassName))
			out, err := emitter.Emit(result.TAS, emit.Options{
				ClassName:       cfg.ClassName,
				LibraryName:     cfg.LibraryName,
				EmitSystemTypes: cfg.EmitSystemTypes,
			})
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			if outputPath == "" {
				_, err := os.Stdout.Write(out)
				return err
			}
			return os.WriteFile(outputPath, out, 0o644)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "c2x.json", "path to the JSON pipeline config")
	cmd.Flags().StringVar(&outputPath, "out", "", "output file path (defaults to stdout)")
	return cmd
}

func newDiagnoseCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Parse and run the pipeline, printing diagnostics only (no emission)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := runOnce(configPath)
			if err != nil {
				return err
			}
			printDiagnostics(result.Collector)
			if result.Collector.HasErrors() {
				return fmt.Errorf("diagnose: pipeline reported errors")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "c2x.json", "path to the JSON pipeline config")
	return cmd
}

func runOnce(configPath string) (*config.Config, *pipeline.Result, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	root, err := ccoracle.Open(cfg.InputHeaderPath, cfg.IncludeDirectories)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", cfg.InputHeaderPath, err)
	}

	result, err := pipeline.Run(root, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, result, nil
}

func printDiagnostics(collector *diag.Collector) {
	for _, d := range collector.Items() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
