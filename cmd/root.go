// sconce [path], sconce build [path]
package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sconce-build/sconce/internal/builder"
	"github.com/sconce-build/sconce/internal/msg"
	"github.com/spf13/cobra"
)

var (
	flagCompiler        string
	flagCompilerCommand string
	flagVerbose         bool
	flagJobs            int
	flagGenerator       = NewEnumValue(builder.GeneratorNative, map[string]string{
		builder.GeneratorNative: "Build with sconce's own builder (default)",
		builder.GeneratorNinja:  "Generate a build.ninja file and run ninja",
	})
)

func newBuilder(args []string) *builder.Builder {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	b, err := builder.NewBuilderInDirectory(target)
	if err != nil {
		msg.Fatal("%v", err)
	}
	b.Compiler = flagCompiler
	b.CompilerCommand = flagCompilerCommand
	b.Verbose = flagVerbose
	if flagJobs > 0 {
		b.Jobs = flagJobs
	}
	return b
}

func doBuild(cmd *cobra.Command, args []string) {
	b := newBuilder(args)
	if err := b.Build(flagGenerator.Value()); err != nil {
		msg.Fatal("%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sconce [project path]",
	Short: "Compiler- and variant-aware build tool for C++ projects",
	Long: `Sconce reads a Sconce.toml manifest, resolves the active compiler
(gcc or clang family), assembles per-variant flag sets and builds every
declared program in both debug and release variants.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build [project path]",
	Short: "Build every program in the manifest",
	Long:  `Build every program in the manifest. If no project path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doBuild,
}

func init() {
	addBuildFlags(rootCmd)

	// sconce build subcommand
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCompiler, "compiler", "", "Name of the compiler to use (gcc, g++, clang, clang++)")
	cmd.Flags().StringVar(&flagCompilerCommand, "compiler-command", "", "Command to launch the compiler")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print the full compiler invocations")
	cmd.Flags().IntVarP(&flagJobs, "jobs", "j", runtime.NumCPU(), "Number of parallel build jobs")
	cmd.Flags().VarP(&flagGenerator, "gen", "g", "Build backend, one of "+flagGenerator.HelpString())
	cmd.RegisterFlagCompletionFunc("gen", flagGenerator.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
