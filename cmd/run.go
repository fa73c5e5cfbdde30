// sconce run [program] [args...]
package cmd

import (
	"github.com/sconce-build/sconce/internal/msg"
	"github.com/sconce-build/sconce/internal/toolchain"
	"github.com/spf13/cobra"
)

var flagRunDebug bool

func doRun(cmd *cobra.Command, args []string) {
	name := ""
	if len(args) > 0 {
		name = args[0]
		args = args[1:] // other arguments will be passed to the program
	}

	variant := toolchain.Release
	if flagRunDebug {
		variant = toolchain.Debug
	}

	b := newBuilder(nil)
	if err := b.BuildAndRun(name, args, variant, flagGenerator.Value()); err != nil {
		msg.Fatal("%v", err)
	}
}

var runCmd = &cobra.Command{
	Use:   "run [program] [args...]",
	Short: "Build everything, then run one program",
	Long: `Build everything, then run the named program from the current
directory's manifest. If no program is named, runs the first one.`,
	Args: cobra.ArbitraryArgs,
	Run:  doRun,
}

func init() {
	// sconce run subcommand
	rootCmd.AddCommand(runCmd)
	addBuildFlags(runCmd)
	runCmd.Flags().BoolVarP(&flagRunDebug, "debug", "d", false, "Run the debug variant instead of release")
}
