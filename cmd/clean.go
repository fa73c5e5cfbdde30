// sconce clean [path]
package cmd

import (
	"github.com/sconce-build/sconce/internal/msg"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [project path]",
	Short: "Remove the build tree",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b := newBuilder(args)
		if err := b.Clean(); err != nil {
			msg.Fatal("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
