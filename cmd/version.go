package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabric-ops/vrfctl/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Current())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
