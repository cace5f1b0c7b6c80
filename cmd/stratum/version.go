// Version command for the stratum CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stratum/pkg/stratum"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stratum version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("stratum", stratum.Version)
	},
}
