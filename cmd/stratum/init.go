// Init command for the stratum CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stratum/pkg/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a stratum container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureConfigDir(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		// Seed a fresh container with an empty workspace so a later load
		// finds a root group. Re-running init on an existing container
		// leaves its entities alone.
		existing, err := store.LoadEntities()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if len(existing) == 0 {
			ws := workspace.New()
			ws.SetStore(store)
			if err := ws.Finalize(); err != nil {
				fmt.Fprintln(os.Stderr, "init:", err)
				os.Exit(exitSysError)
			}
		}

		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Stratum container initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
