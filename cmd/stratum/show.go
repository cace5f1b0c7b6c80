// Show command for the stratum CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stratum/pkg/workspace"
)

var showCmd = &cobra.Command{
	Use:   "show <uid>",
	Short: "Display an entity with full details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "show: invalid uid %q\n", args[0])
			os.Exit(exitUserError)
		}

		ws, store, err := loadWorkspace()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		entity := ws.FindEntity(uid)
		if entity == nil {
			fmt.Fprintf(os.Stderr, "entity %q not found\n", uid)
			os.Exit(exitUserError)
		}

		if flagJSON {
			output := map[string]any{
				"uid":  entity.UID().String(),
				"kind": entity.Kind().String(),
				"type": entity.EntityType().Name(),
				"name": entity.Name(),
			}
			if parent := entity.Parent(); parent != nil {
				output["parent"] = parent.UID().String()
			}
			children := entity.Children()
			if len(children) > 0 {
				uids := make([]string, len(children))
				for i, c := range children {
					uids[i] = c.UID().String()
				}
				output["children"] = uids
			}
			if obj, ok := entity.(*workspace.Object); ok {
				output["vertices"] = len(obj.Vertices())
				if oct, ok := obj.Octree(); ok {
					if n, err := oct.NumCells(); err == nil {
						output["octree_cells"] = n
					}
				}
			}
			if data, ok := entity.(*workspace.Data); ok {
				output["association"] = data.Association()
				output["values"] = len(data.Values())
			}
			out, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				fmt.Fprintln(os.Stderr, "marshal JSON:", err)
				os.Exit(exitSysError)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("UID:    %s\n", entity.UID())
		fmt.Printf("Kind:   %s\n", entity.Kind())
		fmt.Printf("Type:   %s\n", entity.EntityType().Name())
		fmt.Printf("Name:   %s\n", entity.Name())
		if parent := entity.Parent(); parent != nil {
			fmt.Printf("Parent: %s (%s)\n", parent.Name(), parent.UID())
		}

		if obj, ok := entity.(*workspace.Object); ok {
			fmt.Printf("Vertices: %d\n", len(obj.Vertices()))
			for _, pg := range obj.PropertyGroups() {
				fmt.Printf("Property group: %s (%d properties)\n", pg.Name(), len(pg.Properties()))
			}
			if oct, ok := obj.Octree(); ok {
				if shape, complete := oct.Shape(); complete {
					n, err := oct.NumCells()
					if err != nil {
						fmt.Fprintln(os.Stderr, "octree cells:", err)
						os.Exit(exitSysError)
					}
					fmt.Printf("Octree: %dx%dx%d, %d cells\n", shape[0], shape[1], shape[2], n)
				} else {
					fmt.Println("Octree: geometry incomplete")
				}
			}
		}
		if data, ok := entity.(*workspace.Data); ok {
			fmt.Printf("Association: %s\n", data.Association())
			fmt.Printf("Values:      %d\n", len(data.Values()))
		}

		children := entity.Children()
		if len(children) > 0 {
			fmt.Println("\nChildren:")
			for _, c := range children {
				fmt.Printf("  %s  %s\n", c.UID(), c.Name())
			}
		}

		return nil
	},
}
