// List command for the stratum CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entities in the container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, store, err := loadWorkspace()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		type row struct {
			UID  string `json:"uid"`
			Kind string `json:"kind"`
			Type string `json:"type"`
			Name string `json:"name"`
		}
		var rows []row
		for _, g := range ws.AllGroups() {
			rows = append(rows, row{g.UID().String(), g.Kind().String(), g.EntityType().Name(), g.Name()})
		}
		for _, o := range ws.AllObjects() {
			rows = append(rows, row{o.UID().String(), o.Kind().String(), o.EntityType().Name(), o.Name()})
		}
		for _, d := range ws.AllData() {
			rows = append(rows, row{d.UID().String(), d.Kind().String(), d.EntityType().Name(), d.Name()})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Kind != rows[j].Kind {
				return rows[i].Kind < rows[j].Kind
			}
			return rows[i].Name < rows[j].Name
		})

		if flagJSON {
			out, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				fmt.Fprintln(os.Stderr, "marshal JSON:", err)
				os.Exit(exitSysError)
			}
			fmt.Println(string(out))
			return nil
		}

		for _, r := range rows {
			fmt.Printf("%-36s  %-7s %-10s %s\n", r.UID, r.Kind, r.Type, r.Name)
		}
		fmt.Printf("%d groups, %d objects, %d data, %d types\n",
			len(ws.AllGroups()), len(ws.AllObjects()), len(ws.AllData()), len(ws.AllTypes()))
		return nil
	},
}
