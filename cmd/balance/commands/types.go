package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwyatt/balance/internal/config"
	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/task"
	"github.com/mwyatt/balance/internal/task/builtin"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered task types",
	Long: `List the registered task types: the built-ins plus every plugin artifact
found in the task types directory, with constructor signatures and editable
fields.

Use --json to output as JSON for scripting.`,
	RunE: runTypes,
}

func init() {
	typesCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(typesCmd)
}

// typeInfo is the JSON shape of one descriptor.
type typeInfo struct {
	Name         string     `json:"name"`
	Constructors [][]string `json:"constructors"`
	Fields       []struct {
		Name     string `json:"name"`
		Kind     string `json:"kind"`
		Editable bool   `json:"editable"`
	} `json:"fields"`
}

func runTypes(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, _ := config.Load(cfgPath)

	reg := registry.New()
	builtin.RegisterAll(reg)
	_, loadErrs := reg.LoadDir(cfg.TaskTypesDir)
	for _, err := range loadErrs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	types := reg.Types()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		infos := make([]typeInfo, 0, len(types))
		for _, t := range types {
			infos = append(infos, describeType(t))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCONSTRUCTORS\tEDITABLE FIELDS")
	for _, t := range types {
		var ctors []string
		for _, c := range t.Ctors {
			ctors = append(ctors, "("+kindList(c.Params)+")")
		}
		var editable []string
		for _, f := range t.Fields {
			if f.Editable {
				editable = append(editable, f.Name)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, strings.Join(ctors, " "), strings.Join(editable, ", "))
	}
	return w.Flush()
}

func describeType(t *task.Type) typeInfo {
	info := typeInfo{Name: t.Name}
	for _, c := range t.Ctors {
		params := make([]string, len(c.Params))
		for i, k := range c.Params {
			params[i] = k.String()
		}
		info.Constructors = append(info.Constructors, params)
	}
	for _, f := range t.Fields {
		info.Fields = append(info.Fields, struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			Editable bool   `json:"editable"`
		}{f.Name, f.Kind.String(), f.Editable})
	}
	return info
}

func kindList(kinds []task.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
