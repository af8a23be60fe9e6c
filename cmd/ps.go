package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mcpd/internal/config"
	"mcpd/internal/probe"
	"mcpd/internal/statestore"
)

// psRow is one service's reported status, shared across the table/json/yaml
// output formats.
type psRow struct {
	Name  string `json:"name" yaml:"name"`
	State string `json:"state" yaml:"state"`
	PID   int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

func newPsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "ps",
		Aliases: []string{"list", "ls"},
		Short:   "Print daemon status and per-service pid/url/state",
		RunE: func(c *cobra.Command, args []string) error {
			return runPs(c, configPath, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table | json | yaml")
	return cmd
}

func runPs(c *cobra.Command, explicitConfigPath, output string) error {
	_, path, err := config.Load(explicitConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := statestore.New(config.StateFilePath(path))
	all, err := store.Load()
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]psRow, 0, len(names))
	for _, name := range names {
		st := all[name]
		state := st.State
		if st.PID != 0 && !probe.Alive(st.PID) {
			state = statestore.StateStopped
		}
		rows = append(rows, psRow{Name: name, State: state, PID: st.PID, URL: st.URL})
	}

	switch output {
	case "json":
		return writePsJSON(c, rows)
	case "yaml":
		return writePsYAML(c, rows)
	default:
		writePsTable(c, rows)
		return nil
	}
}

func writePsTable(c *cobra.Command, rows []psRow) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(c.OutOrStdout())
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("STATE"),
		text.FgHiCyan.Sprint("PID"),
		text.FgHiCyan.Sprint("URL"),
	})
	for _, r := range rows {
		pid := ""
		if r.PID != 0 {
			pid = fmt.Sprintf("%d", r.PID)
		}
		t.AppendRow(table.Row{r.Name, r.State, pid, r.URL})
	}
	t.Render()
}

func writePsJSON(c *cobra.Command, rows []psRow) error {
	encoded, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(c.OutOrStdout(), string(encoded))
	return nil
}

func writePsYAML(c *cobra.Command, rows []psRow) error {
	encoded, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	fmt.Fprint(c.OutOrStdout(), string(encoded))
	return nil
}
