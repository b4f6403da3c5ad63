// Command flowcfg-admin is an interactive TUI for browsing a resolved
// configuration database, built as a cobra command tree with a
// bubbletea-driven browse subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcfg/flowcfg/pkg/cfgdb"
	"github.com/flowcfg/flowcfg/pkg/loader"
)

var projectDir string

func main() {
	root := &cobra.Command{
		Use:   "flowcfg-admin",
		Short: "Inspect and browse a layered configuration database",
	}
	root.PersistentFlags().StringVar(&projectDir, "project", ".", "project directory to load")

	root.AddCommand(dumpCmd())
	root.AddCommand(browseCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDB() (*cfgdb.DB, error) {
	db := cfgdb.New()
	builtins, err := loader.LoadFromDefaults(projectDir)
	if err != nil {
		return nil, err
	}
	db.UpdateBuiltins(builtins)

	project, err := loader.LoadFromPaths([]string{
		projectDir + "/flowcfg.yml",
		projectDir + "/flowcfg.json",
	}, false)
	if err != nil {
		return nil, err
	}
	db.UpdateProject(project)
	return db, nil
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the fully resolved configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB()
			if err != nil {
				return err
			}
			out, err := db.DumpJSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open an interactive browser over the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB()
			if err != nil {
				return err
			}
			return runBrowser(db)
		},
	}
}
