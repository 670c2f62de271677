package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
)

// estoquectl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica as migrações SQL pendentes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		applied, err := postgres.NewMigrator(e.pool, e.log).Up(cmd.Context())
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nada a migrar.")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "aplicada:", name)
		}
		return nil
	},
}

// estoquectl migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Mostra o estado de cada migração",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		list, err := postgres.NewMigrator(e.pool, e.log).Status(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MIGRAÇÃO\tAPLICADA EM")
		for _, m := range list {
			at := "pendente"
			if m.AppliedAt != nil {
				at = m.AppliedAt.Local().Format("02/01/2006 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\n", m.Name, at)
		}
		return w.Flush()
	},
}
