package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	authz "github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
)

// estoquectl low-stock
var lowStockCmd = &cobra.Command{
	Use:   "low-stock",
	Short: "Lista os produtos com estoque no mínimo ou abaixo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		uc := report.NewUseCase(postgres.NewProductRepository(e.pool), postgres.NewOrderRepository(e.pool), nil, 0, e.log)
		list, err := uc.LowStock(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUTO\tATUAL\tMÍNIMO\tUNIDADE")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.CurrentStock.String(), p.MinimumStock.String(), p.Unit)
		}
		return w.Flush()
	},
}

var importFlags struct {
	as     string
	latin1 bool
	dryRun bool
}

// estoquectl import-products produtos.csv
var importProductsCmd = &cobra.Command{
	Use:   "import-products <arquivo.csv>",
	Short: "Importa produtos de um CSV (nome;unidade;categoria;estoque_minimo;estoque_atual)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := parseProductsCSV(f, importFlags.latin1)
		if err != nil {
			return err
		}
		if importFlags.dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "%d produtos válidos\n", len(rows))
			return nil
		}

		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		users := postgres.NewUserRepository(e.pool)
		user, err := users.GetByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(importFlags.as)))
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("usuário %q não encontrado", importFlags.as)
		}
		// el estoque inicial queda registrado a nombre de este usuario
		actor := authz.NewActor(user.ID, user.SectorID, user.Roles)
		if !actor.CanManageProducts() {
			return fmt.Errorf("usuário %q não pode cadastrar produtos", importFlags.as)
		}

		ledger := inventory.NewLedgerUseCase(postgres.NewTxRunner(e.pool), postgres.NewStockMovementRepository(e.pool), nil, nil, e.log)
		products := inventory.NewProductUseCase(postgres.NewProductRepository(e.pool), ledger, e.log)
		for i, in := range rows {
			if _, err := products.Create(cmd.Context(), actor, in); err != nil {
				return fmt.Errorf("produto %d (%s): %w", i+1, in.Name, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d produtos importados\n", len(rows))
		return nil
	},
}

func init() {
	f := importProductsCmd.Flags()
	f.StringVar(&importFlags.as, "as", "", "email do usuário responsável pela importação")
	f.BoolVar(&importFlags.latin1, "latin1", false, "arquivo em ISO-8859-1 (exportação de planilhas antigas)")
	f.BoolVar(&importFlags.dryRun, "dry-run", false, "só valida o arquivo")
	_ = importProductsCmd.MarkFlagRequired("as")
}
