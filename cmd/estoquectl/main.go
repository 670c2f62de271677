// estoquectl tareas operativas: migraciones, primera cuenta admin, reporte de estoque bajo e importación de productos.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "estoquectl",
	Short:         "Ferramentas operacionais da Estoque API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Base de datos
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateStatusCmd)

	// Cuentas
	rootCmd.AddCommand(bootstrapAdminCmd)

	// Estoque
	rootCmd.AddCommand(lowStockCmd)
	rootCmd.AddCommand(importProductsCmd)
}
