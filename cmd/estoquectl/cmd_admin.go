package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-api/internal/application/access"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
)

var adminFlags struct {
	email    string
	password string
	name     string
}

// estoquectl bootstrap-admin --email --password --name
var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Cria a primeira conta admin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		uc := access.NewAccountUseCase(postgres.NewTxRunner(e.pool), postgres.NewUserRepository(e.pool), access.JWTConfig{
			Secret:     e.cfg.JWT.Secret,
			ExpMinutes: e.cfg.JWT.Expiration,
			Issuer:     e.cfg.JWT.Issuer,
		}, e.log)
		user, err := uc.BootstrapAdmin(cmd.Context(), adminFlags.email, adminFlags.password, adminFlags.name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin criado: %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	f := bootstrapAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "email do admin")
	f.StringVar(&adminFlags.password, "password", "", "senha (mínimo 6 caracteres)")
	f.StringVar(&adminFlags.name, "name", "Administrador", "nome completo")
	_ = bootstrapAdminCmd.MarkFlagRequired("email")
	_ = bootstrapAdminCmd.MarkFlagRequired("password")
}
