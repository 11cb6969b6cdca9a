package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/autopro-kz/autopro/internal/interfaces/cli/migrate"
	"github.com/autopro-kz/autopro/internal/interfaces/cli/seed"
	"github.com/autopro-kz/autopro/internal/interfaces/cli/server"
)

//	@title						AutoPro API
//	@version					1.0
//	@description				Car rental marketplace: owner subscriptions, payments and listings.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
func main() {
	rootCmd := &cobra.Command{
		Use:   "autopro",
		Short: "AutoPro - car rental marketplace backend",
		Long:  `AutoPro serves the marketplace API, manages the database schema and loads reference data.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
