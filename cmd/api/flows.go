package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xavierca1/rog-store/internal/infra/database"
	"github.com/xavierca1/rog-store/internal/usecase"
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Gerencia os fluxos de automação",
}

var flowsImportCmd = &cobra.Command{
	Use:   "import <arquivo.yaml>",
	Short: "Importa fluxos de um arquivo YAML (fluxos com o mesmo nome são atualizados)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		uc := usecase.NewAutomationUseCase(database.NewAutomationRepository(db), nil, nil, nil, log)
		flows, err := uc.Import(cmd.Context(), data)
		if err != nil {
			return err
		}
		for _, f := range flows {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s (%s, %d passos)\n", f.Name, f.Trigger, len(f.Steps))
		}
		return nil
	},
}

func init() {
	flowsCmd.AddCommand(flowsImportCmd)
}
