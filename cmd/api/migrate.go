package main

import (
	"github.com/spf13/cobra"
	"github.com/xavierca1/rog-store/internal/infra/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica ou desfaz as migrations do banco",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas as migrations pendentes",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closeDB, err := migrator()
		if err != nil {
			return err
		}
		defer closeDB()
		return m.Up()
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Desfaz a última migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closeDB, err := migrator()
		if err != nil {
			return err
		}
		defer closeDB()
		return m.Down()
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func migrator() (*database.Migrator, func(), error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	m, err := database.NewMigrator(db, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return m, func() { db.Close() }, nil
}
