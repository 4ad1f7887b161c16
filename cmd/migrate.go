package cmd

import (
	"log"

	"github.com/mikann/photo-gallery/config"
	"github.com/mikann/photo-gallery/database/dbcore"
	"github.com/spf13/cobra"
)

// migrateCmd applies the database schema and exits.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()

		db, err := dbcore.Open(config.Get())
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer dbcore.Close(db)

		if err := dbcore.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Database schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
