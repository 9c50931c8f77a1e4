package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/lastbite/config"
	"github.com/shashiranjanraj/lastbite/database/seeders"
	"github.com/shashiranjanraj/lastbite/pkg/database"
	"github.com/shashiranjanraj/lastbite/pkg/migration"
	"github.com/shashiranjanraj/lastbite/pkg/mongodb"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// lastbite migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(database.DB).Run()
	},
}

// lastbite migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB).Rollback()
	},
}

// lastbite migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// lastbite seed — demo vendors and catalog, plus emission reference data
// when MongoDB is configured.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if config.MongoURI() != "" {
			if err := mongodb.Connect(); err != nil {
				fmt.Printf("⚠️  %v (skipping emission seeder)\n", err)
			} else {
				defer mongodb.Close()
			}
		}
		fmt.Println("Seeding…")
		return seeders.Run()
	},
}
