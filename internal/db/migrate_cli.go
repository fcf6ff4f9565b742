package db

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching.
func RunMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}
	action := args[0]

	// Open without schema initialization; migrations own the schema.
	database, err := OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch action {
	case "up":
		log.Printf("Running migrations...")
		if err := database.MigrateUp(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("All migrations applied successfully")

	case "down":
		log.Printf("Rolling back one migration...")
		if err := database.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Migration rolled back successfully")

	case "status":
		version, dirty, err := database.MigrateVersion()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Printf("Current version: %d\n", version)
		fmt.Printf("Dirty: %v\n", dirty)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: chexbench migrate force <version_number>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version number %q: %v", args[1], err)
		}
		if err := database.MigrateForce(version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		log.Printf("Forced version to %d", version)

	case "help":
		PrintMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp()
		os.Exit(1)
	}
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Println("Usage: chexbench migrate <action>")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  up               apply all pending migrations")
	fmt.Println("  down             roll back the most recent migration")
	fmt.Println("  status           show current version and dirty state")
	fmt.Println("  force <version>  force the version (dirty-state recovery)")
}
