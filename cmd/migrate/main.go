package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"clearcheck/config"
	"clearcheck/internal/repository"
	"clearcheck/pkg/database"
)

const usage = `
ClearCheck - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run schema migrations
  status      Show database connection status
  seed        Seed the database with demo orders and clocks
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -customers int  Number of demo customers to seed (default 3)
  -per-stage int  Demo orders per lifecycle stage (default 2)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed -customers 5
  go run cmd/migrate/main.go truncate
`

func main() {
	customers := flag.Int("customers", 3, "Number of demo customers to seed")
	perStage := flag.Int("per-stage", 2, "Demo orders per lifecycle stage")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	database.Connect(cfg)
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	case "seed":
		runSeed(*customers, *perStage)
	case "truncate":
		runTruncate()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp() {
	log.Println("Running migrations...")

	if err := repository.InitSchema(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus() {
	log.Println("Checking database status...")

	if err := database.HealthCheck(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"orders", "sla_clocks", "domain_events", "projection_checkpoints", "order_summaries", "sla_dashboard"}
	for _, table := range tables {
		exists, err := database.TableExists(table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.GetTableCount(table)
			log.Printf("Table %-24s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-24s does not exist", table)
		}
	}
}

func runSeed(customers, perStage int) {
	log.Println("Seeding database with demo data...")

	if err := repository.InitSchema(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	result, err := database.SeedDemo(context.Background(), database.DB, &database.SeedConfig{
		CustomerCount:  customers,
		OrdersPerStage: perStage,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed summary:")
	log.Printf("   - Orders: %d", len(result.Orders))
	log.Printf("   - Clocks: %d", len(result.Clocks))
	log.Println("Seeding completed")
}

func runTruncate() {
	log.Println("WARNING: this will TRUNCATE all tables")

	if err := database.TruncateAllTables(); err != nil {
		log.Fatalf("Truncate failed: %v", err)
	}

	log.Println("All tables truncated")
}
