package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
	pg "hostbill-payments/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schemaPath := flag.String("schema", "deploy/postgres/init.sql", "path to the schema DDL")
	demo := flag.Bool("demo", false, "also create a demo user")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	ddl, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	fmt.Println("schema applied")

	if *demo {
		users := pg.NewUserRepo(pool)
		now := time.Now()
		u := &model.User{
			ID:           uuid.NewString(),
			Email:        "demo@example.com",
			Plan:         model.PlanStarter,
			RegisteredAt: now,
			UpdatedAt:    now,
		}
		if err := users.Save(ctx, repository.NoTX, u); err != nil {
			log.Fatalf("seed demo user: %v", err)
		}
		fmt.Printf("seeded demo user: %s (%s)\n", u.ID, u.Email)
	}

	fmt.Println("seeding complete")
}
