package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"stash-backend/internal/config"
	"stash-backend/internal/db"
	"stash-backend/internal/importer"
	"stash-backend/internal/repository/category"
	"stash-backend/internal/repository/character"
	"stash-backend/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to NDJSON catalog export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewNDJSONImporter(f,
		product.NewPostgres(pool, nil),
		category.NewPostgres(pool),
		character.NewPostgres(pool),
	)

	start := time.Now()
	counts, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d categories, %d characters, %d products in %s\n",
		counts.Categories, counts.Characters, counts.Products, time.Since(start).Truncate(time.Millisecond))
}
