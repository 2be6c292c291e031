package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/db"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/storage"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/util"
)

func main() {
	hash := flag.String("hash", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	importPath := flag.String("import", "", "import properties from an XLSX workbook in the export layout")
	yes := flag.Bool("yes", false, "skip the import confirmation prompt")
	flag.Parse()

	if *hash != "" {
		hashed, err := util.HashPassword(*hash)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		fmt.Println(hashed)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed filter options:", err)
	}
	fmt.Println("Filter options seeded.")

	if *importPath == "" {
		return
	}

	file, err := os.Open(*importPath)
	if err != nil {
		log.Fatal("Failed to open workbook:", err)
	}
	defer file.Close()

	if !*yes {
		fmt.Printf("Import properties from %s? (yes/no): ", *importPath)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	// shared with the server so created listings show up immediately
	var responseCache cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer client.Close()
		responseCache = cache.NewRedis(client, "")
	}

	propertyRepo := repository.NewPropertyRepository(db.GetDB())
	imageRepo := repository.NewPropertyImageRepository(db.GetDB())
	// imports carry no files, so storage is never written
	images := service.NewImageService(propertyRepo, imageRepo, storage.NewMemoryStorage(""), responseCache, service.UploadLimits{
		MaxFileSize:     cfg.Upload.MaxFileSize,
		AllowedPrefixes: cfg.Upload.AllowedPrefixes,
	})
	properties := service.NewPropertyService(propertyRepo, imageRepo, images, responseCache, cfg.Cache.TTL)

	result, err := service.NewImportService(properties).ImportProperties(context.Background(), file)
	if err != nil {
		log.Fatal("Failed to import properties:", err)
	}

	rows := make([]int, 0, len(result.Errors))
	for row := range result.Errors {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		fmt.Printf("Row %d skipped: %s\n", row, result.Errors[row])
	}

	fmt.Println("Import completed.")
	fmt.Printf("Created: %d, skipped: %d\n", result.Created, result.Skipped)
}
