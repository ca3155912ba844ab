package main

import (
	"flag"
	"fmt"
	"log"

	"catalog-web/internal/config"
	"catalog-web/internal/database"
	"catalog-web/internal/models"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
)

// Generates the supplier upload template. Categories come from the database
// when one is reachable, otherwise a default set is used.
func main() {
	output := flag.String("o", "catalog_import_template.xlsx", "output file path")
	flag.Parse()

	categories := defaultCategories()

	cfg, err := config.Load()
	if err == nil {
		if db, dbErr := database.NewMySQL(cfg); dbErr == nil {
			defer db.Close()
			if loaded, loadErr := repository.NewCategoryRepository(db).FindAllActive(); loadErr == nil && len(loaded) > 0 {
				categories = loaded
			}
		} else {
			log.Printf("Warning: no database connection, using default categories: %v", dbErr)
		}
	}

	workbook := service.NewWorkbookService()
	if err := workbook.GenerateImportTemplate(*output, categories); err != nil {
		log.Fatalf("Failed to generate template: %v", err)
	}

	fmt.Printf("Template written to %s\n", *output)
}

func defaultCategories() []models.Category {
	names := []string{"Dairy", "Produce", "Bakery", "Meat", "Beverages", "Pantry", "Household"}
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name})
	}
	return categories
}
