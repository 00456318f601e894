package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"warkop-survey/internal/config"
	"warkop-survey/internal/domain/repository"
	"warkop-survey/internal/handler"
	"warkop-survey/internal/infrastructure/database"
	"warkop-survey/internal/infrastructure/geo"
	"warkop-survey/internal/infrastructure/maps"
	repoimpl "warkop-survey/internal/repository"
	"warkop-survey/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is not set")
	}

	region, err := geo.LoadRegionFile(cfg.RegionGeoJSON, cfg.RegionName)
	if err != nil {
		log.Fatalf("Failed to load region: %v", err)
	}
	log.Printf("✅ Loaded region %s: %.2f km² (source CRS: %s)", region.Name(), region.AreaSqKm(), region.SourceCRS())

	provider := maps.NewGooglePlacesProvider(apiKey)
	exporter := repoimpl.NewCSVExporter(cfg.OutputCSV)
	store := buildResultsStore()

	surveyUseCase := usecase.NewSurveyUseCase(region, provider, exporter, store)

	if cfg.ServerMode {
		runServer(cfg, surveyUseCase)
		return
	}

	run, err := surveyUseCase.RunSurvey(context.Background(), cfg.ToParams())
	if err != nil {
		log.Fatalf("Survey failed: %v", err)
	}
	if run.Estimate != nil {
		log.Printf("Estimated total number of %q in %s: %d", run.Keyword, run.RegionName, run.Estimate.EstimatedTotal)
	}
	log.Printf("Results saved to %s (%d rows)", cfg.OutputCSV, len(run.Records))
}

// buildResultsStore picks a persistence backend from the environment:
// direct PostgreSQL when credentials exist, Supabase REST as fallback,
// nothing when neither is configured (CSV is still written).
func buildResultsStore() repository.SurveyResultsRepository {
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		client, err := database.NewPostgreSQLClient()
		if err != nil {
			log.Fatalf("PostgreSQL initialization failed: %v", err)
		}
		store := repoimpl.NewPostgresSurveyRepository(client)
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Survey schema setup failed: %v", err)
		}
		log.Println("✅ PostgreSQL results store ready")
		return store
	}

	if os.Getenv("SUPABASE_URL") != "" && os.Getenv("SUPABASE_ANON_KEY") != "" {
		client, err := database.NewSupabaseClient()
		if err != nil {
			log.Fatalf("Supabase initialization failed: %v", err)
		}
		if err := client.HealthCheck(); err != nil {
			log.Fatalf("Supabase health check failed: %v", err)
		}
		log.Println("✅ Supabase results store ready")
		return repoimpl.NewSupabaseSurveyRepository(client)
	}

	log.Println("No results store configured, writing CSV only")
	return nil
}

func runServer(cfg *config.Config, surveyUseCase usecase.SurveyUseCase) {
	router := gin.Default()
	surveyHandler := handler.NewSurveyHandler(surveyUseCase, cfg.ToParams())
	surveyHandler.RegisterRoutes(router)

	log.Printf("warkop-survey server starting on :%s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
