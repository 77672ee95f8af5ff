package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"salesadmin/internal/auth"
	"salesadmin/internal/httpserver"
	"salesadmin/internal/logger"
	"salesadmin/internal/models"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedSaleStatuses(db, lg)

	issuer := auth.IssuerFromEnv()
	registry := auth.NewRegistry()
	router := httpserver.NewRouter(db, issuer, registry, lg)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	lg.Infow("listening", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

func seedSaleStatuses(db *gorm.DB, lg *zap.SugaredLogger) {
	for _, name := range []string{"Pending", "Completed", "Cancelled"} {
		db.Exec("INSERT INTO sale_statuses(name) VALUES (?) ON CONFLICT DO NOTHING", name)
	}
	lg.Infow("seeded sale statuses")
}
