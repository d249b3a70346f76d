package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/config"
	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/db/memory"
	"github.com/navbryce/next-blog-be/db/sqlstore"
	"github.com/navbryce/next-blog-be/routes"
	"github.com/navbryce/next-blog-be/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("an error occurred while loading configuration ", err)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		log.Fatal("Received err when attempting to connect to DB ", err)
	}
	defer database.Close()

	err = configureFirebaseCredentials()
	if err != nil {
		log.Fatal("an error occurred while configuring firebase credentials ", err)
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase: %v\n", err)
	}
	authClient, err := app.Auth(context.Background())
	if err != nil {
		log.Fatal("error initializing auth client ", err)
	}

	var media services.MediaStore
	if cfg.StorageType == config.StorageTypeInMemory {
		media = services.NewMemoryMediaStore(routes.MediaPath)
	} else {
		media, err = services.NewStorageBucket(context.Background(), app, cfg.MediaBucket, cfg.MediaURL)
		if err != nil {
			log.Fatal("An error occurred while connecting to the media bucket ", err)
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FEOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.Register(r, &routes.Dependencies{
		DB:        database,
		Verifier:  authClient,
		Media:     media,
		PageCache: services.NewPageCache(cfg.IndexCacheSize, cfg.IndexCacheTTL),
	}, cfg); err != nil {
		log.Fatal("an error occurred while registering routes ", err)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Error when attempting to run web server ", err)
	}
}

func openDatabase(cfg *config.Config) (appDb.Database, error) {
	if cfg.StorageType == config.StorageTypeInMemory {
		log.Println("Using the in-memory store. Data is lost on restart.")
		return memory.NewMemoryDB(), nil
	}
	database, err := sqlstore.GetDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart {
		if err := appDb.Migrate(database.GetSQLDB(), cfg.StorageType, cfg.MigrationsDir, "up"); err != nil {
			database.Close()
			return nil, err
		}
	}
	return database, nil
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials() error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		log.Printf("Credentials path detected in env. Expecting credentials to be at %v\n", credentialsPath)
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		log.Println("Credentials JSON string detected in env.")
		err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 0400)
		if err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		err = os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile)
		if err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}
