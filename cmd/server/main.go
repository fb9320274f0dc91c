// Sitecheck - Construction checklist service
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aethra/sitecheck/internal/api"
	"github.com/aethra/sitecheck/internal/auth"
	"github.com/aethra/sitecheck/internal/checklist"
	"github.com/aethra/sitecheck/internal/config"
	"github.com/aethra/sitecheck/internal/database"
	"github.com/aethra/sitecheck/internal/models"
	"github.com/aethra/sitecheck/internal/seed"
)

var Version = "1.0.0"

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	if len(os.Args) > 1 {
		runCLI()
		return
	}
	startServer()
}

func startServer() {
	fmt.Printf("Sitecheck %s - Starting...\n", Version)

	db := connectDB()
	log.Println("Database connected")

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")

	configService := config.NewService(db)
	if err := configService.SetupDefaults(); err != nil {
		log.Fatalf("Config setup failed: %v", err)
	}
	cfg := configService.LoadConfig()

	gin.SetMode(cfg.Server.Mode)

	checklists := checklist.NewService(db)
	importer := seed.NewImporter(db)
	identity := auth.NewIdentityService(cfg.Auth.JWTSecret)

	handler := api.NewHandler(checklists, importer, identity, cfg.Seed.SourcePath)
	router := api.SetupRouter(handler, cfg)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func connectDB() *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		requireEnv("DB_HOST"),
		requireEnv("DB_PORT"),
		requireEnv("DB_USER"),
		requireEnv("DB_PASSWORD"),
		requireEnv("DB_NAME"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	return db
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required env: %s", key)
	}
	return value
}

// CLI
func runCLI() {
	cmd := os.Args[1]
	switch cmd {
	case "serve":
		startServer()
	case "setup":
		runSetup()
	case "migrate":
		db := connectDB()
		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations complete")
	case "seed":
		runSeedCmd()
	case "project":
		runProjectCmd()
	case "token":
		runTokenCmd()
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: sitecheck <command>
Commands:
  setup                          Interactive setup wizard
  serve                          Start server
  migrate                        Run migrations
  seed [--source=] [--dry-run]   Import checklist catalogue from workbook
  project list                   List projects
  project create --code= --name= Create project
  token --user= [--name=]        Mint an access token for a user id`)
}

func runSeedCmd() {
	db := connectDB()
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	source := getFlag("--source")
	if source == "" {
		configService := config.NewService(db)
		source = configService.GetWithDefault("SEED_SOURCE_PATH", "seed/checklists.xlsx")
	}

	importer := seed.NewImporter(db)
	report, err := importer.Run(source, seed.Options{DryRun: hasFlag("--dry-run")})
	if err != nil {
		log.Fatalf("Seed import failed: %v", err)
	}

	if report.Skipped {
		fmt.Println("Catalogue already imported, nothing to do")
		return
	}
	fmt.Printf("Imported %d templates, %d sub-sections, %d items (%d templates skipped, %d rows skipped)\n",
		report.TemplatesCreated, report.SectionsCreated, report.ItemsCreated,
		report.TemplatesSkipped, report.RowsSkipped)
}

func runProjectCmd() {
	if len(os.Args) < 3 {
		printUsage()
		return
	}
	db := connectDB()
	service := checklist.NewService(db)
	switch os.Args[2] {
	case "list":
		projects, err := service.ListProjects()
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		for _, p := range projects {
			fmt.Printf("%s  %s - %s\n", p.ID, p.Code, p.Name)
		}
	case "create":
		code, name := getFlag("--code"), getFlag("--name")
		if code == "" || name == "" {
			printUsage()
			return
		}
		project, err := service.CreateProject(checklist.ProjectInput{Code: code, Name: name})
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("Project created: %s (%s)\n", project.Code, project.ID)
	case "delete":
		idStr := getFlag("--id")
		id, err := uuid.Parse(idStr)
		if err != nil {
			printUsage()
			return
		}
		if err := service.DeleteProject(id); err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Println("Project deleted")
	}
}

func runTokenCmd() {
	userIDStr := getFlag("--user")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		printUsage()
		return
	}

	db := connectDB()
	configService := config.NewService(db)
	secret := configService.Get("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not configured, run setup first")
	}

	identity := auth.NewIdentityService(secret)
	token, err := identity.MintToken(userID, getFlag("--name"))
	if err != nil {
		log.Fatalf("Failed: %v", err)
	}
	fmt.Println(token)
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):]
		}
	}
	return ""
}

func hasFlag(name string) bool {
	for _, arg := range os.Args {
		if arg == name {
			return true
		}
	}
	return false
}

// Interactive Setup
func runSetup() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("\n=== Sitecheck Setup Wizard ===")
	fmt.Println()

	fmt.Println("Database Configuration:")
	dbHost := prompt(reader, "  DB Host", "localhost")
	dbPort := prompt(reader, "  DB Port", "5432")
	dbUser := prompt(reader, "  DB User", "sitecheck")
	dbPassword := promptPassword(reader, "  DB Password")
	dbName := prompt(reader, "  DB Name", "sitecheck")

	os.Setenv("DB_HOST", dbHost)
	os.Setenv("DB_PORT", dbPort)
	os.Setenv("DB_USER", dbUser)
	os.Setenv("DB_PASSWORD", dbPassword)
	os.Setenv("DB_NAME", dbName)

	fmt.Println("\nConnecting to database...")
	db := connectDB()
	fmt.Println("Connected!")

	fmt.Println("Running migrations...")
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migrations complete!")

	configService := config.NewService(db)
	if err := configService.SetupDefaults(); err != nil {
		log.Fatalf("Config setup failed: %v", err)
	}

	fmt.Println("\nFirst Project:")
	projectCode := prompt(reader, "  Project Code", "")
	projectName := prompt(reader, "  Project Name", "")
	if projectCode != "" && projectName != "" {
		project := models.Project{ID: uuid.New(), Code: projectCode, Name: projectName}
		if err := db.Create(&project).Error; err != nil {
			log.Fatalf("Failed to create project: %v", err)
		}
		fmt.Printf("Project '%s' created!\n", projectCode)
	}

	fmt.Println("\nSeed Catalogue:")
	seedPath := prompt(reader, "  Workbook path (empty to skip)", "")
	if seedPath != "" {
		importer := seed.NewImporter(db)
		report, err := importer.Run(seedPath, seed.Options{})
		if err != nil {
			log.Fatalf("Seed import failed: %v", err)
		}
		fmt.Printf("Imported %d templates with %d items\n", report.TemplatesCreated, report.ItemsCreated)
		if err := configService.Set("SEED_SOURCE_PATH", seedPath, "seed", false); err != nil {
			log.Fatalf("Failed to save seed path: %v", err)
		}
	}

	fmt.Println("\n=== Setup Complete ===")
	fmt.Println("\nAdd these to your systemd service or docker-compose:")
	fmt.Println("----------------------------------------")
	fmt.Printf("DB_HOST=%s\n", dbHost)
	fmt.Printf("DB_PORT=%s\n", dbPort)
	fmt.Printf("DB_USER=%s\n", dbUser)
	fmt.Printf("DB_PASSWORD=%s\n", dbPassword)
	fmt.Printf("DB_NAME=%s\n", dbName)
	fmt.Println("----------------------------------------")
	fmt.Printf("\nStart server: sitecheck serve\n")
}

func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

func promptPassword(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
