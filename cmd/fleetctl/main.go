// cmd/fleetctl/main.go
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/config"
	"github.com/jerent/carfleet/internal/model"
	"github.com/jerent/carfleet/internal/repository"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	inviteCmd.Flags().StringVar(&inviteEmail, "email", "", "Email address to invite")
	inviteCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(inviteCmd)
}

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "fleetctl is the CarFleet operations CLI",
	Long:  `fleetctl runs schema migrations and administrative tasks for the CarFleet console backend.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openDatabase()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		models := []interface{}{
			&model.Organization{},
			&model.User{},
			&model.Vehicle{},
			&model.Driver{},
			&model.Activity{},
			&model.Expense{},
			&model.Revenue{},
			&model.Invitation{},
		}

		if err := db.AutoMigrate(models...); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}

		fmt.Printf("Migrated %d tables\n", len(models))
	},
}

var inviteEmail string

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Issue a signup invitation",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openDatabase()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		repo := repository.NewInvitationRepository(db)
		invitation, err := repo.Insert(cmd.Context(), model.Invitation{
			Token: uuid.New(),
			Email: inviteEmail,
		})
		if err != nil {
			log.Fatalf("Failed to create invitation: %v", err)
		}

		fmt.Printf("Invitation created for %s\n", invitation.Email)
		fmt.Printf("Token: %s\n", invitation.Token)
		if verbose {
			fmt.Printf("ID: %s\nCreated: %s\n", invitation.ID, invitation.CreatedAt.Format(time.RFC3339))
		}
	},
}

func openDatabase() (*gorm.DB, error) {
	cfg := config.Load()
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
