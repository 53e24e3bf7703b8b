package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample volunteers for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		volunteers := []struct {
			Username string
			Name     string
			Email    string
		}{
			{"joao", "Joao Silva", "joao@geracaoeleita.com"},
			{"maria", "Maria Santos", "maria@geracaoeleita.com"},
			{"pedro", "Pedro Oliveira", "pedro@geracaoeleita.com"},
		}

		for _, v := range volunteers {
			var exists int
			row := db.QueryRow("SELECT 1 FROM users WHERE username = $1", v.Username)
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", v.Username)
				continue
			}

			_, err := db.Exec(
				"INSERT INTO users (id, username, name, email, role, password_hash, is_active, created_at) VALUES ($1, $2, $3, $4, 'user', $5, true, now())",
				uuid.NewString(), v.Username, v.Name, v.Email, string(hash),
			)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", v.Username, err)
			}
			fmt.Println("Seeded volunteer:", v.Username)
		}

		fmt.Println("Sample volunteers seeded successfully")
	},
}
