package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/models"
)

// Creates the first admin account without going through signup
// Usage: go run scripts/create_admin.go <name> <email> <password>
func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run scripts/create_admin.go <name> <email> <password>")
		fmt.Println("Example: go run scripts/create_admin.go \"Ops Desk\" ops@example.org 0i2rinbcp12yc31h")
		os.Exit(1)
	}
	name, email, password := os.Args[1], strings.ToLower(strings.TrimSpace(os.Args[2])), os.Args[3]

	conf, err := config.New()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := databases.NewClient(conf)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}
	if err := client.Connect(ctx); err != nil {
		fmt.Printf("Error connecting to %s: %v\n", conf.DatabaseName, err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)
	users := databases.NewUserDatabase(databases.NewDatabase(conf, client))

	count, err := users.CountDocuments(ctx, bson.M{"user.email": email})
	if err != nil {
		fmt.Printf("Error checking email: %v\n", err)
		os.Exit(1)
	}
	if count > 0 {
		fmt.Printf("%s already exists\n", email)
		os.Exit(1)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	user := models.User{
		ID: primitive.NewObjectID().Hex(),
		Details: models.UserDetails{
			Name:      name,
			Email:     email,
			Password:  string(hashedPassword),
			Role:      models.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if _, err := users.InsertOne(ctx, user); err != nil {
		fmt.Printf("Error inserting admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created admin %s (%s)\n", email, user.ID)
}
