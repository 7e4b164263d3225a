package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/Modeva-Ecommerce/modeva-storefront/config"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/joho/godotenv"
)

// init loads environment variables
func init() {
	_ = godotenv.Load()
}

// main issues a session token for an existing marketplace user, for
// exercising the gateway without going through login.
// Usage: go run cmd/session_token/main.go
func main() {
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("MODEVA STOREFRONT - Session Token")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()

	cfg := config.Load()
	tokens, err := utils.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("SESSION_SECRET must be set: %v", err)
	}

	userID, name := getUser()

	token, err := tokens.Issue(userID, name)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	if resolved, ok := tokens.Resolve(token); !ok || resolved != userID {
		log.Fatalf("Issued token does not resolve back to user %d", userID)
	}

	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Printf("User:    %d (%s)\n", userID, name)
	fmt.Printf("Expires: in %s\n", tokens.TTL())
	fmt.Printf("Token:   %s\n", token)
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("Send it as a cookie or a bearer header:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:%s/api/v1/cart\n", token, cfg.Port)
	fmt.Println()
}

// getUser prompts for the user id and display name
func getUser() (int64, string) {
	var (
		userID int64
		name   string
	)

	for {
		fmt.Print("User ID: ")
		var raw string
		fmt.Scanln(&raw)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && id > 0 {
			userID = id
			break
		}
		fmt.Println("❌ User ID must be a positive number")
	}

	fmt.Print("Name (optional): ")
	fmt.Scanln(&name)

	return userID, name
}
