// cmd/devtoken/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/api"
)

// devtoken prints a bearer token for local testing against a server that
// shares AUTH_JWT_SECRET.
func main() {
	var (
		userID = flag.String("user", "", "User id to place in the token subject")
		ttl    = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		env    = flag.String("env", "config/.env", "Path to the .env file holding AUTH_JWT_SECRET")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *userID == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := godotenv.Load(*env); err != nil {
		log.Warn().Msg("No .env file found")
	}
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("AUTH_JWT_SECRET is not set")
	}

	token, err := api.SignToken([]byte(secret), *userID, *ttl, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}
	fmt.Println(token)
}
