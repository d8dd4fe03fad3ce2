package main

import (
	"fmt"
	"log"
	"os"

	"alocubano-tickets/internal/utils"
)

// Prints the Argon2id hash for ADMIN_PASSWORD_HASH.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: go run cmd/hash-password/main.go <password>")
		os.Exit(1)
	}

	hash, err := utils.HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
