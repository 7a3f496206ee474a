// genhash prints bcrypt hashes for seeding accounts directly into a store.
//
//	go run ./scripts/genhash.go <password> [password...]
package main

import (
	"fmt"
	"os"

	"go-jobboard-backend/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password> [password...]")
		os.Exit(2)
	}

	for _, pass := range os.Args[1:] {
		hash, err := auth.HashPassword(pass)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", pass, hash)
	}
}
