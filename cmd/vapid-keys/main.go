// Command vapid-keys prints a fresh VAPID key pair in the form the server
// reads from the environment.
//
// Usage:
//
//	vapid-keys >> .env
package main

import (
	"fmt"
	"log"

	"github.com/heartmarshall/notify-backend/internal/adapter/webpush"
)

func main() {
	public, private, err := webpush.GenerateKeys()
	if err != nil {
		log.Fatalf("generate vapid keys: %v", err)
	}

	fmt.Printf("PUSH_VAPID_PUBLIC_KEY=%s\n", public)
	fmt.Printf("PUSH_VAPID_PRIVATE_KEY=%s\n", private)
}
