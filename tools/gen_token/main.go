// Command gen_token mints an operator bearer token for manual testing.
//
//	BACKUPD_JWT_SECRET=... go run ./tools/gen_token -subject <operator-id>
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/opsarc/backupd/internal/auth"
	"github.com/opsarc/backupd/internal/config"
)

func main() {
	subject := flag.String("subject", "", "Operator subject identifier")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		os.Exit(1)
	}

	secret := os.Getenv(config.EnvJWTSecret)
	if secret == "" {
		fmt.Fprintf(os.Stderr, "%s is required\n", config.EnvJWTSecret)
		os.Exit(1)
	}

	token, err := auth.SignToken(secret, *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
