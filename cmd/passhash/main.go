// Command passhash prints a bcrypt hash for a password, for seeding
// accounts or resetting one by hand in SQL.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Usage = printUsage
	flag.Parse()

	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		log.Fatalf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	password, err := readPassword(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		log.Fatalf("generate hash: %v", err)
	}

	fmt.Println(string(hash))
}

func readPassword(args []string) (string, error) {
	if len(args) > 0 {
		password := args[0]
		if password == "" {
			return "", fmt.Errorf("password must not be empty")
		}
		return password, nil
	}

	// No argument: read one line from stdin so the password stays out of
	// shell history.
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}

	return password, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-cost N] [password]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "reads the password from stdin when no argument is given")
	flag.PrintDefaults()
}
