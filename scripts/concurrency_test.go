//go:build ignore
// +build ignore

// Package main provides a manual borrow-stampede test for the library API.
//
// Usage:
//
//	go run ./scripts/concurrency_test.go <book_id> <member_token1> [member_token2 ...]
//
// Or use the convenience environment variables:
//
//	BOOK_ID=<id>  TOKENS=<t1>,<t2>,...  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Fires N goroutines (one per member token) all attempting to borrow the
//     same book simultaneously.
//  2. Tallies how many borrowed vs. were turned away with "no copies
//     available" or "already borrowed".
//  3. Successful borrows must never exceed the book's total_copies: the
//     store takes the availability check and the borrowing insert under one
//     lock, so a stampede cannot double-allocate the last copy.
//
// Prerequisites:
//   - Server must be running (SERVER_ADDR, default http://localhost:8080).
//   - The book and the member sessions must already exist; log each member
//     in via POST /login and pass the returned tokens.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

type borrowResult struct {
	Token      string
	StatusCode int
	Message    string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	// Collect book_id and tokens from cli args or env.
	bookID := os.Getenv("BOOK_ID")
	tokensEnv := os.Getenv("TOKENS")

	var tokens []string
	if tokensEnv != "" {
		tokens = strings.Split(tokensEnv, ",")
	}

	// Support positional args: script <book_id> [tokens...]
	args := os.Args[1:]
	if len(args) >= 1 {
		bookID = args[0]
	}
	if len(args) >= 2 {
		tokens = args[1:]
	}

	if bookID == "" {
		log.Fatal("Usage: BOOK_ID=<id> TOKENS=<t1,t2,...> go run ./scripts/concurrency_test.go\n" +
			"  or: go run ./scripts/concurrency_test.go <book_id> <token1> [token2 ...]")
	}
	if len(tokens) == 0 {
		log.Fatal("At least one member token must be provided via TOKENS env or positional args")
	}

	fmt.Printf("=== Borrow Stampede Test ===\n")
	fmt.Printf("Server  : %s\n", serverAddr)
	fmt.Printf("Book    : %s\n", bookID)
	fmt.Printf("Members : %d\n\n", len(tokens))

	results := make([]borrowResult, len(tokens))
	var wg sync.WaitGroup

	// Fire all goroutines simultaneously using a barrier.
	start := make(chan struct{})

	for i, tok := range tokens {
		wg.Add(1)
		go func(idx int, token string) {
			defer wg.Done()
			<-start // wait for the barrier
			results[idx] = attemptBorrow(serverAddr, bookID, strings.TrimSpace(token))
		}(i, tok)
	}

	// Release all goroutines at once.
	fmt.Println("Firing all requests simultaneously...")
	close(start)

	wg.Wait()
	fmt.Print("All requests completed.\n\n")

	// Tally results.
	var borrowed, turnedAway, failures int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] token=%-12s err=%v\n", shorten(r.Token), r.Err)
		case r.StatusCode == http.StatusCreated:
			borrowed++
			fmt.Printf("  [BRRW] token=%-12s status=%d\n", shorten(r.Token), r.StatusCode)
		case r.StatusCode == http.StatusConflict:
			turnedAway++
			fmt.Printf("  [FULL] token=%-12s status=%d msg=%s\n", shorten(r.Token), r.StatusCode, r.Message)
		default:
			failures++
			fmt.Printf("  [FAIL] token=%-12s status=%d msg=%s\n", shorten(r.Token), r.StatusCode, r.Message)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Borrowed    : %d\n", borrowed)
	fmt.Printf("Turned away : %d\n", turnedAway)
	fmt.Printf("Failures    : %d\n", failures)
	fmt.Printf("Total       : %d\n\n", len(tokens))

	fmt.Println("--- Invariant Check ---")
	fmt.Println("The store holds one lock across the availability check and the borrowing")
	fmt.Println("insert, so active borrowings can never exceed total_copies.")
	fmt.Printf("Borrows recorded: %d — if this is ≤ the book's total_copies, the system is correct.\n", borrowed)

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed — check server logs for details.\n", failures)
		os.Exit(1)
	}
}

// attemptBorrow sends POST /books/{bookID}/borrow with the member's bearer
// token and records the outcome.
func attemptBorrow(serverAddr, bookID, token string) borrowResult {
	url := fmt.Sprintf("%s/books/%s/borrow", serverAddr, bookID)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return borrowResult{Token: token, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return borrowResult{Token: token, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return borrowResult{Token: token, StatusCode: resp.StatusCode, Err: fmt.Errorf("bad JSON: %s", raw)}
	}

	msg, _ := parsed["error"].(string)
	return borrowResult{
		Token:      token,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

func shorten(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
