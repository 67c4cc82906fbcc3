package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookkeeper-cli",
		Short: "Bookkeeper CLI tool",
		Long:  `A command line interface for interacting with the Bookkeeper API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Bookkeeper API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balanceCmd := &cobra.Command{
		Use:   "balance <tenant> <account-type> <account-id>",
		Short: "Show an account's balance snapshot",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			get(accountPath(args) + "/balance")
		},
	}

	var from, to string
	ledgerCmd := &cobra.Command{
		Use:   "ledger <tenant> <account-type> <account-id>",
		Short: "Show an account's materialized ledger rows",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if from != "" {
				query.Set("from", from)
			}
			if to != "" {
				query.Set("to", to)
			}

			path := accountPath(args) + "/ledger"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			get(path)
		},
	}
	ledgerCmd.Flags().StringVar(&from, "from", "", "Start of date range (RFC3339)")
	ledgerCmd.Flags().StringVar(&to, "to", "", "End of date range (RFC3339)")

	recalcCmd := &cobra.Command{
		Use:   "recalculate <tenant> <account-type> <account-id>",
		Short: "Rebuild an account's ledger and balance from its source entries",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			post(accountPath(args) + "/recalculate")
		},
	}

	rootCmd.AddCommand(balanceCmd, ledgerCmd, recalcCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountPath(args []string) string {
	return fmt.Sprintf("/api/v1/tenants/%s/accounts/%s/%s",
		url.PathEscape(args[0]), url.PathEscape(args[1]), url.PathEscape(args[2]))
}

func get(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	printResponse(resp)
}

func post(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
