package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loancore-cli",
		Short: "LoanCore CLI tool",
		Long:  `A command line interface for interacting with the LoanCore API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LoanCore API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for staff operations")

	// Loan commands
	loanCmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan operations",
	}

	loanCmd.AddCommand(&cobra.Command{
		Use:   "get <loan-id>",
		Short: "Show a loan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/loans/" + args[0])
		},
	})

	loanCmd.AddCommand(&cobra.Command{
		Use:   "schedule <loan-id>",
		Short: "Show a loan's repayment schedule",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/loans/" + args[0] + "/schedule")
		},
	})

	loanCmd.AddCommand(&cobra.Command{
		Use:   "approve <loan-id>",
		Short: "Approve a pending loan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/loans/"+args[0]+"/approve", map[string]string{})
		},
	})

	rejectReason := ""
	rejectCmd := &cobra.Command{
		Use:   "reject <loan-id>",
		Short: "Reject a pending loan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/loans/"+args[0]+"/reject", map[string]string{"reason": rejectReason})
		},
	}
	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "Rejection reason")
	loanCmd.AddCommand(rejectCmd)

	payAmount := ""
	payCmd := &cobra.Command{
		Use:   "pay <loan-id>",
		Short: "Record an EMI payment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/loans/"+args[0]+"/payments", map[string]string{"amount": payAmount})
		},
	}
	payCmd.Flags().StringVar(&payAmount, "amount", "", "Payment amount")
	_ = payCmd.MarkFlagRequired("amount")
	loanCmd.AddCommand(payCmd)

	loanCmd.AddCommand(&cobra.Command{
		Use:   "overdue",
		Short: "List overdue installments across all loans",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/loans/overdue")
		},
	})

	rootCmd.AddCommand(loanCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0])
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "transactions <account-id>",
		Short: "List an account's transactions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0] + "/transactions")
		},
	})

	rootCmd.AddCommand(accountCmd)

	// Dashboard
	rootCmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Show portfolio summary",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/dashboard")
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	do(req)
}

func post(path string, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	do(req)
}

func do(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
