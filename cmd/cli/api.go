package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// apiClient talks to a running API server.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(opts *apiOptions) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

// call sends body as JSON and decodes the response. A response with
// success=false is returned together with an error carrying its message.
func (c *apiClient) call(ctx context.Context, method, path string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %s", resp.StatusCode, truncate(string(data), 200))
	}

	if ok, _ := result["success"].(bool); !ok {
		msg, _ := result["message"].(string)
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return result, errors.New(msg)
	}
	return result, nil
}

func runAPI(cmd *cobra.Command, opts *apiOptions, method, path string, body any) error {
	result, err := newAPIClient(opts).call(cmd.Context(), method, path, body)
	if result != nil {
		printJSON(cmd.OutOrStdout(), result)
	}
	return err
}

func registerCmd(opts *apiOptions) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd, opts, http.MethodPost, "/api/user/register", map[string]string{
				"name": name, "email": email, "password": password,
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func loginCmd(opts *apiOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd, opts, http.MethodPost, "/api/user/login", map[string]string{
				"email": email, "password": password,
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func creditsCmd(opts *apiOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show the credit balance of the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd, opts, http.MethodGet, "/api/user/credits", nil)
		},
	}
}

func orderCmd(opts *apiOptions) *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Open a payment order for a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd, opts, http.MethodPost, "/api/user/pay-razor", map[string]string{"planId": plan})
		},
	}
	cmd.Flags().StringVar(&plan, "plan", "Basic", "Plan to buy (Basic, Advanced, Business)")
	return cmd
}

func verifyCmd(opts *apiOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [order-id]",
		Short: "Verify a paid order and credit the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd, opts, http.MethodPost, "/api/user/verify-razor", map[string]string{"razorpay_order_id": args[0]})
		},
	}
}

func entriesCmd(opts *apiOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List ledger entries of the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/user/entries?limit=%d&offset=%d", limit, offset)
			return runAPI(cmd, opts, http.MethodGet, path, nil)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}
