package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/xraph/fareledger"
)

// errAlreadyVerified is returned when the explorer already knows the
// deployment.
var errAlreadyVerified = errors.New("already verified")

// verifier submits a deployment to a block explorer.
type verifier interface {
	Verify(ctx context.Context, network string, dep *fareledger.Deployment) (string, error)
}

// explorerVerifier speaks the Etherscan-style verification API.
type explorerVerifier struct {
	client *http.Client
	url    string
	apiKey string
}

func newExplorerVerifier(cfg ExplorerConfig) *explorerVerifier {
	return &explorerVerifier{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
		apiKey: cfg.APIKey,
	}
}

type explorerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Verify submits dep and returns the explorer's receipt.
func (v *explorerVerifier) Verify(ctx context.Context, network string, dep *fareledger.Deployment) (string, error) {
	form := url.Values{
		"apikey":                {v.apiKey},
		"module":                {"contract"},
		"action":                {"verifysourcecode"},
		"contractaddress":       {dep.LedgerID.String()},
		"contractname":          {"FareLedger"},
		"constructorArguements": {dep.Owner.String()},
		"network":               {network},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("verify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("verify: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("verify: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verify: explorer answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out explorerResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("verify: decode response: %w", err)
	}
	if out.Status != "1" {
		if strings.Contains(strings.ToLower(out.Result), "already verified") {
			return "", errAlreadyVerified
		}
		return "", fmt.Errorf("verify: %s: %s", out.Message, out.Result)
	}
	return out.Result, nil
}
