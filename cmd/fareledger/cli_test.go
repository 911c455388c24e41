package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/api"
	"github.com/xraph/fareledger/id"
)

const ownerHex = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "auth:\n  secret: s3cret\n")

	out, err := run(t, "--config", path, "token", "--address", ownerHex)
	require.NoError(t, err)

	tokens, err := api.NewTokenManager("s3cret", 0)
	require.NoError(t, err)
	claims, err := tokens.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, ownerHex, claims.Subject)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "network: hardhat\n")

	_, err := run(t, "--config", path, "token", "--address", ownerHex)
	assert.ErrorIs(t, err, api.ErrEmptySecret)
}

func TestDeployOnDevNetwork(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETHERSCAN_API_KEY", "key")
	path := writeConfig(t, "network: hardhat\nexplorer:\n  url: http://127.0.0.1:1/unreachable\n")

	out, err := run(t, "--config", path, "deploy", "--owner", ownerHex)
	require.NoError(t, err)

	var got struct {
		Network  string `json:"network"`
		LedgerID string `json:"ledger_id"`
		Owner    string `json:"owner"`
		Seq      uint64 `json:"seq"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hardhat", got.Network)
	assert.Equal(t, ownerHex, got.Owner)
	assert.Equal(t, uint64(1), got.Seq)
	_, err = id.ParseLedgerID(got.LedgerID)
	assert.NoError(t, err)
}

func TestDeployVerifiesOnPublicNetwork(t *testing.T) {
	clearEnv(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "key", r.PostForm.Get("apikey"))
		assert.Equal(t, "verifysourcecode", r.PostForm.Get("action"))
		assert.Equal(t, ownerHex, r.PostForm.Get("constructorArguements"))
		assert.Equal(t, "sepolia", r.PostForm.Get("network"))
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":"receipt-1"}`))
	}))
	defer srv.Close()

	t.Setenv("ETHERSCAN_API_KEY", "key")
	path := writeConfig(t, "explorer:\n  url: "+srv.URL+"\n")

	_, err := run(t, "--config", path, "deploy", "--owner", ownerHex, "--network", "sepolia")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDeployRejectsBadOwner(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "network: hardhat\n")

	_, err := run(t, "--config", path, "deploy", "--owner", "0x1234")
	assert.ErrorIs(t, err, account.ErrInvalidAddress)
}

func TestInvalidConfigFailsEarly(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "store:\n  driver: cassandra\n")

	_, err := run(t, "--config", path, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestStatusCommand(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "network: hardhat\n")

	out, err := run(t, "--config", path, "status")
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Deployed)
	assert.Equal(t, uint64(0), report.Sequence)
}

func TestDeployUsesVerifierResult(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETHERSCAN_API_KEY", "key")

	a := &app{cfg: DefaultConfig(), logger: newLogger(LogConfig{Level: "error"}, &bytes.Buffer{})}
	a.cfg.applyEnvOverrides()

	v := &stubVerifier{err: errAlreadyVerified}
	var out bytes.Buffer
	cmd := a.deployCmd()
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	require.NoError(t, a.deploy(cmd, ownerHex, "sepolia", v))
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, ownerHex, v.owner)
}

type stubVerifier struct {
	calls int
	owner string
	err   error
}

func (s *stubVerifier) Verify(_ context.Context, _ string, dep *fareledger.Deployment) (string, error) {
	s.calls++
	s.owner = dep.Owner.String()
	return "", s.err
}
