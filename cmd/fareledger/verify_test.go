package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
)

func testDeployment() *fareledger.Deployment {
	return &fareledger.Deployment{
		LedgerID:      id.NewLedgerID(),
		TransactionID: id.NewTransactionID(),
		Owner:         account.MustParseAddress(ownerHex),
		Seq:           1,
		DeployedAt:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestExplorerVerifier(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
		anyErr  bool
	}{
		{"submitted", http.StatusOK, `{"status":"1","message":"OK","result":"guid-7"}`, "guid-7", nil, false},
		{"already verified", http.StatusOK, `{"status":"0","message":"NOTOK","result":"Contract source code already verified"}`, "", errAlreadyVerified, true},
		{"rejected", http.StatusOK, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`, "", nil, true},
		{"server error", http.StatusBadGateway, `bad gateway`, "", nil, true},
		{"not json", http.StatusOK, `<html>`, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v := newExplorerVerifier(ExplorerConfig{URL: srv.URL, APIKey: "key", Timeout: 5 * time.Second})
			got, err := v.Verify(context.Background(), "sepolia", testDeployment())

			if tt.anyErr {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
