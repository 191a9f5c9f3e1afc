package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/config"
)

func TestHealthService_HealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", nil, nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Contains(t, status.Runtime, "uptime_seconds")
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "vendas.csv")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0644))

	tests := []struct {
		name       string
		input      string
		generate   bool
		wantStatus string
		wantLedger string
		wantReport string
	}{
		{
			name:       "ledger present, nothing generated",
			input:      present,
			wantStatus: "ready",
			wantLedger: "ok",
			wantReport: "pending",
		},
		{
			name:       "ledger present, report generated",
			input:      present,
			generate:   true,
			wantStatus: "ready",
			wantLedger: "ok",
			wantReport: "ok",
		},
		{
			name:       "ledger missing",
			input:      filepath.Join(dir, "absent.csv"),
			wantStatus: "not_ready",
			wantLedger: "unavailable",
			wantReport: "pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.InputFile = tt.input
			reports := NewReportService(cfg, &fakeLoader{table: sampleLedger()}, nil, nil)
			if tt.generate {
				_, err := reports.Generate(context.Background(), "")
				require.NoError(t, err)
			}

			status := NewHealthService("1.0.0", reports, nil).ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantLedger, status.Services["ledger"].Status)
			assert.Equal(t, tt.wantReport, status.Services["report"].Status)
		})
	}
}
