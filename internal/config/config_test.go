package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "inventra", cfg.MongoDB.DBName)
	assert.Equal(t, "30 0 * * *", cfg.Scheduler.CronSchedule)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
	assert.False(t, cfg.Ledger.RestockOnInvoiceDelete)
	assert.False(t, cfg.Alerts.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGODB_DB_NAME", "inventra_test")
	t.Setenv("RESTOCK_ON_INVOICE_DELETE", "true")
	t.Setenv("STOCK_ALERT_WEBHOOK_URL", "https://hooks.example.com/stock")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "inventra_test", cfg.MongoDB.DBName)
	assert.True(t, cfg.Ledger.RestockOnInvoiceDelete)
	assert.True(t, cfg.Alerts.Enabled())
}

func TestLoadRejectsPartialSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet-id")

	_, err := Load("")
	assert.Error(t, err)
}

func TestSheetsEnabledRequiresBothFields(t *testing.T) {
	assert.False(t, SheetsConfig{}.Enabled())
	assert.False(t, SheetsConfig{CredentialsPath: "creds.json"}.Enabled())
	assert.True(t, SheetsConfig{CredentialsPath: "creds.json", SpreadsheetID: "sheet-id"}.Enabled())
}
