package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/inventra-io/inventra/internal/config"
	"github.com/inventra-io/inventra/internal/domain/models"
)

const snapshotRange = "Snapshots!A:H"

// Exporter appends inventory snapshot rows to an external spreadsheet.
type Exporter interface {
	AppendSnapshot(ctx context.Context, s models.InventorySnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one snapshot row to the export sheet.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, s models.InventorySnapshot) error {
	row := []interface{}{
		s.LastUpdated.Format(time.RFC3339),
		s.TotalProducts,
		s.Categories,
		s.Revenue,
		s.TopSelling,
		s.TopSellingCost,
		s.LowStocksOrdered,
		s.LowStocksNotInStock,
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row: %w", err)
	}

	e.logger.Debug("snapshot row appended to sheet", zap.String("range", snapshotRange))
	return nil
}
