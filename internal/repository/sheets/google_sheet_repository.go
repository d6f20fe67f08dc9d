package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/mfgconsole/internal/config"
	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

// KPIRange is the tab and columns receiving KPI snapshot rows.
const KPIRange = "KPIs!A:E"

// Repository defines the persistence operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// KPISink appends KPI snapshots as spreadsheet rows.
type KPISink struct {
	repo Repository
}

// NewKPISink wraps a sheet repository.
func NewKPISink(repo Repository) *KPISink {
	return &KPISink{repo: repo}
}

// SaveKPISnapshot writes taken_at, total, planned, in_progress and completed.
func (s *KPISink) SaveKPISnapshot(ctx context.Context, snapshot models.KPISnapshot) error {
	row := []interface{}{
		snapshot.TakenAt.UTC().Format(time.RFC3339),
		snapshot.Total,
		snapshot.Planned,
		snapshot.InProgress,
		snapshot.Completed,
	}
	if err := s.repo.WriteRow(ctx, KPIRange, row); err != nil {
		return fmt.Errorf("write kpi snapshot: %w", err)
	}
	return nil
}
