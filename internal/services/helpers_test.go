package services

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AALVAREZG/contraidos-processor/internal/analysis"
	"github.com/AALVAREZG/contraidos-processor/internal/config"
	"github.com/AALVAREZG/contraidos-processor/internal/contraidos"
	"github.com/AALVAREZG/contraidos-processor/internal/dataprocessing"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

// MockPublisher is a mock for the EventPublisher interface
type MockPublisher struct {
	mock.Mock
	mu     sync.Mutex
	events []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	m.Called(event.Type, event.Data)
}

func (m *MockPublisher) types() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func newMockPublisher() *MockPublisher {
	p := &MockPublisher{}
	p.On("Publish", mock.Anything, mock.Anything).Return()
	return p
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

type testEnv struct {
	paths     config.Paths
	upload    config.UploadConfig
	publisher *MockPublisher
	store     *ResultStore
	files     *FileService
	analyses  *AnalysisService
	exports   *ExportService
}

func newTestEnv(t *testing.T, analyzers *analysis.Registry) *testEnv {
	t.Helper()

	base := t.TempDir()
	paths := config.Paths{
		BaseDir:   base,
		UploadDir: filepath.Join(base, "uploads"),
		ExportDir: filepath.Join(base, "exports"),
		LogsDir:   filepath.Join(base, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())

	if analyzers == nil {
		analyzers = analysis.NewRegistry()
		require.NoError(t, analyzers.Register(contraidos.Definition(discardLogger())))
	}

	upload := config.UploadConfig{
		MaxUploadSize:     1 << 20,
		AllowedExtensions: []string{".xlsx", ".xls"},
		RetentionDays:     30,
	}
	publisher := newMockPublisher()
	store := NewResultStore()
	logger := discardLogger()

	fileService := NewFileService(upload, paths, publisher, nil, logger)
	return &testEnv{
		paths:     paths,
		upload:    upload,
		publisher: publisher,
		store:     store,
		files:     fileService,
		analyses: NewAnalysisService(
			fileService,
			dataprocessing.NewParserRegistry(dataprocessing.NewContraidosExcelParser(logger)),
			analyzers,
			store,
			config.AnalysisConfig{Timeout: 5 * time.Second},
			publisher,
			nil,
			logger,
		),
		exports: NewExportService(fileService, store, publisher, nil, logger),
	}
}

// contraidosWorkbook returns a workbook with a settled contraído (A1) and an
// invalid cargo on B2
func contraidosWorkbook(t *testing.T) []byte {
	t.Helper()
	return workbook(t, domain.RequiredColumns, [][]any{
		{1, 2024, 11300, "2024/A1", 100, 554, "AINP", "15/01/2024", "B41000000", "Liquidación", 4},
		{2, 2024, 11300, "2024/A1", 100, 554, "M;P", "20/01/2024", "B41000000", "Cobro", 4},
		{3, 2024, 11300, "2024/B2", 50, 554, "M;P", "01/02/2024", "B41000000", "Cobro parcial", 2},
	})
}

func workbook(t *testing.T, headers []string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func (e *testEnv) uploadWorkbook(t *testing.T, data []byte) *Upload {
	t.Helper()
	upload, err := e.files.Save(context.Background(), "contraidos.xlsx", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return upload
}
