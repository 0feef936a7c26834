package response

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockExporter is a mock implementation of the Exporter interface for testing
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Run(ctx context.Context, req export.Request) (*export.Result, error) {
	args := m.Called(ctx, req.SurveyID, req.OutputDir)
	if content, ok := args.Get(0).(string); ok {
		path := export.ArtifactPath(req.OutputDir, req.SurveyName, req.Options.Format)
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, err
		}
		return &export.Result{
			Job:          export.Job{SurveyID: req.SurveyID, ProgressID: "ES_1", Status: export.StatusComplete, FileID: "f1"},
			ArtifactPath: path,
			Bytes:        int64(len(content)),
		}, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockHistory is a mock implementation of the History interface for testing
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Append(ctx context.Context, entry HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistory) List(ctx context.Context, surveyID string, limit int) ([]HistoryEntry, error) {
	args := m.Called(ctx, surveyID, limit)
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

const secondCSV = "ResponseId,Q1\nResponse ID,Question\nImportId,QID1\nR_9,later\n"

func newTestStore(t *testing.T, exp Exporter, hist History) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(Config{SurveyID: "SV_1", SurveyName: "Feedback", OutputDir: dir}, exp, hist, slog.Default()), dir
}

func TestStore_Materialize_Idempotent(t *testing.T) {
	// Arrange
	exp := new(MockExporter)
	hist := new(MockHistory)
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(sampleCSV, nil).Once()
	hist.On("Append", mock.Anything, mock.MatchedBy(func(e HistoryEntry) bool {
		return e.SurveyID == "SV_1" && e.FileID == "f1" && e.Responses == 2 && e.Digest != ""
	})).Return(nil).Once()
	store, _ := newTestStore(t, exp, hist)
	ctx := context.Background()

	// Act
	first, err := store.Materialize(ctx, false)
	require.NoError(t, err)
	second, err := store.Materialize(ctx, false)
	require.NoError(t, err)

	// Assert
	assert.Same(t, first, second)
	assert.Equal(t, []string{"R_1", "R_2"}, second.Table.IDs())
	exp.AssertNumberOfCalls(t, "Run", 1)
	hist.AssertExpectations(t)
}

func TestStore_Materialize_FromExistingArtifact(t *testing.T) {
	exp := new(MockExporter)
	store, dir := newTestStore(t, exp, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Feedback.csv"), []byte(sampleCSV), 0o644))

	snap, err := store.Materialize(context.Background(), false)

	require.NoError(t, err)
	assert.Len(t, snap.Records, 2)
	exp.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_Refetch_ReplacesSnapshot(t *testing.T) {
	exp := new(MockExporter)
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(sampleCSV, nil).Once()
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(secondCSV, nil).Once()
	store, _ := newTestStore(t, exp, nil)
	ctx := context.Background()

	before, err := store.Materialize(ctx, false)
	require.NoError(t, err)

	newDir := filepath.Join(t.TempDir(), "other")
	after, err := store.Refetch(ctx, newDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"R_1", "R_2"}, before.Table.IDs())
	assert.Equal(t, []string{"R_9"}, after.Table.IDs())
	assert.Equal(t, newDir, store.OutputDir())
	assert.Equal(t, filepath.Join(newDir, "Feedback.csv"), after.Path)
	assert.NotEqual(t, before.Digest, after.Digest)
}

func TestStore_Refetch_FailureKeepsSnapshot(t *testing.T) {
	exp := new(MockExporter)
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(sampleCSV, nil).Once()
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(nil, model.Remote("export.start", errors.New("503"))).Once()
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(secondCSV, nil).Once()
	store, dir := newTestStore(t, exp, nil)
	ctx := context.Background()

	before, err := store.Materialize(ctx, false)
	require.NoError(t, err)

	newDir := filepath.Join(t.TempDir(), "other")
	_, err = store.Refetch(ctx, newDir)
	require.ErrorIs(t, err, model.ErrRemote)
	assert.Same(t, before, store.Snapshot())
	assert.Equal(t, dir, store.OutputDir())
	assert.Equal(t, filepath.Join(dir, "Feedback.csv"), store.ArtifactPath())

	// повторный запрос в тот же каталог снова идет в экспорт
	after, err := store.Refetch(ctx, newDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"R_9"}, after.Table.IDs())
	assert.Equal(t, newDir, store.OutputDir())
	exp.AssertNumberOfCalls(t, "Run", 3)
}

func TestStore_Materialize_ConcurrentRefresh(t *testing.T) {
	exp := new(MockExporter)
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(sampleCSV, nil)
	store, _ := newTestStore(t, exp, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := store.Materialize(context.Background(), true)
			assert.NoError(t, err)
			assert.Len(t, snap.Records, 2)
		}()
	}
	wg.Wait()

	exp.AssertNumberOfCalls(t, "Run", 8)
	assert.Len(t, store.Snapshot().Records, 2)
}

func TestStore_Materialize_NoOutputLocation(t *testing.T) {
	exp := new(MockExporter)
	store := NewStore(Config{SurveyID: "SV_1", SurveyName: "S"}, exp, nil, slog.Default())

	_, err := store.Materialize(context.Background(), false)

	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.ErrorIs(t, err, export.ErrNoOutputLocation)
	exp.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_Response(t *testing.T) {
	exp := new(MockExporter)
	exp.On("Run", mock.Anything, "SV_1", mock.Anything).Return(sampleCSV, nil).Once()
	store, _ := newTestStore(t, exp, nil)
	ctx := context.Background()

	rec, err := store.Response(ctx, "R_1", false)
	require.NoError(t, err)
	assert.Equal(t, "Friend", rec.Answers["Q1"])

	_, err = store.Response(ctx, "R_404", false)
	assert.ErrorIs(t, err, ErrNotFound)
}
