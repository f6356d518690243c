package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
	"github.com/assumable-map/internal/infrastructure/leaflet"
	apperrors "github.com/assumable-map/internal/pkg/errors"
	"github.com/assumable-map/internal/pkg/metrics"
	"github.com/assumable-map/internal/repository/filecache"
	"github.com/assumable-map/internal/usecase"
	"github.com/assumable-map/internal/usecase/dto"
)

func newBuilder(
	t *testing.T,
	cacheDir string,
	mapCfg config.MapConfig,
	schools repository.SchoolRepository,
	schoolsEnabled bool,
	recorder *metrics.Recorder,
) *usecase.MapBuildUseCase {
	t.Helper()
	log := zap.NewNop()
	store := filecache.Open(cacheDir, log)
	loader := usecase.NewCacheLoader(store, recorder, log)
	overlay := usecase.NewOverlayFetcher(schools, schoolsEnabled, recorder, log)
	return usecase.NewMapBuildUseCase(
		loader,
		overlay,
		func() repository.MapCanvas { return leaflet.NewCanvas(log) },
		mapCfg,
		recorder,
		log,
	)
}

type countingSchoolRepo struct {
	schools []domain.School
	err     error
	calls   int
}

func (s *countingSchoolRepo) FindNearby(_ context.Context, _, _ float64) ([]domain.School, error) {
	s.calls++
	return s.schools, s.err
}

func TestMapBuild_EmptyCacheWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.html")
	builder := newBuilder(t, t.TempDir(), config.MapConfig{OutputPath: out}, nil, false, metrics.NewRecorder())

	report, err := builder.Build(context.Background())
	require.ErrorIs(t, err, apperrors.ErrEmptyCache)
	assert.False(t, report.ArtifactWritten)
	assert.NoFileExists(t, out)
}

func TestMapBuild_NothingToRenderWritesNothing(t *testing.T) {
	// A cache with files but zero usable points.
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", `{"response": {"MapList": {"ListingsSummaryVM": [{"CashFormat": "$1"}]}}}`)

	out := filepath.Join(t.TempDir(), "map.html")
	builder := newBuilder(t, dir, config.MapConfig{OutputPath: out}, nil, false, metrics.NewRecorder())

	report, err := builder.Build(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNothingToRender)
	assert.Equal(t, 1, report.Skipped)
	assert.NoFileExists(t, out)
}

func TestMapBuild_AllowEmptyWritesEmptyArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.html")
	builder := newBuilder(t, t.TempDir(), config.MapConfig{OutputPath: out, AllowEmpty: true}, nil, false, metrics.NewRecorder())

	report, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, report.ArtifactWritten)
	assert.FileExists(t, out)
}

func TestMapBuild_PropertyOnlyArtifact(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", listingPage("$350,000", 40.9, -73.8))
	writeCacheFile(t, dir, "page_0002.json", listingPage("$150,000", 40.8, -73.7))
	writeCacheFile(t, dir, "page_0003.json", listingPage("", 40.7, -73.6))

	out := filepath.Join(t.TempDir(), "map.html")
	recorder := metrics.NewRecorder()
	builder := newBuilder(t, dir, config.MapConfig{OutputPath: out}, nil, false, recorder)

	report, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Points)
	assert.Equal(t, dto.OverlayDisabled, report.Overlay)
	assert.True(t, report.ArtifactWritten)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "$300k+")
	assert.Contains(t, string(html), "$100k - $199k")
	assert.Contains(t, string(html), "Unknown")
	assert.NotContains(t, string(html), "Schools")

	groups := recorder.Find("property_groups")
	require.NotNil(t, groups)
	assert.Equal(t, 1, groups.Fields["$300k+"])
	assert.Equal(t, 1, groups.Fields["$100k - $199k"])
	assert.Equal(t, 1, groups.Fields["Unknown"])

	saved := recorder.Find("map_saved")
	require.NotNil(t, saved)
	assert.Equal(t, 3, saved.Fields["pins"])
}

func TestMapBuild_OverlayDisabledNeverCallsClient(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", listingPage("$350,000", 40.9, -73.8))

	repo := &countingSchoolRepo{}
	out := filepath.Join(t.TempDir(), "map.html")
	builder := newBuilder(t, dir, config.MapConfig{OutputPath: out}, repo, false, metrics.NewRecorder())

	_, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Zero(t, repo.calls)
}

func TestMapBuild_OverlayFailureStillProducesPropertyArtifact(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", listingPage("$350,000", 40.9, -73.8))

	repo := &countingSchoolRepo{err: errors.New("connection refused")}
	out := filepath.Join(t.TempDir(), "map.html")
	recorder := metrics.NewRecorder()
	builder := newBuilder(t, dir, config.MapConfig{OutputPath: out}, repo, true, recorder)

	report, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.OverlayFailed, report.Overlay)
	assert.Zero(t, report.Markers)
	assert.True(t, report.ArtifactWritten)
	assert.NotNil(t, recorder.Find("schools_failed"))

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "$300k+")
	assert.NotContains(t, string(html), "Schools")
}

func TestMapBuild_WithSchoolOverlay(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", listingPage("$350,000", 40.9, -73.8))

	repo := &countingSchoolRepo{schools: []domain.School{
		{Name: "PS 1", Lat: domain.Coord{Value: 40.91, Valid: true}, Lon: domain.Coord{Value: -73.81, Valid: true}, Rating: domain.Rating{Value: 9, Valid: true}},
		{Name: "St. Mary", Lat: domain.Coord{Value: 40.92, Valid: true}, Lon: domain.Coord{Value: -73.82, Valid: true}},
	}}
	out := filepath.Join(t.TempDir(), "map.html")
	builder := newBuilder(t, dir, config.MapConfig{OutputPath: out}, repo, true, metrics.NewRecorder())

	report, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, dto.OverlayLoaded, report.Overlay)
	assert.Equal(t, 2, report.Markers)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Schools")
	assert.Contains(t, string(html), "rating:9")
	assert.Contains(t, string(html), "rating:NA")
}

func TestMapBuild_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", listingPage("$350,000", 40.9, -73.8))
	writeCacheFile(t, dir, "page_0002.json", listingPage("$150,000", 40.8, -73.7))

	out := filepath.Join(t.TempDir(), "map.html")

	first := newBuilder(t, dir, config.MapConfig{OutputPath: out}, nil, false, metrics.NewRecorder())
	_, err := first.Build(context.Background())
	require.NoError(t, err)
	firstHTML, err := os.ReadFile(out)
	require.NoError(t, err)

	second := newBuilder(t, dir, config.MapConfig{OutputPath: out}, nil, false, metrics.NewRecorder())
	_, err = second.Build(context.Background())
	require.NoError(t, err)
	secondHTML, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, firstHTML, secondHTML)
}

func TestMapBuild_SaveFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "page_0001.json", listingPage("$350,000", 40.9, -73.8))

	// Output path whose parent "directory" is a regular file.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	out := filepath.Join(blocker, "map.html")

	builder := newBuilder(t, dir, config.MapConfig{OutputPath: out}, nil, false, metrics.NewRecorder())
	report, err := builder.Build(context.Background())
	require.ErrorIs(t, err, apperrors.ErrArtifactWrite)
	assert.False(t, report.ArtifactWritten)
	assert.NoFileExists(t, out)
}
