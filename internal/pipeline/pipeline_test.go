package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oryos/style-gateway/internal/scriptgen"
	"oryos/style-gateway/internal/store"
	"oryos/style-gateway/internal/usage"
	"oryos/style-gateway/models"
)

type fakeFetcher struct {
	calls   int
	failing map[string]bool
}

func (f *fakeFetcher) FetchBatch(_ context.Context, videoIDs []string) (*models.TranscriptBatch, error) {
	f.calls++
	batch := &models.TranscriptBatch{TotalRequested: len(videoIDs)}
	for _, id := range videoIDs {
		if f.failing[id] {
			batch.TotalFailed++
			batch.Errors = append(batch.Errors, models.TranscriptError{VideoID: id, Reason: "no transcript"})
			continue
		}
		batch.TotalSucceeded++
		batch.Results = append(batch.Results, models.TranscriptRecord{
			VideoID:    id,
			Transcript: "spoken words for " + id,
			WordCount:  4,
		})
	}
	return batch, nil
}

type fakeAnalyzer struct {
	calls int
	err   error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, creatorName string, transcripts []string) (*models.StyleProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.StyleProfile{
		CreatorName:    creatorName,
		VideosAnalyzed: len(transcripts),
		Signature: models.Signature{
			Keywords:     []string{"direct", "fast"},
			DominantTone: "energetic",
		},
	}, nil
}

type fakeGenerator struct {
	calls  int
	err    error
	script *scriptgen.Script
}

func (f *fakeGenerator) Generate(_ context.Context, _ scriptgen.Request) (*scriptgen.Script, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.script, nil
}

type fakeGuard struct {
	denied   map[usage.Kind]error
	recorded []usage.Kind
}

func (f *fakeGuard) Check(_ context.Context, _ string, kind usage.Kind) error {
	if err, ok := f.denied[kind]; ok {
		return err
	}
	return nil
}

func (f *fakeGuard) Record(_ context.Context, _ string, kind usage.Kind) error {
	f.recorded = append(f.recorded, kind)
	return nil
}

type fakeStore struct {
	creators map[uuid.UUID]*models.Creator
	scripts  []*models.GeneratedScript
}

func newFakeStore() *fakeStore {
	return &fakeStore{creators: map[uuid.UUID]*models.Creator{}}
}

func (f *fakeStore) CreateCreator(_ context.Context, c *models.Creator) (*models.Creator, error) {
	c.ID = uuid.New()
	f.creators[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCreator(_ context.Context, userID string, id uuid.UUID) (*models.Creator, error) {
	c, ok := f.creators[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateScript(_ context.Context, s *models.GeneratedScript) (*models.GeneratedScript, error) {
	s.ID = uuid.New()
	f.scripts = append(f.scripts, s)
	return s, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fixture struct {
	pipeline  *Pipeline
	fetcher   *fakeFetcher
	analyzer  *fakeAnalyzer
	generator *fakeGenerator
	guard     *fakeGuard
	store     *fakeStore
}

func newFixture() *fixture {
	f := &fixture{
		fetcher:  &fakeFetcher{failing: map[string]bool{}},
		analyzer: &fakeAnalyzer{},
		generator: &fakeGenerator{script: &scriptgen.Script{
			TitleSuggestion:          "Title",
			Hook:                     "Hook",
			ScriptContent:            "one two three",
			ThumbnailIdeas:           models.StringList{"idea"},
			ActualWordCount:          3,
			EstimatedDurationSeconds: 1,
		}},
		guard: &fakeGuard{denied: map[usage.Kind]error{}},
		store: newFakeStore(),
	}
	f.pipeline = New(f.fetcher, f.analyzer, f.generator, f.guard, f.store, f.store, testLogger())
	return f
}

func cloneRequest(inputs ...string) CloneRequest {
	return CloneRequest{
		UserID:      "user-1",
		CreatorName: "Some Creator",
		VideoInputs: inputs,
	}
}

func TestCloneSucceedsWithThreeTranscripts(t *testing.T) {
	f := newFixture()

	var percents []int
	req := cloneRequest("aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc")
	req.Progress = func(_ string, pct int) { percents = append(percents, pct) }

	creator, err := f.pipeline.Clone(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, creator.TotalVideosAnalyzed)
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}, creator.VideoIDs)
	assert.Equal(t, "Some Creator style", creator.StyleName)
	assert.NotEmpty(t, creator.PromptTemplate)
	assert.Len(t, f.store.creators, 1)
	assert.Equal(t, []usage.Kind{usage.KindAnalyses}, f.guard.recorded)

	require.NotEmpty(t, percents)
	assert.Equal(t, 100, percents[len(percents)-1])
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1], "progress must never go backwards")
	}
}

func TestCloneFailsWithTwoUsableTranscripts(t *testing.T) {
	f := newFixture()
	f.fetcher.failing["ccccccccccc"] = true

	_, err := f.pipeline.Clone(context.Background(), cloneRequest("aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"))
	assert.ErrorIs(t, err, ErrInsufficientTranscripts)
	assert.Equal(t, 0, f.analyzer.calls, "analysis must not run on an unreliable sample")
	assert.Empty(t, f.store.creators)
	assert.Empty(t, f.guard.recorded)
}

func TestCloneRejectsCardinality(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Clone(context.Background(), cloneRequest("aaaaaaaaaaa", "bbbbbbbbbbb"))
	assert.ErrorIs(t, err, ErrTooFewVideos)

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "aaaaaaaaaaa"
	}
	_, err = f.pipeline.Clone(context.Background(), cloneRequest(eleven...))
	assert.ErrorIs(t, err, ErrTooManyVideos)

	assert.Equal(t, 0, f.fetcher.calls)
}

func TestCloneQuotaDeniedBeforeAnyFetch(t *testing.T) {
	f := newFixture()
	quotaErr := &usage.QuotaError{Kind: usage.KindAnalyses, Current: 3, Limit: 3}
	f.guard.denied[usage.KindAnalyses] = quotaErr

	_, err := f.pipeline.Clone(context.Background(), cloneRequest("aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"))
	assert.ErrorIs(t, err, usage.ErrQuotaExceeded)
	assert.Equal(t, 0, f.fetcher.calls, "no transcript cost may be incurred past a denied quota")
}

func TestCloneAcceptsFullWatchURLs(t *testing.T) {
	f := newFixture()

	creator, err := f.pipeline.Clone(context.Background(), cloneRequest(
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/aaaaaaaaaaa",
		"https://www.youtube.com/shorts/bbbbbbbbbbb",
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"dQw4w9WgXcQ", "aaaaaaaaaaa", "bbbbbbbbbbb"}, creator.VideoIDs)
}

func TestCloneRejectsUnrecognizedReference(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Clone(context.Background(), cloneRequest("aaaaaaaaaaa", "bbbbbbbbbbb", "not a video"))
	assert.Error(t, err)
	assert.Equal(t, 0, f.fetcher.calls)
}

func TestCloneAnalyzerFailureStopsRun(t *testing.T) {
	f := newFixture()
	f.analyzer.err = errors.New("model unavailable")

	_, err := f.pipeline.Clone(context.Background(), cloneRequest("aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"))
	assert.Error(t, err)
	assert.Empty(t, f.store.creators)
	assert.Empty(t, f.guard.recorded)
}

func TestGenerateSucceeds(t *testing.T) {
	f := newFixture()
	creator, err := f.store.CreateCreator(context.Background(), &models.Creator{
		UserID:         "user-1",
		ChannelName:    "Some Creator",
		PromptTemplate: "template",
	})
	require.NoError(t, err)

	script, err := f.pipeline.Generate(context.Background(), GenerateRequest{
		UserID:    "user-1",
		CreatorID: creator.ID,
		Topic:     "go concurrency",
	})
	require.NoError(t, err)

	assert.Equal(t, "Title", script.TitleSuggestion)
	assert.Equal(t, scriptgen.DefaultFormat, script.Format)
	require.NotNil(t, script.CreatorID)
	assert.Equal(t, creator.ID, *script.CreatorID)
	assert.Len(t, f.store.scripts, 1)
	assert.Equal(t, []usage.Kind{usage.KindScripts}, f.guard.recorded)
}

func TestGenerateUnknownCreatorPersistsNothing(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.Generate(context.Background(), GenerateRequest{
		UserID:    "user-1",
		CreatorID: uuid.New(),
		Topic:     "go concurrency",
	})
	assert.ErrorIs(t, err, ErrCreatorNotFound)
	assert.Empty(t, f.store.scripts)
	assert.Empty(t, f.guard.recorded)
	assert.Equal(t, 0, f.generator.calls)
}

func TestGenerateOtherUsersCreatorIsNotFound(t *testing.T) {
	f := newFixture()
	creator, err := f.store.CreateCreator(context.Background(), &models.Creator{
		UserID:         "someone-else",
		PromptTemplate: "template",
	})
	require.NoError(t, err)

	_, err = f.pipeline.Generate(context.Background(), GenerateRequest{
		UserID:    "user-1",
		CreatorID: creator.ID,
		Topic:     "go concurrency",
	})
	assert.ErrorIs(t, err, ErrCreatorNotFound)
}

func TestGenerateQuotaDenied(t *testing.T) {
	f := newFixture()
	f.guard.denied[usage.KindScripts] = &usage.QuotaError{Kind: usage.KindScripts, Current: 10, Limit: 10}

	_, err := f.pipeline.Generate(context.Background(), GenerateRequest{
		UserID:    "user-1",
		CreatorID: uuid.New(),
		Topic:     "go concurrency",
	})
	assert.ErrorIs(t, err, usage.ErrQuotaExceeded)
	assert.Equal(t, 0, f.generator.calls)
}
