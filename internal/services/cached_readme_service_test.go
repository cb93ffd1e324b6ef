package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/readmegen/internal/cache"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
)

type hitLog struct {
	mu      sync.Mutex
	records []cost.ActivityRecord
}

func (h *hitLog) SaveActivity(r cost.ActivityRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	return c
}

func TestCachedReadmeService(t *testing.T) {
	req := models.GenerationRequest{Analysis: testAnalysis(), Model: "Llama 3", Tone: models.ToneCasual}
	generated := &models.GeneratedDocument{
		Markdown:  completeReadme(),
		Provider:  "groq",
		Model:     "llama-3.3-70b-versatile",
		Attempts:  1,
		RequestID: "req-1",
		Usage:     &models.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
	}

	t.Run("second identical request is a cache hit", func(t *testing.T) {
		// Arrange
		inner := new(MockReadmeGenerator)
		inner.On("GenerateReadme", mock.Anything, req).Return(generated, nil).Once()
		hits := &hitLog{}
		svc := NewCachedReadmeService(inner, newTestCache(t), hits, "t=0.7", "generate")

		// Act
		first, err := svc.GenerateReadme(context.Background(), req)
		require.NoError(t, err)
		second, err := svc.GenerateReadme(context.Background(), req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, generated, first)
		assert.Equal(t, generated.Markdown, second.Markdown)
		assert.Equal(t, "groq", second.Provider)
		assert.True(t, second.Usage.CacheHit)
		assert.NotEqual(t, "req-1", second.RequestID)
		inner.AssertNumberOfCalls(t, "GenerateReadme", 1)
		require.Len(t, hits.records, 1)
		assert.True(t, hits.records[0].CacheHit)
		assert.Equal(t, "generate", hits.records[0].Command)
	})

	t.Run("different model misses", func(t *testing.T) {
		other := req
		other.Model = "Gemini 2.0"
		inner := new(MockReadmeGenerator)
		inner.On("GenerateReadme", mock.Anything, mock.Anything).Return(generated, nil).Twice()
		svc := NewCachedReadmeService(inner, newTestCache(t), nil, "", "generate")

		_, err := svc.GenerateReadme(context.Background(), req)
		require.NoError(t, err)
		_, err = svc.GenerateReadme(context.Background(), other)

		require.NoError(t, err)
		inner.AssertNumberOfCalls(t, "GenerateReadme", 2)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		inner := new(MockReadmeGenerator)
		inner.On("GenerateReadme", mock.Anything, req).Return(nil, errors.ErrRateLimit).Once()
		inner.On("GenerateReadme", mock.Anything, req).Return(generated, nil).Once()
		svc := NewCachedReadmeService(inner, newTestCache(t), nil, "", "generate")

		_, err := svc.GenerateReadme(context.Background(), req)
		require.Error(t, err)
		doc, err := svc.GenerateReadme(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, generated, doc)
		inner.AssertNumberOfCalls(t, "GenerateReadme", 2)
	})

	t.Run("invalid requests bypass the cache", func(t *testing.T) {
		bad := models.GenerationRequest{Model: "Llama 3"}
		inner := new(MockReadmeGenerator)
		inner.On("GenerateReadme", mock.Anything, bad).Return(nil, errors.ErrInvalidInput).Twice()
		svc := NewCachedReadmeService(inner, newTestCache(t), nil, "", "generate")

		_, err1 := svc.GenerateReadme(context.Background(), bad)
		_, err2 := svc.GenerateReadme(context.Background(), bad)

		assert.Equal(t, errors.TypeInvalidInput, errors.TypeOf(err1))
		assert.Equal(t, errors.TypeInvalidInput, errors.TypeOf(err2))
		inner.AssertNumberOfCalls(t, "GenerateReadme", 2)
	})
}
