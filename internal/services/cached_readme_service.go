package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thomas-vilte/readmegen/internal/ai"
	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
)

// ResponseCache stores accepted documents by content hash.
// *cache.Cache satisfies it.
type ResponseCache interface {
	GenerateHash(parts ...string) string
	Get(hash string) (json.RawMessage, bool, error)
	Set(hash string, value interface{}) error
}

type HitRecorder interface {
	SaveActivity(record cost.ActivityRecord) error
}

// CachedReadmeService serves repeated requests from the response cache.
// Only accepted documents are stored; failures always reach the inner
// generator.
type CachedReadmeService struct {
	inner    ports.ReadmeGenerator
	cache    ResponseCache
	recorder HitRecorder
	salt     string
	command  string
	now      func() time.Time
}

// NewCachedReadmeService wraps inner. salt is mixed into every key so a
// change in sampling settings invalidates earlier entries. recorder may be
// nil.
func NewCachedReadmeService(inner ports.ReadmeGenerator, cache ResponseCache, recorder HitRecorder, salt, command string) *CachedReadmeService {
	return &CachedReadmeService{
		inner:    inner,
		cache:    cache,
		recorder: recorder,
		salt:     salt,
		command:  command,
		now:      time.Now,
	}
}

func (s *CachedReadmeService) GenerateReadme(ctx context.Context, req models.GenerationRequest) (*models.GeneratedDocument, error) {
	key, ok := s.key(req)
	if !ok {
		return s.inner.GenerateReadme(ctx, req)
	}

	if doc, hit := s.lookup(ctx, key); hit {
		logger.Info(ctx, "readme served from cache", "model", doc.Model, "provider", doc.Provider)
		s.recordHit(ctx, doc)
		return doc, nil
	}

	doc, err := s.inner.GenerateReadme(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, doc); err != nil {
		logger.Warn(ctx, "failed to store readme in cache", "error", err)
	}
	return doc, nil
}

// key hashes the rendered prompt together with the requested display name.
// Requests the prompt builder rejects are not cached.
func (s *CachedReadmeService) key(req models.GenerationRequest) (string, bool) {
	tone := req.Tone
	if tone == "" {
		tone = models.ToneProfessional
	}
	prompt, err := ai.BuildPrompt(req.Analysis, tone, ai.WithSections(req.Sections))
	if err != nil {
		return "", false
	}
	model := strings.ToLower(strings.TrimSpace(req.Model))
	return s.cache.GenerateHash("readme", model, s.salt, prompt), true
}

func (s *CachedReadmeService) lookup(ctx context.Context, key string) (*models.GeneratedDocument, bool) {
	raw, found, err := s.cache.Get(key)
	if err != nil {
		logger.Warn(ctx, "failed to read readme cache", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var doc models.GeneratedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn(ctx, "ignoring corrupt cache entry", "error", err)
		return nil, false
	}

	doc.RequestID = uuid.NewString()
	doc.Attempts = 0
	doc.Usage = &models.TokenUsage{Model: doc.Model, CacheHit: true}
	return &doc, true
}

func (s *CachedReadmeService) recordHit(ctx context.Context, doc *models.GeneratedDocument) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.SaveActivity(cost.ActivityRecord{
		Timestamp: s.now(),
		Command:   s.command,
		Provider:  doc.Provider,
		Model:     doc.Model,
		CacheHit:  true,
	})
	if err != nil {
		logger.Warn(ctx, "failed to record cache hit", "error", err)
	}
}
