package guideline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Skufu/GoSummit/internal/assessment"
)

var ErrNotFound = errors.New("guideline version not found")

// Source resolves a guideline by version. An empty version selects the
// source's default.
type Source interface {
	Get(ctx context.Context, version string) (assessment.Guideline, error)
}

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectGuideline = `SELECT document FROM guideline_versions WHERE version = $1`

// Store serves the base guideline directly and reads other versions from
// the guideline_versions table, caching decoded values by version.
type Store struct {
	db     Querier
	base   assessment.Guideline
	cache  *lru.Cache[string, assessment.Guideline]
	logger *zap.Logger
}

// NewStore builds a store around base. db may be nil, in which case only
// base is available.
func NewStore(db Querier, base assessment.Guideline, cacheSize int, logger *zap.Logger) (*Store, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = 16
	}
	cache, err := lru.New[string, assessment.Guideline](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create guideline cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, base: base, cache: cache, logger: logger}, nil
}

func (s *Store) Get(ctx context.Context, version string) (assessment.Guideline, error) {
	if version == "" || version == s.base.Version {
		return s.base, nil
	}
	if g, ok := s.cache.Get(version); ok {
		return g, nil
	}
	if s.db == nil {
		return assessment.Guideline{}, fmt.Errorf("%w: %s", ErrNotFound, version)
	}

	var doc []byte
	if err := s.db.QueryRow(ctx, selectGuideline, version).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assessment.Guideline{}, fmt.Errorf("%w: %s", ErrNotFound, version)
		}
		return assessment.Guideline{}, fmt.Errorf("query guideline %s: %w", version, err)
	}

	g := assessment.DefaultGuideline()
	if err := json.Unmarshal(doc, &g); err != nil {
		return assessment.Guideline{}, fmt.Errorf("decode guideline %s: %w", version, err)
	}
	g.Version = version
	if err := g.Validate(); err != nil {
		s.logger.Warn("stored guideline rejected", zap.String("version", version), zap.Error(err))
		return assessment.Guideline{}, err
	}

	s.cache.Add(version, g)
	s.logger.Info("guideline loaded", zap.String("version", version))
	return g, nil
}

// Base returns the guideline served for an empty version.
func (s *Store) Base() assessment.Guideline { return s.base }
