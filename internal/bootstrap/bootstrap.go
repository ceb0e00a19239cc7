// Package bootstrap builds the search pipeline from configuration. It is
// shared by the API server and the geoquery CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/config"
	"github.com/kailas-cloud/geosearch/internal/db"
	dbBadger "github.com/kailas-cloud/geosearch/internal/db/badger"
	"github.com/kailas-cloud/geosearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/geosearch/internal/db/redis"
	"github.com/kailas-cloud/geosearch/internal/extract"
	"github.com/kailas-cloud/geosearch/internal/metrics"
	"github.com/kailas-cloud/geosearch/internal/recognizer"
	"github.com/kailas-cloud/geosearch/internal/repository/shapecache"
	openaiRec "github.com/kailas-cloud/geosearch/internal/transport/openai"
	"github.com/kailas-cloud/geosearch/internal/transport/typesense"
	searchuc "github.com/kailas-cloud/geosearch/internal/usecase/search"
)

// Store opens the shape store selected by cfg.Driver. Network stores are
// waited on until ready.
func Store(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case db.DriverMemory:
		s, err := memory.NewStore(cfg.LRUSize)
		if err != nil {
			return nil, err
		}
		return s, nil
	case db.DriverRedis, db.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		return s, nil
	case db.DriverBadger:
		s, err := dbBadger.Open(dbBadger.Config{Path: cfg.BadgerPath, Logger: logger})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Recognizer builds the place recognizer for cfg.Recognizer.Driver. The
// returned remote recognizer is non-nil only for the openai driver and is
// meant for health checks. A nil PlaceNameRecognizer disables recognition.
func Recognizer(cfg config.Config, logger *zap.Logger) (extract.PlaceNameRecognizer, *openaiRec.Recognizer) {
	gazetteer := recognizer.NewGazetteer(cfg.Search.Gazetteer)

	switch cfg.Recognizer.Driver {
	case config.RecognizerProse:
		return recognizer.Chain{recognizer.NewProse(), gazetteer}, nil
	case config.RecognizerGazetteer:
		return gazetteer, nil
	case config.RecognizerOpenAI:
		remote := openaiRec.NewRecognizer(&openaiRec.Config{
			APIKey:   cfg.Recognizer.OpenAI.APIKey,
			BaseURL:  cfg.Recognizer.OpenAI.BaseURL,
			Model:    cfg.Recognizer.OpenAI.Model,
			Provider: config.RecognizerOpenAI,
			Logger:   logger,
		})
		return recognizer.Chain{remote, gazetteer}, remote
	default:
		return nil, nil
	}
}

// Extractor builds the query extractor with the configured vocabularies.
func Extractor(cfg config.Config, places extract.PlaceNameRecognizer, logger *zap.Logger) *extract.Extractor {
	e := extract.New(logger).WithPlaces(places, recognizer.NewCountries())
	if len(cfg.Search.Commodities) > 0 {
		e.WithCommodities(cfg.Search.Commodities)
	}
	if len(cfg.Search.Variants) > 0 {
		e.WithVariants(cfg.Search.Variants)
	}
	if len(cfg.Search.AmbiguousPlaces) > 0 {
		e.WithAmbiguousPlaces(cfg.Search.AmbiguousPlaces)
	}
	return e
}

// Backend builds the Typesense client.
func Backend(cfg config.BackendConfig, logger *zap.Logger) (*typesense.Client, error) {
	return typesense.New(typesense.Config{
		URL:        cfg.URL,
		APIKey:     cfg.APIKey,
		Collection: cfg.Collection,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})
}

// Search wires the search service over backend and store.
func Search(
	cfg config.SearchConfig,
	backend searchuc.Backend,
	store db.KVStore,
	prefix string,
	ext searchuc.Extractor,
	logger *zap.Logger,
) *searchuc.Service {
	cache := shapecache.New(store, prefix, metrics.ShapeCacheTotal, logger)
	return searchuc.New(backend, cache, ext, logger).
		WithDefaultRadius(cfg.DefaultRadiusKm).
		WithPaging(cfg.DefaultPerPage, cfg.MaxPerPage).
		WithMaxQueryLength(cfg.MaxQueryLength)
}
