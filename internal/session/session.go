// Package session is the startup phase shared by every surface: it resolves
// the project configuration, loads the artifacts exactly once, and hands out
// a read-only predictor.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/segmenter/internal/artifact"
	"github.com/kingrea/segmenter/internal/config"
	"github.com/kingrea/segmenter/internal/logbook"
	"github.com/kingrea/segmenter/internal/logging"
	"github.com/kingrea/segmenter/internal/model"
	"github.com/kingrea/segmenter/internal/segment"
)

// Session owns the loaded artifacts for the lifetime of the process.
type Session struct {
	Config    *config.Config
	Loaded    *model.Loaded
	Predictor *segment.Predictor
	Logger    *logging.Logger
	Journal   *logbook.Logbook

	store *artifact.Store
	newID func() string
}

// Option customizes Open.
type Option func(*Session)

// WithLogger overrides the project file logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithStore overrides the artifact store.
func WithStore(store *artifact.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithIDGenerator overrides request id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open initializes the project directory, loads both artifacts, and builds
// the predictor. Any artifact failure is returned as-is so callers can abort
// startup with the offending path.
func Open(ctx context.Context, projectDir string, opts ...Option) (*Session, error) {
	if err := config.InitDir(projectDir); err != nil {
		return nil, fmt.Errorf("session: init project dir: %w", err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Config: cfg,
		store:  artifact.NewStore(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		if s.Logger, err = logging.New(cfg.ProjectDir); err != nil {
			return nil, err
		}
	}
	if s.Journal, err = logbook.New(filepath.Join(cfg.LogsDir(), "journal.log")); err != nil {
		s.Logger.Warn("journal unavailable", "error", err)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, s.fail(err)
	}
	started := time.Now()
	paths := cfg.ArtifactPaths()
	loaded, err := model.Load(ctx, s.store, paths)
	if err != nil {
		s.Logger.Error("artifact load failed", "scaler", paths.Scaler, "model", paths.Model, "error", err)
		s.Journal.Error("artifact load failed: %v", err)
		return nil, s.fail(err)
	}
	predictor, err := segment.NewPredictor(loaded.Artifacts(), catalog)
	if err != nil {
		return nil, s.fail(err)
	}
	if missing := catalog.Covers(predictor.NumClusters()); len(missing) > 0 {
		s.Logger.Warn("clusters without a segment label", "clusters", missing)
	}
	s.Loaded = loaded
	s.Predictor = predictor
	s.Logger.Info("artifacts loaded",
		"scaler", paths.Scaler,
		"model", paths.Model,
		"clusters", predictor.NumClusters(),
		"elapsed", time.Since(started),
	)
	s.Journal.Info("artifacts loaded · %d clusters", predictor.NumClusters())
	return s, nil
}

func (s *Session) fail(err error) error {
	_ = s.Logger.Close()
	return err
}

// Predict runs one prediction and records it under a fresh request id.
func (s *Session) Predict(record segment.FeatureRecord) (string, segment.Prediction, error) {
	id := s.newID()
	prediction, err := s.Predictor.Predict(record)
	if err != nil {
		s.Logger.Warn("prediction rejected", "request", id, "error", err)
		s.Journal.Rejected(id, err)
		return id, segment.Prediction{}, err
	}
	s.Logger.Info("prediction",
		"request", id,
		"cluster", prediction.Cluster,
		"known", prediction.Known(),
	)
	s.Journal.Prediction(id, prediction)
	return id, prediction, nil
}

// Close releases the log file. The artifacts stay valid until process exit.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	return s.Logger.Close()
}
