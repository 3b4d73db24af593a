package save

import (
	"fmt"
	"time"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	scoresObject = "scores"
	bestProperty = "best"
)

// Record is the persisted best run.
type Record struct {
	Score    int       `yaml:"score"`
	RunID    string    `yaml:"run_id,omitempty"`
	Achieved time.Time `yaml:"achieved"`
}

// BestScore keeps the highest score across runs. A nil manager keeps it in
// memory only.
type BestScore struct {
	manager *gdata.Manager
	best    Record
	logger  *zap.Logger
}

// Open loads the best score stored under appName. When the platform store
// cannot be opened the returned BestScore still works without persistence.
func Open(appName string, logger *zap.Logger) (*BestScore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Warn("save data unavailable", zap.Error(err))
		return NewBestScore(nil, logger), fmt.Errorf("save: open %s: %w", appName, err)
	}
	bs := NewBestScore(manager, logger)
	if err := bs.Load(); err != nil {
		return bs, err
	}
	return bs, nil
}

func NewBestScore(manager *gdata.Manager, logger *zap.Logger) *BestScore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BestScore{manager: manager, logger: logger}
}

// Load reads the stored record. A missing record is not an error.
func (b *BestScore) Load() error {
	if b.manager == nil || !b.manager.ObjectPropExists(scoresObject, bestProperty) {
		return nil
	}
	data, err := b.manager.LoadObjectProp(scoresObject, bestProperty)
	if err != nil {
		return fmt.Errorf("save: load best score: %w", err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("save: decode best score: %w", err)
	}
	b.best = rec
	return nil
}

func (b *BestScore) Best() int {
	return b.best.Score
}

func (b *BestScore) Record() Record {
	return b.best
}

// Submit stores score if it beats the current best and reports whether it did.
func (b *BestScore) Submit(score int, runID string) (bool, error) {
	if score <= b.best.Score {
		return false, nil
	}
	b.best = Record{Score: score, RunID: runID, Achieved: time.Now().UTC()}
	b.logger.Info("new best score", zap.Int("score", score), zap.String("run", runID))

	if b.manager == nil {
		return true, nil
	}
	data, err := yaml.Marshal(b.best)
	if err != nil {
		return true, fmt.Errorf("save: encode best score: %w", err)
	}
	if err := b.manager.SaveObjectProp(scoresObject, bestProperty, data); err != nil {
		return true, fmt.Errorf("save: store best score: %w", err)
	}
	return true, nil
}
