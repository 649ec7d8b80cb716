// Package store keeps the pre-LTO price history that lets an End LTO be recognised
// as a permanent change when the price does not return to its earlier level.
package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"fjacquet/tbs-price-summary/internal/fileutils"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultHistoryFile is used when no history file is configured.
const DefaultHistoryFile = "price_history.yaml"

const historyVersion = 1

// PriceLevel is the price a product carried before its current LTO.
type PriceLevel struct {
	Key           string `yaml:"-"`
	ArticleNumber string `yaml:"article_number,omitempty"`
	Manufacturer  string `yaml:"manufacturer"`
	Product       string `yaml:"product"`
	PackSize      string `yaml:"pack_size"`
	PreLTOPrice   string `yaml:"pre_lto_price"`
	LTOPrice      string `yaml:"lto_price"`
	Since         string `yaml:"since"`
}

// Price returns PreLTOPrice as a decimal.
func (l PriceLevel) Price() (decimal.Decimal, error) {
	return decimal.NewFromString(l.PreLTOPrice)
}

type historyFile struct {
	Version   int                   `yaml:"version"`
	UpdatedAt time.Time             `yaml:"updated_at"`
	Levels    map[string]PriceLevel `yaml:"levels"`
}

// PriceHistoryStore is a YAML backed map of pre-LTO price levels keyed by
// models.PriceChangeRecord.HistoryKey. It is safe for concurrent use.
type PriceHistoryStore struct {
	path   string
	logger logging.Logger

	mu     sync.RWMutex
	levels map[string]PriceLevel
	dirty  bool
}

// NewPriceHistoryStore creates an empty store bound to path. Call Load to read it.
func NewPriceHistoryStore(path string, logger logging.Logger) *PriceHistoryStore {
	if path == "" {
		path = DefaultHistoryFile
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &PriceHistoryStore{
		path:   path,
		logger: logger,
		levels: make(map[string]PriceLevel),
	}
}

// Path returns the backing file.
func (s *PriceHistoryStore) Path() string {
	return s.path
}

// Load reads the history file. A missing file leaves the store empty.
func (s *PriceHistoryStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No price history yet", logging.Field{Key: logging.FieldFile, Value: s.path})
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading price history: %w", err)
	}

	var file historyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("error parsing price history %s: %w", s.path, err)
	}

	levels := make(map[string]PriceLevel, len(file.Levels))
	for key, level := range file.Levels {
		if _, err := level.Price(); err != nil {
			s.logger.Warn("Ignoring price history entry with invalid price",
				logging.Field{Key: "key", Value: key},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
			continue
		}
		level.Key = key
		levels[key] = level
	}

	s.mu.Lock()
	s.levels = levels
	s.dirty = false
	s.mu.Unlock()

	s.logger.Debug("Loaded price history",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(levels)})
	return nil
}

// Save writes the history file if it changed since the last Load or Save.
func (s *PriceHistoryStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	data, err := yaml.Marshal(historyFile{
		Version:   historyVersion,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
		Levels:    s.levels,
	})
	if err != nil {
		return fmt.Errorf("error marshaling price history: %w", err)
	}
	if err := fileutils.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("error writing price history: %w", err)
	}

	s.dirty = false
	s.logger.Debug("Saved price history",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(s.levels)})
	return nil
}

// PriorPrice returns the stored pre-LTO price for key.
func (s *PriceHistoryStore) PriorPrice(key string) (decimal.Decimal, bool) {
	s.mu.RLock()
	level, ok := s.levels[key]
	s.mu.RUnlock()
	if !ok {
		return decimal.Zero, false
	}
	price, err := level.Price()
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}

// Apply records the outcome of a run: a Begin LTO stores the old price as the
// pre-LTO level unless one is already held (an LTO deepening keeps the original
// level), and any End LTO clears the level. It returns how many levels were
// stored and cleared.
func (s *PriceHistoryStore) Apply(records []models.ClassifiedRecord, effective models.EffectiveDate) (stored, cleared int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		key := rec.HistoryKey()
		switch rec.Category {
		case models.CategoryBeginLTO:
			if _, held := s.levels[key]; held {
				continue
			}
			s.levels[key] = PriceLevel{
				Key:           key,
				ArticleNumber: rec.ArticleNumber,
				Manufacturer:  rec.Manufacturer,
				Product:       rec.ProductName,
				PackSize:      rec.PackSizeLabel + rec.BCTCIndicator,
				PreLTOPrice:   rec.OldPrice.StringFixed(2),
				LTOPrice:      rec.NewPrice.StringFixed(2),
				Since:         effective.ISO(),
			}
			stored++
		case models.CategoryEndLTO, models.CategoryEndLTOAndPermanentChange:
			if _, held := s.levels[key]; held {
				delete(s.levels, key)
				cleared++
			}
		}
	}

	if stored > 0 || cleared > 0 {
		s.dirty = true
	}
	return stored, cleared
}

// List returns the stored levels sorted by key.
func (s *PriceHistoryStore) List() []PriceLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PriceLevel, 0, len(s.levels))
	for _, level := range s.levels {
		out = append(out, level)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Remove deletes the level stored under key and reports whether one existed.
func (s *PriceHistoryStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.levels[key]; !ok {
		return false
	}
	delete(s.levels, key)
	s.dirty = true
	return true
}

// Clear removes every level.
func (s *PriceHistoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.levels) > 0 {
		s.levels = make(map[string]PriceLevel)
		s.dirty = true
	}
}
