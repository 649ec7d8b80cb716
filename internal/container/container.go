// Package container provides dependency injection for the tbs-price-summary application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/tbs-price-summary/internal/aggregator"
	"fjacquet/tbs-price-summary/internal/classifier"
	"fjacquet/tbs-price-summary/internal/config"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/parser"
	"fjacquet/tbs-price-summary/internal/report"
	"fjacquet/tbs-price-summary/internal/store"
	"fjacquet/tbs-price-summary/internal/summarizer"
	"fjacquet/tbs-price-summary/internal/validation"
)

// Container holds all application dependencies. It is immutable after creation;
// dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	history    *store.PriceHistoryStore
	classifier *classifier.Classifier
	aggregator *aggregator.Aggregator
	renderer   *report.Renderer
	summarizer *summarizer.Summarizer
}

// NewContainer creates and wires all application dependencies, logging through a
// logrus adapter configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	var history *store.PriceHistoryStore
	if cfg.History.File != "" {
		history = store.NewPriceHistoryStore(cfg.History.File, logger)
		if err := history.Load(); err != nil {
			return nil, fmt.Errorf("failed to load price history: %w", err)
		}
		if info, err := os.Stat(history.Path()); err == nil {
			if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
				logger.WithError(err).Warn("Price history file is readable by others",
					logging.Field{Key: logging.FieldFile, Value: history.Path()})
			}
		}
	}

	lower, upper := cfg.PermanentBand()
	opts := []classifier.Option{
		classifier.WithPermanentBand(lower, upper),
		classifier.WithTolerance(cfg.ToleranceDecimal()),
		classifier.WithLogger(logger),
	}
	if history != nil {
		opts = append(opts, classifier.WithPriorPriceLookup(history))
	}
	cls := classifier.New(opts...)

	agg := aggregator.New(aggregator.ManufacturerOrder{
		Priority:   cfg.Manufacturers.Priority,
		Unlisted:   aggregator.UnlistedOrder(cfg.Manufacturers.UnlistedOrder),
		OtherLabel: cfg.Manufacturers.OtherLabel,
	}, logger)

	renderer, err := report.NewRenderer(report.RendererOptions{
		OpeningTemplate: cfg.Document.OpeningTemplate,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Container initialized",
		logging.Field{Key: "history_enabled", Value: history != nil},
		logging.Field{Key: "unlisted_order", Value: cfg.Manufacturers.UnlistedOrder})

	return &Container{
		logger:     logger,
		config:     cfg,
		history:    history,
		classifier: cls,
		aggregator: agg,
		renderer:   renderer,
		summarizer: summarizer.New(cls, agg, renderer, logger),
	}, nil
}

// GetLogger returns the logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetHistory returns the price history store, or nil when history is disabled.
func (c *Container) GetHistory() *store.PriceHistoryStore {
	return c.history
}

// GetClassifier returns the classifier.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetSummarizer returns the summarizer.
func (c *Container) GetSummarizer() *summarizer.Summarizer {
	return c.summarizer
}

// ParserOptions returns the report layout options from the configuration.
func (c *Container) ParserOptions() parser.Options {
	return parser.Options{
		SkipRows: c.config.Input.SkipRows,
		Sheet:    c.config.Input.Sheet,
	}
}

// ParseReport parses the report at path with the parser matching its extension.
func (c *Container) ParseReport(path string) (*parser.Result, error) {
	return parser.ParseFile(path, c.ParserOptions(), c.logger.WithField(logging.FieldInputFile, filepath.Base(path)))
}
