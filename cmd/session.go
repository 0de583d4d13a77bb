package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/cache"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/catalog"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/config"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/cue"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/discovery"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/interpret"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/logging"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/store"
)

// session is everything a command needs: configuration, logger, the loaded
// catalog and a scorer that goes through the result cache when enabled.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	catalog   *catalog.Catalog
	engine    *scoring.Engine
	scorer    scoring.Scorer
	validator *cue.Validator
	closers   []func() error
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.LoadConfig(catalogDir)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	logger := logging.New(cfg.Log, os.Stderr)
	s := &session{cfg: cfg, logger: logger}

	cat, err := catalog.Load(cfg.Catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	if cfg.Store.DSN != "" {
		cat, err = mergeStore(ctx, cat, cfg.Store.DSN, logger)
		if err != nil {
			return nil, err
		}
	}
	s.catalog = cat

	var opts []scoring.Option
	rules := interpret.Default()
	if cfg.Rules != "" {
		data, err := os.ReadFile(cfg.Rules)
		if err != nil {
			return nil, fmt.Errorf("error reading rules: %w", err)
		}
		rules, err = interpret.Load(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scoring.WithRules(rules))
	}
	s.engine = scoring.NewEngine(opts...)
	s.scorer = s.engine

	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		s.closers = append(s.closers, client.Close)
		rc := cache.NewResultCache(client, cfg.Cache.Prefix, cfg.Cache.TTL, logger)
		s.scorer = cache.NewScorer(s.engine, rc, rules.Digest(), logger)
		logger.Debug("result cache enabled", zap.String("addr", cfg.Cache.Addr))
	}

	s.validator = cue.NewValidator()
	if err := s.validator.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("error loading schemas: %w", err)
	}
	return s, nil
}

// Close releases the cache connection and flushes the logger.
func (s *session) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// mergeStore overlays the instruments of the reference store on the catalog.
// A store instrument replaces a catalog instrument with the same code.
func mergeStore(ctx context.Context, cat *catalog.Catalog, dsn string, logger *zap.Logger) (*catalog.Catalog, error) {
	st, err := store.Open(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	fromStore, err := st.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading reference store: %w", err)
	}
	return overlay(cat, fromStore)
}

func overlay(cat *catalog.Catalog, insts []*instrument.Instrument) (*catalog.Catalog, error) {
	replaced := make(map[string]bool, len(insts))
	for _, inst := range insts {
		replaced[inst.Code] = true
	}
	merged := make([]*instrument.Instrument, 0, cat.Len()+len(insts))
	for _, inst := range cat.List() {
		if !replaced[inst.Code] {
			merged = append(merged, inst)
		}
	}
	return catalog.New(append(merged, insts...)...)
}

// loadAnswers reads, schema-checks and parses one answer document.
func (s *session) loadAnswers(path string) (*answers.AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	errs, err := s.validator.ValidateFile(path, data, cue.KindAnswers)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}
	return answers.Parse(data)
}

// score looks up the answer set's instrument and scores it.
func (s *session) score(set *answers.AnswerSet) (*instrument.Instrument, *scoring.ScoredResult, error) {
	inst, err := s.catalog.Get(set.Instrument)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.scorer.Score(inst, set)
	if err != nil {
		return nil, nil, err
	}
	for _, note := range res.Notes {
		s.logger.Debug("scoring note", zap.String("instrument", inst.Code), zap.String("note", note))
	}
	return inst, res, nil
}

// collectAnswerFiles expands directories into the answer documents under them.
// No arguments means the current directory.
func collectAnswerFiles(args []string, followSymlinks bool) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	return expandPaths(args, followSymlinks, discovery.FileTypeAnswers)
}

// expandPaths keeps file arguments as given and replaces each directory with
// the documents of type only under it; FileTypeUnknown means every known type.
func expandPaths(args []string, followSymlinks bool, only discovery.FileType) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		fd := discovery.NewFileDiscovery(arg, followSymlinks)
		var found []discovery.File
		if only == discovery.FileTypeUnknown {
			found, err = fd.DiscoverFiles()
		} else {
			found, err = fd.DiscoverType(only)
		}
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			files = append(files, f.Path)
		}
	}
	return files, nil
}
