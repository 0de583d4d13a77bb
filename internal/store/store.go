// Package store loads instrument reference data from PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// ErrNotFound is returned for an instrument code with no row.
var ErrNotFound = errors.New("instrument not found in store")

const (
	queryCodes = `SELECT code FROM instruments ORDER BY code`

	queryInstrument = `
		SELECT code, name, family, version, min_age_months, max_age_months, pattern_variant
		FROM instruments
		WHERE code = $1`

	queryDomains = `
		SELECT code, name, position, inverted_scale, disabled
		FROM domains
		WHERE instrument_code = $1
		ORDER BY position, code`

	queryItems = `
		SELECT domain_code, number, global_number, text, response_type, metadata, disabled
		FROM items
		WHERE instrument_code = $1
		ORDER BY global_number`

	queryNorms = `
		SELECT domain_code, raw_min, raw_max, t_score, percentile, classification
		FROM norm_rows
		WHERE instrument_code = $1
		ORDER BY domain_code, raw_min`

	querySections = `
		SELECT name, item_from, item_to
		FROM pattern_sections
		WHERE instrument_code = $1
		ORDER BY item_from`

	queryQuadrants = `
		SELECT name, item_number
		FROM pattern_quadrants
		WHERE instrument_code = $1
		ORDER BY name, item_number`

	queryPatternRows = `
		SELECT pattern, level, sum_min, sum_max
		FROM pattern_rows
		WHERE instrument_code = $1
		ORDER BY pattern, sum_min`
)

// Store reads instruments, domains, items, norm rows and pattern tables.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(db, logger), nil
}

// New wraps an open database handle.
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Codes lists every stored instrument code.
func (s *Store) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, queryCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan instrument code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// LoadAll loads and validates every stored instrument.
func (s *Store) LoadAll(ctx context.Context) ([]*instrument.Instrument, error) {
	codes, err := s.Codes(ctx)
	if err != nil {
		return nil, err
	}

	insts := make([]*instrument.Instrument, 0, len(codes))
	for _, code := range codes {
		inst, err := s.LoadInstrument(ctx, code)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	s.logger.Debug("Loaded instruments from store", zap.Int("count", len(insts)))
	return insts, nil
}

// LoadInstrument assembles one instrument and runs the structural checks;
// a fatal finding is returned as a *instrument.ReferenceError.
func (s *Store) LoadInstrument(ctx context.Context, code string) (*instrument.Instrument, error) {
	inst, variant, err := s.loadHeader(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.loadDomains(ctx, inst); err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, inst); err != nil {
		return nil, err
	}
	if err := s.loadNorms(ctx, inst); err != nil {
		return nil, err
	}
	if variant.Valid || inst.Family == types.FamilySensoryProfile {
		inst.Patterns = &instrument.PatternSpec{Variant: variant.String}
		if err := s.loadPatterns(ctx, inst); err != nil {
			return nil, err
		}
	}

	for _, f := range instrument.Validate(inst) {
		if f.Severity == types.SeverityWarning {
			s.logger.Warn("instrument reference data",
				zap.String("instrument", inst.Code),
				zap.String("subject", f.Subject),
				zap.String("message", f.Message))
		}
	}
	if err := inst.Check(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *Store) loadHeader(ctx context.Context, code string) (*instrument.Instrument, sql.NullString, error) {
	var (
		inst    instrument.Instrument
		version sql.NullString
		variant sql.NullString
		minAge  sql.NullInt64
		maxAge  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, queryInstrument, code).Scan(
		&inst.Code, &inst.Name, &inst.Family, &version, &minAge, &maxAge, &variant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, variant, fmt.Errorf("%w: %s", ErrNotFound, code)
		}
		return nil, variant, fmt.Errorf("failed to query instrument %s: %w", code, err)
	}
	inst.Version = version.String
	inst.AgeRange = instrument.AgeRange{MinMonths: int(minAge.Int64), MaxMonths: int(maxAge.Int64)}
	return &inst, variant, nil
}

func (s *Store) loadDomains(ctx context.Context, inst *instrument.Instrument) error {
	rows, err := s.db.QueryContext(ctx, queryDomains, inst.Code)
	if err != nil {
		return fmt.Errorf("failed to query domains of %s: %w", inst.Code, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d    instrument.Domain
			name sql.NullString
		)
		if err := rows.Scan(&d.Code, &name, &d.Position, &d.InvertedScale, &d.Disabled); err != nil {
			return fmt.Errorf("failed to scan domain of %s: %w", inst.Code, err)
		}
		d.Name = name.String
		inst.Domains = append(inst.Domains, d)
	}
	return rows.Err()
}

func (s *Store) loadItems(ctx context.Context, inst *instrument.Instrument) error {
	rows, err := s.db.QueryContext(ctx, queryItems, inst.Code)
	if err != nil {
		return fmt.Errorf("failed to query items of %s: %w", inst.Code, err)
	}
	defer rows.Close()

	index := make(map[string]int, len(inst.Domains))
	for i, d := range inst.Domains {
		index[d.Code] = i
	}

	for rows.Next() {
		var (
			domain string
			it     instrument.Item
			text   sql.NullString
			meta   []byte
		)
		if err := rows.Scan(&domain, &it.Number, &it.GlobalNumber, &text, &it.ResponseType, &meta, &it.Disabled); err != nil {
			return fmt.Errorf("failed to scan item of %s: %w", inst.Code, err)
		}
		it.Text = text.String
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &it.Metadata); err != nil {
				return fmt.Errorf("failed to unmarshal metadata of %s item %d: %w", inst.Code, it.GlobalNumber, err)
			}
		}

		i, ok := index[domain]
		if !ok {
			return &instrument.ReferenceError{
				Kind:       instrument.ErrInconsistentItemPartition,
				Instrument: inst.Code,
				Subject:    domain,
				Detail:     fmt.Sprintf("item %d references an unknown domain", it.GlobalNumber),
			}
		}
		inst.Domains[i].Items = append(inst.Domains[i].Items, it)
	}
	return rows.Err()
}

func (s *Store) loadNorms(ctx context.Context, inst *instrument.Instrument) error {
	rows, err := s.db.QueryContext(ctx, queryNorms, inst.Code)
	if err != nil {
		return fmt.Errorf("failed to query norm rows of %s: %w", inst.Code, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r              instrument.NormRow
			tScore         sql.NullInt64
			percentile     sql.NullString
			classification sql.NullString
		)
		if err := rows.Scan(&r.Domain, &r.RawMin, &r.RawMax, &tScore, &percentile, &classification); err != nil {
			return fmt.Errorf("failed to scan norm row of %s: %w", inst.Code, err)
		}
		if tScore.Valid {
			t := int(tScore.Int64)
			r.TScore = &t
		}
		if percentile.Valid {
			p, err := instrument.ParsePercentile(percentile.String)
			if err != nil {
				return &instrument.ReferenceError{
					Kind:       instrument.ErrInvalidDefinition,
					Instrument: inst.Code,
					Subject:    r.Domain,
					Detail:     err.Error(),
				}
			}
			r.Percentile = &p
		}
		r.Classification = types.Classification(classification.String)
		inst.Norms = append(inst.Norms, r)
	}
	return rows.Err()
}

func (s *Store) loadPatterns(ctx context.Context, inst *instrument.Instrument) error {
	p := inst.Patterns

	rows, err := s.db.QueryContext(ctx, querySections, inst.Code)
	if err != nil {
		return fmt.Errorf("failed to query pattern sections of %s: %w", inst.Code, err)
	}
	for rows.Next() {
		var sec instrument.SectionRange
		if err := rows.Scan(&sec.Name, &sec.From, &sec.To); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan pattern section of %s: %w", inst.Code, err)
		}
		p.Sections = append(p.Sections, sec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, queryQuadrants, inst.Code)
	if err != nil {
		return fmt.Errorf("failed to query pattern quadrants of %s: %w", inst.Code, err)
	}
	byName := make(map[string]int)
	for rows.Next() {
		var (
			name string
			item int
		)
		if err := rows.Scan(&name, &item); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan pattern quadrant of %s: %w", inst.Code, err)
		}
		i, ok := byName[name]
		if !ok {
			i = len(p.Quadrants)
			byName[name] = i
			p.Quadrants = append(p.Quadrants, instrument.QuadrantSet{Name: name})
		}
		p.Quadrants[i].Items = append(p.Quadrants[i].Items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	instrument.OrderQuadrants(p.Quadrants)

	rows, err = s.db.QueryContext(ctx, queryPatternRows, inst.Code)
	if err != nil {
		return fmt.Errorf("failed to query pattern rows of %s: %w", inst.Code, err)
	}
	defer rows.Close()
	for rows.Next() {
		var r instrument.PatternRow
		if err := rows.Scan(&r.Pattern, &r.Level, &r.SumMin, &r.SumMax); err != nil {
			return fmt.Errorf("failed to scan pattern row of %s: %w", inst.Code, err)
		}
		p.Rows = append(p.Rows, r)
	}
	return rows.Err()
}
