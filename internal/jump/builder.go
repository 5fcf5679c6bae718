package jump

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"neptune/internal/metrics"
	"neptune/internal/record"
)

// Default table capacities.
const (
	DefaultMaxJumpRecords   = 200
	DefaultMaxProfiles      = 10
	DefaultMaxProfilePoints = 2000
)

// ErrCapacity is returned by Build under OverflowError when a table is full.
var ErrCapacity = errors.New("capacity exceeded")

// OverflowPolicy decides what happens when a table or profile is full.
type OverflowPolicy int

const (
	// OverflowDrop drops the item, logs it and counts it.
	OverflowDrop OverflowPolicy = iota
	// OverflowError stops the build with ErrCapacity.
	OverflowError
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowDrop:
		return "drop"
	case OverflowError:
		return "error"
	}
	return fmt.Sprintf("OverflowPolicy(%d)", int(p))
}

// ParseOverflowPolicy accepts "drop" or "error".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "drop", "":
		return OverflowDrop, nil
	case "error":
		return OverflowError, nil
	}
	return OverflowDrop, fmt.Errorf("unknown overflow policy %q", s)
}

// RecordSource yields decoded records; io.EOF ends the stream. Errors
// satisfying record.IsMalformed are skipped.
type RecordSource interface {
	Next() (record.Record, error)
}

// Dataset is the result of one build.
type Dataset struct {
	Records  *Table[JumpRecord]
	Profiles *Table[JumpProfile]
}

// Builder accumulates jump records and profiles from a record stream.
type Builder struct {
	src     RecordSource
	logger  *logrus.Logger
	metrics *metrics.Manager

	maxRecords  int
	maxProfiles int
	maxPoints   int
	policy      OverflowPolicy
	filter      uint64
}

// Option configures a Builder.
type Option func(*Builder)

// WithCapacity overrides the table limits. Non-positive values keep the
// defaults.
func WithCapacity(records, profiles, points int) Option {
	return func(b *Builder) {
		if records > 0 {
			b.maxRecords = records
		}
		if profiles > 0 {
			b.maxProfiles = profiles
		}
		if points > 0 {
			b.maxPoints = points
		}
	}
}

// WithOverflowPolicy sets the overflow policy.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(b *Builder) {
		b.policy = p
	}
}

// WithJumpFilter restricts the build to one jump number; zero means all.
func WithJumpFilter(n uint64) Option {
	return func(b *Builder) {
		b.filter = n
	}
}

// WithMetrics reports capacity drops and finalized profiles to m.
func WithMetrics(m *metrics.Manager) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// NewBuilder creates a builder reading from src.
func NewBuilder(src RecordSource, logger *logrus.Logger, opts ...Option) *Builder {
	b := &Builder{
		src:         src,
		logger:      logger,
		maxRecords:  DefaultMaxJumpRecords,
		maxProfiles: DefaultMaxProfiles,
		maxPoints:   DefaultMaxProfilePoints,
		policy:      OverflowDrop,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildDataset decodes lines from src, builds the tables and computes speeds
// with default capacities. jumpFilter of zero keeps every jump.
func BuildDataset(src record.LineSource, jumpFilter uint64, logger *logrus.Logger) (*Dataset, error) {
	dec := record.NewDecoder(src, logger)
	return NewBuilder(dec, logger, WithJumpFilter(jumpFilter)).Build()
}

// dropKey identifies data refused by one table for one jump.
type dropKey struct {
	table      string
	jumpNumber uint64
}

// buildState is the per-build mutable state.
type buildState struct {
	ds      *Dataset
	phase   Phase
	open    *JumpProfile // profile accepting datapoints, nil when none
	dropped map[dropKey]struct{}
}

// Build reads records until io.EOF or an end of data record, then estimates
// speeds for every profile.
//
// If the line source fails, Build still finalizes and returns what was built
// so far together with the error.
func (b *Builder) Build() (*Dataset, error) {
	st := &buildState{
		ds: &Dataset{
			Records:  NewTable[JumpRecord](b.maxRecords),
			Profiles: NewTable[JumpProfile](b.maxProfiles),
		},
		dropped: make(map[dropKey]struct{}),
	}

	for {
		rec, err := b.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if record.IsMalformed(err) {
				continue
			}
			b.finalize(st)
			return st.ds, fmt.Errorf("read record: %w", err)
		}

		done, err := b.apply(st, rec)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	b.finalize(st)
	return st.ds, nil
}

// finalize computes speeds for every profile.
func (b *Builder) finalize(st *buildState) {
	for _, p := range st.ds.Profiles.Items() {
		EstimateSpeeds(p)
		b.metrics.ProfileFinalized()
	}

	b.logger.WithFields(logrus.Fields{
		"jump_records": st.ds.Records.Len(),
		"profiles":     st.ds.Profiles.Len(),
	}).Debug("Dataset built")
}

// apply folds one record into the state. done is true at end of data.
func (b *Builder) apply(st *buildState, rec record.Record) (done bool, err error) {
	switch rec.Type {
	case record.TypeJumpRecord, record.TypeEndOfData, record.TypeProfileStart, record.TypeEndOfProfile:
		st.open = nil
	}

	switch rec.Type {
	case record.TypeJumpRecord:
		return false, b.applyJumpRecord(st, rec)
	case record.TypeEndOfData:
		return true, nil
	case record.TypeStreamType:
		st.phase.Stream(StreamCode(rec))
	case record.TypeProfileStart:
		return false, b.applyProfileStart(st, rec)
	case record.TypeProfileDatapoint:
		return false, b.applyDatapoint(st, rec)
	}
	return false, nil
}

func (b *Builder) skip(n uint64) bool {
	return b.filter != 0 && b.filter != n
}

func (b *Builder) jumpRecord(st *buildState, n uint64) (*JumpRecord, error) {
	jr, ok := st.ds.Records.fetch(n, func() *JumpRecord {
		return &JumpRecord{Number: n}
	})
	if !ok {
		return nil, b.overflow(st, metrics.TableJumpRecords, n, st.ds.Records.Cap())
	}
	return jr, nil
}

func (b *Builder) applyJumpRecord(st *buildState, rec record.Record) error {
	n := JumpNumber(rec)
	if b.skip(n) {
		return nil
	}

	jr, err := b.jumpRecord(st, n)
	if jr == nil {
		return err
	}

	jr.Type = JumpTypeFromCode(rec.Byte(offJumpType))
	jr.ExitAltitude = MetersToFeet(float64(rec.Field(offExitAlt, 2)))
	jr.DeployAltitude = MetersToFeet(float64(rec.Field(offDeployAlt, 2)))
	return nil
}

func (b *Builder) applyProfileStart(st *buildState, rec record.Record) error {
	start := DecodeProfileStart(rec)
	if b.skip(start.Number) {
		return nil
	}
	st.phase.Reset()

	jr, err := b.jumpRecord(st, start.Number)
	if jr == nil {
		return err
	}
	jr.GroundAltitude = start.GroundAltitude
	jr.FreefallStartTime = start.FreefallStart
	jr.CanopyStartTime = start.CanopyStart

	prof, ok := st.ds.Profiles.fetch(start.Number, func() *JumpProfile {
		return &JumpProfile{Number: start.Number}
	})
	if !ok {
		return b.overflow(st, metrics.TableProfiles, start.Number, st.ds.Profiles.Cap())
	}

	st.open = prof
	return nil
}

func (b *Builder) applyDatapoint(st *buildState, rec record.Record) error {
	if st.open == nil {
		return nil
	}

	prof := st.open
	if len(prof.Points) >= b.maxPoints {
		st.open = nil
		return b.overflow(st, metrics.TableProfilePoint, prof.Number, b.maxPoints)
	}

	t, alt := DecodeDatapoint(rec)
	prof.add(DataPoint{
		Type:     st.phase.Current(),
		Time:     t,
		Altitude: alt,
	})
	return nil
}

// overflow applies the overflow policy for a drop from table. A jump is
// counted and logged once per table however many of its records are refused.
func (b *Builder) overflow(st *buildState, table string, jumpNumber uint64, limit int) error {
	key := dropKey{table: table, jumpNumber: jumpNumber}
	if _, seen := st.dropped[key]; !seen {
		st.dropped[key] = struct{}{}
		b.metrics.CapacityDrop(table)
		b.logger.WithFields(logrus.Fields{
			"table":       table,
			"jump_number": jumpNumber,
			"limit":       limit,
		}).Warn("Capacity reached, dropping data")
	}

	if b.policy == OverflowError {
		return fmt.Errorf("%s full (limit %d) at jump %d: %w", table, limit, jumpNumber, ErrCapacity)
	}
	return nil
}
