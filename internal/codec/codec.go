// Package codec turns a whole DXF tag stream into typed records and back.
//
// Ownership boundary:
// - record splitting and TABLE grouping
// - parallel entity load with a per-record error policy
// - stream re-export at a target revision
//
// Section framing (SECTION, ENDSEC, EOF and the HEADER variables riding in
// the SECTION record) is carried verbatim.
package codec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/registry"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/table"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/danmuck/dxftags/internal/observability"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Policy decides what happens to a record that fails to load.
type Policy string

const (
	PolicyAbort       Policy = "abort"
	PolicySkip        Policy = "skip"
	PolicyPassthrough Policy = "passthrough"
)

var ErrUnknownPolicy = errors.New("codec: unknown on_invalid policy")

func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(raw))); p {
	case PolicyAbort, PolicySkip, PolicyPassthrough:
		return p, nil
	case "":
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, raw)
}

// RecordError locates a record that failed under PolicyAbort.
type RecordError struct {
	Index int
	Type  string
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("codec: record %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

var structural = map[string]bool{
	"SECTION": true,
	"ENDSEC":  true,
	"EOF":     true,
}

const (
	recordTable  = "TABLE"
	recordEndTab = "ENDTAB"
)

type Options struct {
	Registry  *registry.Registry
	Workers   int
	OnInvalid Policy
}

// Item is one top-level unit of a stream: exactly one field is set.
type Item struct {
	Raw    []tags.Tag
	Entity entity.Entity
	Table  *table.Table
}

type Stats struct {
	Records     int `json:"records"`
	Loaded      int `json:"loaded"`
	Skipped     int `json:"skipped"`
	Passthrough int `json:"passthrough"`
	Issues      int `json:"issues"`
}

func (s *Stats) add(o Stats) {
	s.Records += o.Records
	s.Loaded += o.Loaded
	s.Skipped += o.Skipped
	s.Passthrough += o.Passthrough
	s.Issues += o.Issues
}

type Document struct {
	Items []Item
	Stats Stats
}

// unit is a contiguous run of records decoded as one Item.
type unit struct {
	kind    string
	records [][]tags.Tag
	first   int
}

// group splits records into units: structural records, whole tables, and
// single entities.
func group(records [][]tags.Tag) []unit {
	var out []unit
	for i := 0; i < len(records); i++ {
		name, _ := tags.RecordType(records[i])
		switch {
		case structural[name]:
			out = append(out, unit{kind: "raw", records: records[i : i+1], first: i})
		case name == recordTable:
			// The unit ends after ENDTAB, or before a section boundary when
			// ENDTAB is missing so table.Parse reports it.
			j := i + 1
			for j < len(records) {
				n, _ := tags.RecordType(records[j])
				if structural[n] {
					break
				}
				j++
				if n == recordEndTab {
					break
				}
			}
			out = append(out, unit{kind: "table", records: records[i:j], first: i})
			i = j - 1
		default:
			out = append(out, unit{kind: "entity", records: records[i : i+1], first: i})
		}
	}
	return out
}

// Decode loads a flat tag stream. Units load concurrently on up to
// opts.Workers goroutines; the result keeps stream order.
func Decode(ctx context.Context, raw []tags.Tag, opts Options) (*Document, error) {
	start := time.Now()
	if opts.Registry == nil {
		return nil, errors.New("codec: registry is required")
	}
	if opts.OnInvalid == "" {
		opts.OnInvalid = PolicyAbort
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	records := tags.Records(raw)
	if len(raw) > 0 && len(records) > 0 && raw[0].Code != tags.CodeStructure {
		return nil, fmt.Errorf("%w: stream starts with code %d", tags.ErrNoStructure, raw[0].Code)
	}
	units := group(records)
	items := make([]*Item, len(units))
	stats := make([]Stats, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range units {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, st, err := decodeUnit(units[i], opts)
			if err != nil {
				return err
			}
			items[i] = item
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Int("records", len(records)).Msg("codec.Decode failed")
		return nil, err
	}

	doc := &Document{}
	for i, item := range items {
		doc.Stats.add(stats[i])
		if item != nil {
			doc.Items = append(doc.Items, *item)
		}
	}
	observability.RecordCodec("decode", "", time.Since(start))
	log.Debug().
		Int("records", doc.Stats.Records).
		Int("loaded", doc.Stats.Loaded).
		Int("skipped", doc.Stats.Skipped).
		Int("passthrough", doc.Stats.Passthrough).
		Int("issues", doc.Stats.Issues).
		Int("workers", workers).
		Msg("codec.Decode")
	return doc, nil
}

func decodeUnit(u unit, opts Options) (*Item, Stats, error) {
	var st Stats
	switch u.kind {
	case "raw":
		st.Records++
		return &Item{Raw: u.records[0]}, st, nil
	case "table":
		st.Records++
		idx := u.first
		t, err := table.ParseWith(func(rec []tags.Tag) (entity.Entity, error) {
			idx++
			return loadRecord(rec, idx, opts, &st)
		}, u.records)
		if err != nil {
			var re RecordError
			if errors.As(err, &re) {
				return nil, st, err
			}
			return nil, st, RecordError{Index: u.first, Type: recordTable, Err: err}
		}
		if name, _ := tags.RecordType(u.records[len(u.records)-1]); name == recordEndTab {
			st.Records++
		}
		if st.Skipped > 0 {
			if err := t.SyncCount(); err != nil {
				log.Warn().Err(err).Str("table", t.Name()).Msg("codec.Decode table count left stale")
			}
		}
		return &Item{Table: t}, st, nil
	}
	e, err := loadRecord(u.records[0], u.first, opts, &st)
	if err != nil || e == nil {
		return nil, st, err
	}
	return &Item{Entity: e}, st, nil
}

// loadRecord loads one record and applies the error policy. A nil entity
// with a nil error means the record was skipped.
func loadRecord(rec []tags.Tag, index int, opts Options, st *Stats) (entity.Entity, error) {
	st.Records++
	name, err := tags.RecordType(rec)
	if err != nil {
		return nil, RecordError{Index: index, Err: err}
	}
	e, err := opts.Registry.Load(rec)
	if err == nil {
		issues := len(e.DXF().Issues())
		st.Loaded++
		st.Issues += issues
		observability.RecordRecord(name, "loaded", issues)
		return e, nil
	}

	switch opts.OnInvalid {
	case PolicySkip:
		log.Warn().Err(err).Int("record", index).Str("type", name).Msg("codec.Decode skipping invalid record")
		st.Skipped++
		observability.RecordRecord(name, "skipped", 0)
		return nil, nil
	case PolicyPassthrough:
		log.Warn().Err(err).Int("record", index).Str("type", name).Msg("codec.Decode keeping invalid record verbatim")
		g := entity.NewGeneric(name)
		if gerr := g.LoadTags(rec); gerr != nil {
			return nil, RecordError{Index: index, Type: name, Err: gerr}
		}
		st.Passthrough++
		observability.RecordRecord(name, "passthrough", 0)
		return g, nil
	}
	return nil, RecordError{Index: index, Type: name, Err: err}
}

// Encode writes every item at rev. Entities that do not exist at rev are
// left out; the returned count covers written entities only.
func (d *Document) Encode(w tags.Writer, rev revision.Revision) (int, error) {
	start := time.Now()
	written := 0
	for _, item := range d.Items {
		switch {
		case item.Raw != nil:
			if err := tags.WriteAll(w, item.Raw); err != nil {
				return written, err
			}
		case item.Table != nil:
			if err := item.Table.Export(w, rev); err != nil {
				return written, err
			}
		case item.Entity != nil:
			ok, err := item.Entity.ExportDXF(w, rev)
			if err != nil {
				return written, fmt.Errorf("codec: export %s: %w", item.Entity.DXFType(), err)
			}
			if ok {
				written++
			}
		}
	}
	observability.RecordCodec("encode", rev.String(), time.Since(start))
	return written, nil
}

// Entities returns the top-level entities in stream order.
func (d *Document) Entities() []entity.Entity {
	var out []entity.Entity
	for _, item := range d.Items {
		if item.Entity != nil {
			out = append(out, item.Entity)
		}
	}
	return out
}

// Tables returns the tables in stream order.
func (d *Document) Tables() []*table.Table {
	var out []*table.Table
	for _, item := range d.Items {
		if item.Table != nil {
			out = append(out, item.Table)
		}
	}
	return out
}
