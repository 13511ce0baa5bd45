// Package cache is a sqlite-backed store of completed driver runs: a
// modernc.org/sqlite connection, github.com/dekarrin/rezi for binary
// encoding of the stored payload, and base64 text columns to hold the
// encoded blob.
package cache

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/dekarrin/unambig/internal/config"
	"github.com/dekarrin/unambig/internal/driver"
)

// Entry is one cached nonterminal result, flattened to rezi-friendly
// built-in types rather than the live pointer-linked Tree/Report values in
// package ambiguity.
type Entry struct {
	Nonterminal string
	ElapsedNS   int64
	PathCount   int
	Reports     []FlatReport
}

// MarshalBinary converts e into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (e Entry) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, rezi.EncString(e.Nonterminal)...)
	enc = append(enc, rezi.EncInt(int(e.ElapsedNS))...)
	enc = append(enc, rezi.EncInt(e.PathCount)...)

	reports := make([]*FlatReport, len(e.Reports))
	for i := range e.Reports {
		reports[i] = &e.Reports[i]
	}
	enc = append(enc, rezi.EncSliceBinary(reports)...)
	return enc, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into
// e. All of e's fields are replaced by the fields decoded from data.
func (e *Entry) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	if e.Nonterminal, n, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("nonterminal: %w", err)
	}
	data = data[n:]

	var elapsed int
	if elapsed, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("elapsedNS: %w", err)
	}
	e.ElapsedNS = int64(elapsed)
	data = data[n:]

	if e.PathCount, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("pathCount: %w", err)
	}
	data = data[n:]

	reports, _, err := rezi.DecSliceBinary[*FlatReport](data)
	if err != nil {
		return fmt.Errorf("reports: %w", err)
	}
	e.Reports = make([]FlatReport, len(reports))
	for i, r := range reports {
		e.Reports[i] = *r
	}
	return nil
}

// FlatReport mirrors ambiguity.Report with its two trees rendered to text,
// since the package ambiguity.Tree's child pointers aren't a shape rezi
// needs to round-trip for a cache whose only job is replay-for-display.
type FlatReport struct {
	RuleIndexA, RuleIndexB int
	Terminals              string
	TreeTextA, TreeTextB   string
}

// MarshalBinary converts fr into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (fr FlatReport) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, rezi.EncInt(fr.RuleIndexA)...)
	enc = append(enc, rezi.EncInt(fr.RuleIndexB)...)
	enc = append(enc, rezi.EncString(fr.Terminals)...)
	enc = append(enc, rezi.EncString(fr.TreeTextA)...)
	enc = append(enc, rezi.EncString(fr.TreeTextB)...)
	return enc, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into
// fr. All of fr's fields are replaced by the fields decoded from data.
func (fr *FlatReport) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	if fr.RuleIndexA, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("ruleIndexA: %w", err)
	}
	data = data[n:]
	if fr.RuleIndexB, n, err = rezi.DecInt(data); err != nil {
		return fmt.Errorf("ruleIndexB: %w", err)
	}
	data = data[n:]
	if fr.Terminals, n, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("terminals: %w", err)
	}
	data = data[n:]
	if fr.TreeTextA, n, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("treeTextA: %w", err)
	}
	data = data[n:]
	if fr.TreeTextB, _, err = rezi.DecString(data); err != nil {
		return fmt.Errorf("treeTextB: %w", err)
	}
	return nil
}

// Run is a complete cached driver invocation, keyed by RunID.
type Run struct {
	RunID   uuid.UUID
	Key     string
	Created time.Time
	Entries []Entry
}

// Cache wraps a single sqlite database file holding cached runs.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database inside cfg.DataDir.
func Open(cfg config.Cache) (*Cache, error) {
	fileName := filepath.Join(cfg.DataDir, "unambig-cache.db")

	db, err := sql.Open("sqlite", fileName)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT NOT NULL PRIMARY KEY,
		cache_key TEXT NOT NULL,
		created INTEGER NOT NULL,
		data TEXT NOT NULL
	);`
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("init cache schema: %w", err)
	}
	stmt = `CREATE INDEX IF NOT EXISTS idx_runs_cache_key ON runs(cache_key);`
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("init cache index: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes a grammar+options pair into the cache key used to find a
// prior run for the same input without needing to re-run the driver.
func Key(grammarDump string, opts driver.Options) string {
	material := fmt.Sprintf("%s\x00%+v", grammarDump, opts)
	sum := blake2b.Sum256([]byte(material))
	return fmt.Sprintf("%x", sum)
}

// Put stores results under runID, keyed for later lookup by Key's hash.
func (c *Cache) Put(ctx context.Context, runID uuid.UUID, key string, results []driver.NTResult) error {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		reports := make([]FlatReport, 0, len(r.Reports))
		for _, rep := range r.Reports {
			reports = append(reports, FlatReport{
				RuleIndexA: rep.RuleIndexA,
				RuleIndexB: rep.RuleIndexB,
				Terminals:  rep.Terminals,
				TreeTextA:  fmt.Sprintf("%+v", rep.TreeA),
				TreeTextB:  fmt.Sprintf("%+v", rep.TreeB),
			})
		}
		entries = append(entries, Entry{
			Nonterminal: r.Nonterminal,
			ElapsedNS:   int64(r.Elapsed),
			PathCount:   r.PathCount,
			Reports:     reports,
		})
	}

	run := Run{RunID: runID, Key: key, Created: time.Now(), Entries: entries}
	entryPtrs := make([]*Entry, len(run.Entries))
	for i := range run.Entries {
		entryPtrs[i] = &run.Entries[i]
	}
	data := rezi.EncSliceBinary(entryPtrs)
	encData := base64.StdEncoding.EncodeToString(data)

	stmt, err := c.db.Prepare(`INSERT OR REPLACE INTO runs (run_id, cache_key, created, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cache insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, runID.String(), key, run.Created.Unix(), encData)
	if err != nil {
		return fmt.Errorf("insert cache row: %w", err)
	}
	return nil
}

// Get replays a previously cached run by run ID.
func (c *Cache) Get(ctx context.Context, runID uuid.UUID) (Run, bool, error) {
	row := c.db.QueryRowContext(ctx, `SELECT cache_key, created, data FROM runs WHERE run_id = ?`, runID.String())

	var key, encData string
	var created int64
	if err := row.Scan(&key, &created, &encData); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, false, nil
		}
		return Run{}, false, fmt.Errorf("scan cache row: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(encData)
	if err != nil {
		return Run{}, false, fmt.Errorf("decode cache blob: %w", err)
	}

	entryPtrs, n, err := rezi.DecSliceBinary[*Entry](data)
	if err != nil {
		return Run{}, false, fmt.Errorf("rezi decode cache blob: %w", err)
	}
	if n != len(data) {
		return Run{}, false, fmt.Errorf("rezi decode byte count mismatch; consumed %d/%d bytes", n, len(data))
	}

	entries := make([]Entry, len(entryPtrs))
	for i, e := range entryPtrs {
		entries[i] = *e
	}
	return Run{
		RunID:   runID,
		Key:     key,
		Created: time.Unix(created, 0),
		Entries: entries,
	}, true, nil
}

// FindByKey looks up the most recent run stored for a given cache key, honoring
// ttl: a run older than ttl is treated as not found so callers fall back to a
// fresh driver.Run. A zero ttl means cached runs never expire.
func (c *Cache) FindByKey(ctx context.Context, key string, ttl time.Duration) (uuid.UUID, bool, error) {
	row := c.db.QueryRowContext(ctx, `SELECT run_id, created FROM runs WHERE cache_key = ? ORDER BY created DESC LIMIT 1`, key)

	var runIDStr string
	var created int64
	if err := row.Scan(&runIDStr, &created); err != nil {
		if err == sql.ErrNoRows {
			return uuid.UUID{}, false, nil
		}
		return uuid.UUID{}, false, fmt.Errorf("scan cache lookup: %w", err)
	}

	if ttl > 0 && time.Since(time.Unix(created, 0)) > ttl {
		return uuid.UUID{}, false, nil
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return uuid.UUID{}, false, fmt.Errorf("parse cached run id: %w", err)
	}
	return runID, true, nil
}
