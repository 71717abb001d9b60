package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/report"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveReport stores the scan in a single transaction.
func (s *SQLiteStore) SaveReport(meta report.Metadata, agg *findings.Aggregated) (string, error) {
	scanID := uuid.NewString()

	typesJSON, err := json.Marshal(nonNil(meta.Types))
	if err != nil {
		return "", fmt.Errorf("marshaling types: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO scans (id, scanned_at, types_json) VALUES (?, ?, ?)",
		scanID, meta.Timestamp.UTC().Format(time.RFC3339Nano), string(typesJSON),
	); err != nil {
		return "", fmt.Errorf("inserting scan: %w", err)
	}

	fileIDs := make(map[string]int64)
	for _, rec := range flatten(scanID, agg) {
		fileID, ok := fileIDs[rec.Path]
		if !ok {
			res, err := tx.Exec("INSERT INTO files (scan_id, path) VALUES (?, ?)", scanID, rec.Path)
			if err != nil {
				return "", fmt.Errorf("inserting file: %w", err)
			}
			fileID, err = res.LastInsertId()
			if err != nil {
				return "", fmt.Errorf("reading file id: %w", err)
			}
			fileIDs[rec.Path] = fileID
		}

		if _, err := tx.Exec(`
			INSERT INTO matches (file_id, type, value, offset_start, line, col, location)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			fileID,
			string(rec.Type),
			rec.Match.Value,
			rec.Match.Offset,
			rec.Match.Line,
			rec.Match.Column,
			rec.Location,
		); err != nil {
			return "", fmt.Errorf("inserting match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing scan: %w", err)
	}
	return scanID, nil
}

// Scans lists stored scans, oldest first.
func (s *SQLiteStore) Scans() ([]Scan, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.scanned_at, s.types_json,
			(SELECT COUNT(*) FROM files f WHERE f.scan_id = s.id),
			(SELECT COUNT(*) FROM matches m JOIN files f ON m.file_id = f.id WHERE f.scan_id = s.id)
		FROM scans s
		ORDER BY s.seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var sc Scan
		var scannedAt, typesJSON string
		if err := rows.Scan(&sc.ID, &scannedAt, &typesJSON, &sc.Files, &sc.Matches); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sc.Timestamp, err = time.Parse(time.RFC3339Nano, scannedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing scan time: %w", err)
		}
		if err := json.Unmarshal([]byte(typesJSON), &sc.Types); err != nil {
			return nil, fmt.Errorf("unmarshaling types: %w", err)
		}
		scans = append(scans, sc)
	}

	return scans, rows.Err()
}

// Records returns the findings of one scan in the order they were saved.
func (s *SQLiteStore) Records(scanID string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT f.path, m.type, m.value, m.offset_start, m.line, m.col, m.location
		FROM matches m
		JOIN files f ON m.file_id = f.id
		WHERE f.scan_id = ?
		ORDER BY m.id
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{ScanID: scanID}
		var typ string
		var location sql.NullString
		if err := rows.Scan(&rec.Path, &typ, &rec.Match.Value, &rec.Match.Offset, &rec.Match.Line, &rec.Match.Column, &location); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		rec.Type = types.TypeID(typ)
		rec.Location = location.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
