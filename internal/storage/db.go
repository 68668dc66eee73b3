package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joelilypad/analysis/internal"
)

type DB struct {
	conn *sql.DB
}

type FileRow struct {
	ID         int64
	Kind       string
	Name       string
	Hash       string
	Records    int
	ImportedAt string
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS files (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  hash TEXT NOT NULL,
  records INTEGER NOT NULL DEFAULT 0,
  importedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(kind, hash)
);

CREATE TABLE IF NOT EXISTS time_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fileId INTEGER NOT NULL,
  date TEXT NOT NULL,
  psychologist TEXT NOT NULL,
  timeRange TEXT,
  estimatedHours REAL NOT NULL,
  note TEXT,
  studentInitials TEXT,
  district TEXT,
  task TEXT,
  standardizedTask TEXT,
  taskCategory TEXT NOT NULL,
  FOREIGN KEY(fileId) REFERENCES files(id)
);
CREATE INDEX IF NOT EXISTS idx_time_entries_file ON time_entries(fileId);

CREATE TABLE IF NOT EXISTS billing_lines (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fileId INTEGER NOT NULL,
  date TEXT NOT NULL,
  invoiceDate TEXT NOT NULL,
  customer TEXT NOT NULL,
  district TEXT NOT NULL,
  invoice TEXT,
  service TEXT,
  description TEXT,
  studentInitials TEXT,
  evaluationNumber TEXT,
  serviceType TEXT,
  serviceBundle TEXT NOT NULL DEFAULT '',
  componentsJson TEXT NOT NULL DEFAULT '[]',
  amount REAL NOT NULL,
  quantity REAL NOT NULL,
  unitPrice REAL NOT NULL,
  FOREIGN KEY(fileId) REFERENCES files(id)
);
CREATE INDEX IF NOT EXISTS idx_billing_lines_file ON billing_lines(fileId);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  fileId INTEGER,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(fileId) REFERENCES files(id)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// Fingerprint identifies a raw export by content, so re-parsing an unchanged
// file can be served from the cache.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (d *DB) LookupFile(kind internal.SourceKind, hash string) (*FileRow, error) {
	var row FileRow
	err := d.conn.QueryRow(`
SELECT id, kind, name, hash, records, importedAt FROM files WHERE kind = ? AND hash = ?
`, string(kind), hash).Scan(&row.ID, &row.Kind, &row.Name, &row.Hash, &row.Records, &row.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) SaveTimeEntries(name, hash string, entries []internal.TimeEntry) (FileRow, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return FileRow{}, err
	}
	defer func() { _ = tx.Rollback() }()

	fileID, err := replaceFile(tx, internal.SourceTimesheet, name, hash, len(entries), "time_entries")
	if err != nil {
		return FileRow{}, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO time_entries (fileId, date, psychologist, timeRange, estimatedHours, note,
  studentInitials, district, task, standardizedTask, taskCategory)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return FileRow{}, err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(
			fileID, e.Date.Format("2006-01-02"), e.Psychologist, e.TimeRange,
			e.EstimatedHours, e.Note, e.StudentInitials, e.District, e.Task,
			e.StandardizedTask, e.TaskCategory,
		); err != nil {
			return FileRow{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return FileRow{}, err
	}
	row, err := d.LookupFile(internal.SourceTimesheet, hash)
	if err != nil {
		return FileRow{}, err
	}
	return *row, nil
}

func (d *DB) SaveBillingLines(name, hash string, records []internal.BillingLine) (FileRow, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return FileRow{}, err
	}
	defer func() { _ = tx.Rollback() }()

	fileID, err := replaceFile(tx, internal.SourceBilling, name, hash, len(records), "billing_lines")
	if err != nil {
		return FileRow{}, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO billing_lines (fileId, date, invoiceDate, customer, district, invoice, service,
  description, studentInitials, evaluationNumber, serviceType, serviceBundle, componentsJson,
  amount, quantity, unitPrice)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return FileRow{}, err
	}
	defer stmt.Close()

	for _, b := range records {
		componentsJSON, _ := json.Marshal(b.ServiceComponents)
		if _, err := stmt.Exec(
			fileID, b.Date.Format("2006-01-02"), b.InvoiceDate.Format("2006-01-02"),
			b.Customer, b.District, b.Invoice, b.Service, b.Description,
			b.StudentInitials, b.EvaluationNumber, b.ServiceType, b.ServiceBundle,
			string(componentsJSON), b.Amount, b.Quantity, b.UnitPrice,
		); err != nil {
			return FileRow{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return FileRow{}, err
	}
	row, err := d.LookupFile(internal.SourceBilling, hash)
	if err != nil {
		return FileRow{}, err
	}
	return *row, nil
}

func replaceFile(tx *sql.Tx, kind internal.SourceKind, name, hash string, records int, table string) (int64, error) {
	var existing int64
	err := tx.QueryRow(`SELECT id FROM files WHERE kind = ? AND hash = ?`, string(kind), hash).Scan(&existing)
	if err == nil {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE fileId = ?`, existing); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`UPDATE files SET name = ?, records = ?, importedAt = CURRENT_TIMESTAMP WHERE id = ?`, name, records, existing); err != nil {
			return 0, err
		}
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := tx.Exec(`INSERT INTO files (kind, name, hash, records) VALUES (?, ?, ?, ?)`, string(kind), name, hash, records)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) TimeEntriesForFile(fileID int64) ([]internal.TimeEntry, error) {
	rows, err := d.conn.Query(`
SELECT date, psychologist, timeRange, estimatedHours, note, studentInitials,
       district, task, standardizedTask, taskCategory
FROM time_entries WHERE fileId = ? ORDER BY id ASC
`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.TimeEntry
	for rows.Next() {
		var e internal.TimeEntry
		var date string
		if err := rows.Scan(&date, &e.Psychologist, &e.TimeRange, &e.EstimatedHours,
			&e.Note, &e.StudentInitials, &e.District, &e.Task, &e.StandardizedTask,
			&e.TaskCategory); err != nil {
			return nil, err
		}
		e.Date, _ = time.Parse("2006-01-02", date)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) BillingLinesForFile(fileID int64) ([]internal.BillingLine, error) {
	rows, err := d.conn.Query(`
SELECT date, invoiceDate, customer, district, invoice, service, description,
       studentInitials, evaluationNumber, serviceType, serviceBundle,
       componentsJson, amount, quantity, unitPrice
FROM billing_lines WHERE fileId = ? ORDER BY id ASC
`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.BillingLine
	for rows.Next() {
		var b internal.BillingLine
		var date, invoiceDate, componentsJSON string
		if err := rows.Scan(&date, &invoiceDate, &b.Customer, &b.District, &b.Invoice,
			&b.Service, &b.Description, &b.StudentInitials, &b.EvaluationNumber,
			&b.ServiceType, &b.ServiceBundle, &componentsJSON, &b.Amount, &b.Quantity,
			&b.UnitPrice); err != nil {
			return nil, err
		}
		b.Date, _ = time.Parse("2006-01-02", date)
		b.InvoiceDate, _ = time.Parse("2006-01-02", invoiceDate)
		_ = json.Unmarshal([]byte(componentsJSON), &b.ServiceComponents)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, fileID int64, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, fileId, countsJson, timingsJson) VALUES (?, ?, ?, ?)`,
		traceID, fileID, string(countsJSON), string(timingsJSON))
	return err
}
