package repository

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/entity"
	"github.com/ca-srg/tzconv/domain/repository"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteCatalogSchema = `CREATE TABLE IF NOT EXISTS timezones (
	position     INTEGER PRIMARY KEY,
	id           TEXT NOT NULL UNIQUE,
	abbreviation TEXT NOT NULL UNIQUE COLLATE NOCASE,
	name         TEXT NOT NULL,
	gmt_offset   REAL NOT NULL,
	iana_zone    TEXT NOT NULL
)`

// NewSQLiteCatalogRepository reads the timezones table once and serves it from memory.
// Rows are returned in position order.
func NewSQLiteCatalogRepository(ctx context.Context, path string) (repository.CatalogRepository, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.ErrCatalogWithCause("sqlite", "database file not found: "+path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, domain.ErrCatalogWithCause("sqlite", "failed to open "+path, err)
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx,
		`SELECT id, abbreviation, name, gmt_offset, iana_zone FROM timezones ORDER BY position`)
	if err != nil {
		return nil, domain.ErrCatalogWithCause("sqlite", "failed to query timezones", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []catalogRecord
	for rows.Next() {
		var r catalogRecord
		if err := rows.Scan(&r.ID, &r.Abbreviation, &r.Name, &r.GMTOffset, &r.Timezone); err != nil {
			return nil, domain.ErrCatalogWithCause("sqlite", "failed to scan row", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrCatalogWithCause("sqlite", "failed to iterate rows", err)
	}

	return buildCatalog("sqlite", records)
}

// WriteSQLiteCatalog creates (or replaces the contents of) the timezones table at path
func WriteSQLiteCatalog(ctx context.Context, path string, entries []*entity.TimezoneEntry) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return domain.ErrFileOperationWithCause("open", path, err)
	}
	defer func() {
		_ = db.Close()
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrFileOperationWithCause("begin", path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, sqliteCatalogSchema); err != nil {
		return domain.ErrFileOperationWithCause("create_table", path, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM timezones`); err != nil {
		return domain.ErrFileOperationWithCause("truncate", path, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO timezones (position, id, abbreviation, name, gmt_offset, iana_zone) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.ErrFileOperationWithCause("prepare", path, err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, r := range recordsFromEntries(entries) {
		if _, err = stmt.ExecContext(ctx, i, r.ID, r.Abbreviation, r.Name, r.GMTOffset, r.Timezone); err != nil {
			return domain.ErrFileOperationWithCause("insert", path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.ErrFileOperationWithCause("commit", path, err)
	}
	return nil
}
