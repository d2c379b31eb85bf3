package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(up00002, down00002)
}

func up00002(tx *sql.Tx) error {
	for _, stmt := range []string{
		`ALTER TABLE media ADD COLUMN width integer NOT NULL DEFAULT 0;`,
		`ALTER TABLE media ADD COLUMN height integer NOT NULL DEFAULT 0;`,
		`CREATE INDEX IF NOT EXISTS media_family ON media (family, path);`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func down00002(tx *sql.Tx) error {
	// SQLite cannot drop columns before 3.35; rebuild the table instead.
	for _, stmt := range []string{
		`DROP INDEX IF EXISTS media_family;`,
		`CREATE TABLE media_v1 AS SELECT path, format, family, mime, size, mod_time,
			title, artist, album, genre, year, duration_ms, bitrate, indexed_at FROM media;`,
		`DROP TABLE media;`,
		`ALTER TABLE media_v1 RENAME TO media;`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
