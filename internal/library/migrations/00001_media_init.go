package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(up00001, down00001)
}

func up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS media (
			path        text      NOT NULL,
			format      text      NOT NULL,
			family      text      NOT NULL,
			mime        text      NOT NULL DEFAULT '',
			size        integer   NOT NULL,
			mod_time    integer   NOT NULL,
			title       text      NOT NULL DEFAULT '',
			artist      text      NOT NULL DEFAULT '',
			album       text      NOT NULL DEFAULT '',
			genre       text      NOT NULL DEFAULT '',
			year        integer   NOT NULL DEFAULT 0,
			duration_ms integer   NOT NULL DEFAULT 0,
			bitrate     integer   NOT NULL DEFAULT 0,
			indexed_at  timestamp DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(path)
		);
	`)
	return err
}

func down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE media;`)
	return err
}
