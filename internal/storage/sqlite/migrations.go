package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. The position columns keep
// the ledger's insertion orders across a save/load round trip.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    saved_at INTEGER NOT NULL,
    restaurant_name TEXT NOT NULL DEFAULT '',
    restaurant_phone TEXT NOT NULL DEFAULT '',
    restaurant_address TEXT NOT NULL DEFAULT '',
    initiator_name TEXT NOT NULL DEFAULT '',
    initiator_email TEXT NOT NULL DEFAULT '',
    tax_total REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS session_items (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    quantity REAL NOT NULL,
    total_price REAL NOT NULL,
    PRIMARY KEY (session_id, name),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS session_people (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (session_id, name),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS session_shares (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    person TEXT NOT NULL,
    item TEXT NOT NULL,
    quantity REAL NOT NULL,
    PRIMARY KEY (session_id, person, item),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS session_accounts (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    detail TEXT NOT NULL,
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS smtp_credentials (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    host TEXT NOT NULL,
    port INTEGER NOT NULL,
    username TEXT NOT NULL,
    password TEXT NOT NULL,
    from_addr TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_items_session_id ON session_items(session_id);
CREATE INDEX IF NOT EXISTS idx_session_people_session_id ON session_people(session_id);
CREATE INDEX IF NOT EXISTS idx_session_shares_session_id ON session_shares(session_id);
CREATE INDEX IF NOT EXISTS idx_session_accounts_session_id ON session_accounts(session_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
