package storage

const schemaSQL = `
-- One row per captured page. url is the natural key: the save path updates
-- the existing row in place rather than inserting a second one.
CREATE TABLE IF NOT EXISTS scraped_content (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT UNIQUE NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL CHECK (timestamp >= 0)
);

CREATE INDEX IF NOT EXISTS idx_content_url ON scraped_content(url);
CREATE INDEX IF NOT EXISTS idx_content_timestamp ON scraped_content(timestamp);
`
