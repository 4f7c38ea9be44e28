package journal

const Schema = `
CREATE TABLE IF NOT EXISTS validations (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	firm TEXT NOT NULL,
	account_size INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	strategy TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	is_valid INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_validations_created ON validations(created_at);
CREATE INDEX IF NOT EXISTS idx_validations_firm ON validations(firm);
`
