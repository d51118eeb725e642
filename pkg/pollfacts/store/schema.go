package store

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS surveys (
    survey_id TEXT PRIMARY KEY,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    filename TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS survey_questions (
    question_id INTEGER PRIMARY KEY AUTOINCREMENT,
    survey_id TEXT NOT NULL REFERENCES surveys(survey_id) ON DELETE CASCADE,
    question_number TEXT NOT NULL,
    question_part INTEGER NOT NULL,
    question_text TEXT NOT NULL,
    is_demographic BOOLEAN NOT NULL DEFAULT 0,
    base_description TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_questions_survey ON survey_questions(survey_id, question_number, question_part)`,
	`CREATE TABLE IF NOT EXISTS answer_options (
    option_id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL REFERENCES survey_questions(question_id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    option_order INTEGER,
    UNIQUE (question_id, option_text)
)`,
	`CREATE TABLE IF NOT EXISTS demographics (
    demo_id INTEGER PRIMARY KEY AUTOINCREMENT,
    demo_code TEXT NOT NULL UNIQUE,
    demo_description TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS demographic_responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL REFERENCES survey_questions(question_id) ON DELETE CASCADE,
    survey_id TEXT NOT NULL REFERENCES surveys(survey_id) ON DELETE CASCADE,
    demo_id INTEGER NOT NULL REFERENCES demographics(demo_id),
    item_label TEXT NOT NULL,
    count REAL,
    percent REAL
)`,
	`CREATE TABLE IF NOT EXISTS p1_responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL REFERENCES survey_questions(question_id) ON DELETE CASCADE,
    survey_id TEXT NOT NULL REFERENCES surveys(survey_id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL REFERENCES answer_options(option_id) ON DELETE CASCADE,
    demo_id INTEGER REFERENCES demographics(demo_id),
    item_label TEXT NOT NULL,
    cnt REAL,
    pct REAL
)`,
	`CREATE INDEX IF NOT EXISTS idx_p1_responses_question ON p1_responses(survey_id, question_id)`,
	`CREATE TABLE IF NOT EXISTS processed_files (
    filename TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS surveys (
    survey_id TEXT PRIMARY KEY,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    filename TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS survey_questions (
    question_id BIGSERIAL PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES surveys(survey_id) ON DELETE CASCADE,
    question_number TEXT NOT NULL,
    question_part INTEGER NOT NULL,
    question_text TEXT NOT NULL,
    is_demographic BOOLEAN NOT NULL DEFAULT FALSE,
    base_description TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_questions_survey ON survey_questions(survey_id, question_number, question_part)`,
	`CREATE TABLE IF NOT EXISTS answer_options (
    option_id BIGSERIAL PRIMARY KEY,
    question_id BIGINT NOT NULL REFERENCES survey_questions(question_id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    option_order INTEGER,
    UNIQUE (question_id, option_text)
)`,
	`CREATE TABLE IF NOT EXISTS demographics (
    demo_id BIGSERIAL PRIMARY KEY,
    demo_code TEXT NOT NULL UNIQUE,
    demo_description TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS demographic_responses (
    id BIGSERIAL PRIMARY KEY,
    question_id BIGINT NOT NULL REFERENCES survey_questions(question_id) ON DELETE CASCADE,
    survey_id TEXT NOT NULL REFERENCES surveys(survey_id) ON DELETE CASCADE,
    demo_id BIGINT NOT NULL REFERENCES demographics(demo_id),
    item_label TEXT NOT NULL,
    count DOUBLE PRECISION,
    percent DOUBLE PRECISION
)`,
	`CREATE TABLE IF NOT EXISTS p1_responses (
    id BIGSERIAL PRIMARY KEY,
    question_id BIGINT NOT NULL REFERENCES survey_questions(question_id) ON DELETE CASCADE,
    survey_id TEXT NOT NULL REFERENCES surveys(survey_id) ON DELETE CASCADE,
    option_id BIGINT NOT NULL REFERENCES answer_options(option_id) ON DELETE CASCADE,
    demo_id BIGINT REFERENCES demographics(demo_id),
    item_label TEXT NOT NULL,
    cnt DOUBLE PRECISION,
    pct DOUBLE PRECISION
)`,
	`CREATE INDEX IF NOT EXISTS idx_p1_responses_question ON p1_responses(survey_id, question_id)`,
	`CREATE TABLE IF NOT EXISTS processed_files (
    filename TEXT PRIMARY KEY,
    run_id UUID NOT NULL,
    processed_at TIMESTAMP NOT NULL DEFAULT NOW()
)`,
}
