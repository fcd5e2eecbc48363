package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/devtrack/internal"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// Migrate creates the schema if it does not exist yet.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		p.logger.Errorf("failed to apply schema: %v", err)
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return internal.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", internal.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// execOwned runs a mutation and reports ErrNotFound when no row matched.
func (p *PostgresStorage) execOwned(ctx context.Context, what, sql string, args ...any) error {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to %s: %v", what, err)
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --- UserRepository ---

const userColumns = `id, name, email, password_hash, bio, COALESCE(avatar_url, ''), is_public, created_at`

func scanUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Bio, &u.AvatarURL, &u.IsPublic, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, bio, avatar_url, is_public, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Bio, nullIfEmpty(user.AvatarURL), user.IsPublic, user.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
		return translate(err)
	}
	return nil
}

func (p *PostgresStorage) GetUserByID(ctx context.Context, id string) (*internal.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (p *PostgresStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	return p.execOwned(ctx, "update user",
		`UPDATE users SET name = $2, bio = $3, avatar_url = $4, is_public = $5 WHERE id = $1`,
		user.ID, user.Name, user.Bio, nullIfEmpty(user.AvatarURL), user.IsPublic)
}

// --- TopicRepository ---

func (p *PostgresStorage) CreateTopic(ctx context.Context, topic *internal.Topic) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO topics (id, user_id, name, category, created_at) VALUES ($1, $2, $3, $4, $5)`,
		topic.ID, topic.UserID, topic.Name, string(topic.Category), topic.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert topic: %v", err)
		return translate(err)
	}
	return nil
}

func (p *PostgresStorage) UpdateTopic(ctx context.Context, topic *internal.Topic) error {
	return p.execOwned(ctx, "update topic",
		`UPDATE topics SET name = $3, category = $4 WHERE id = $1 AND user_id = $2`,
		topic.ID, topic.UserID, topic.Name, string(topic.Category))
}

func (p *PostgresStorage) DeleteTopic(ctx context.Context, userID, id string) error {
	// daily_logs cascade and resources are detached by the foreign keys.
	return p.execOwned(ctx, "delete topic", `DELETE FROM topics WHERE id = $1 AND user_id = $2`, id, userID)
}

func (p *PostgresStorage) GetTopic(ctx context.Context, userID, id string) (*internal.Topic, error) {
	var t internal.Topic
	var category string
	err := p.pool.QueryRow(ctx, `SELECT id, user_id, name, category, created_at FROM topics WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&t.ID, &t.UserID, &t.Name, &category, &t.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	t.Category = internal.Category(category)
	return &t, nil
}

func (p *PostgresStorage) ListTopics(ctx context.Context, userID string) ([]internal.TopicWithCount, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT t.id, t.user_id, t.name, t.category, t.created_at, COUNT(l.id)
		FROM topics t LEFT JOIN daily_logs l ON l.topic_id = t.id
		WHERE t.user_id = $1
		GROUP BY t.id
		ORDER BY t.created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query topics: %v", err)
		return nil, err
	}
	defer rows.Close()

	topics := []internal.TopicWithCount{}
	for rows.Next() {
		var t internal.TopicWithCount
		var category string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &category, &t.CreatedAt, &t.LogCount); err != nil {
			p.logger.Errorf("failed to scan topic: %v", err)
			return nil, err
		}
		t.Category = internal.Category(category)
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (p *PostgresStorage) CountTopics(ctx context.Context, userID string) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM topics WHERE user_id = $1`, userID).Scan(&n); err != nil {
		p.logger.Errorf("failed to count topics: %v", err)
		return 0, err
	}
	return n, nil
}

func (p *PostgresStorage) TopicTotals(ctx context.Context, userID string) ([]internal.TopicTotals, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT t.id, t.name, t.category, COALESCE(SUM(l.problems_solved), 0), COUNT(l.id)
		FROM topics t LEFT JOIN daily_logs l ON l.topic_id = t.id
		WHERE t.user_id = $1
		GROUP BY t.id
		ORDER BY t.created_at ASC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query topic totals: %v", err)
		return nil, err
	}
	defer rows.Close()

	totals := []internal.TopicTotals{}
	for rows.Next() {
		var t internal.TopicTotals
		var category string
		if err := rows.Scan(&t.ID, &t.Name, &category, &t.TotalProblems, &t.LogCount); err != nil {
			p.logger.Errorf("failed to scan topic totals: %v", err)
			return nil, err
		}
		t.Category = internal.Category(category)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// --- LogRepository ---

func (p *PostgresStorage) CreateLog(ctx context.Context, l *internal.DailyLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO daily_logs (id, user_id, topic_id, date, energy, problems_solved, revision_volume, backend_work, tech_used, notes, problem_urls, stars, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		l.ID, l.UserID, l.TopicID, l.Date, l.Energy, l.ProblemsSolved, l.RevisionVolume, l.BackendWork, l.TechUsed, l.Notes, l.ProblemURLs, l.Stars, l.IsPublic, l.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert daily log: %v", err)
		return translate(err)
	}
	return nil
}

// UpdateLog fills in the stored created_at of the updated row.
func (p *PostgresStorage) UpdateLog(ctx context.Context, l *internal.DailyLog) error {
	err := p.pool.QueryRow(ctx, `UPDATE daily_logs SET topic_id = $3, date = $4, energy = $5, problems_solved = $6, revision_volume = $7,
		backend_work = $8, tech_used = $9, notes = $10, problem_urls = $11, stars = $12, is_public = $13
		WHERE id = $1 AND user_id = $2
		RETURNING created_at`,
		l.ID, l.UserID, l.TopicID, l.Date, l.Energy, l.ProblemsSolved, l.RevisionVolume, l.BackendWork, l.TechUsed, l.Notes, l.ProblemURLs, l.Stars, l.IsPublic,
	).Scan(&l.CreatedAt)
	if err = translate(err); err != nil && !errors.Is(err, internal.ErrNotFound) {
		p.logger.Errorf("failed to update daily log: %v", err)
	}
	return err
}

func (p *PostgresStorage) DeleteLog(ctx context.Context, userID, id string) error {
	return p.execOwned(ctx, "delete daily log", `DELETE FROM daily_logs WHERE id = $1 AND user_id = $2`, id, userID)
}

// where renders the filter of q starting at placeholder $1.
func (q LogQuery) where() (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if q.UserID != "" {
		add("l.user_id = $%d", q.UserID)
	}
	if q.TopicID != "" {
		add("l.topic_id = $%d", q.TopicID)
	}
	if !q.Since.IsZero() {
		add("l.date >= $%d", q.Since)
	}
	if !q.Before.IsZero() {
		add("l.date < $%d", q.Before)
	}
	if q.PublicOnly {
		clauses = append(clauses, "l.is_public")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const logColumns = `l.id, l.user_id, l.topic_id, l.date, l.energy, l.problems_solved, l.revision_volume, l.backend_work, l.tech_used, l.notes, l.problem_urls, l.stars, l.is_public, l.created_at`

func logDest(l *internal.DailyLog) []any {
	return []any{&l.ID, &l.UserID, &l.TopicID, &l.Date, &l.Energy, &l.ProblemsSolved, &l.RevisionVolume, &l.BackendWork, &l.TechUsed, &l.Notes, &l.ProblemURLs, &l.Stars, &l.IsPublic, &l.CreatedAt}
}

func (p *PostgresStorage) ListLogs(ctx context.Context, q LogQuery) ([]internal.LogWithTopic, error) {
	where, args := q.where()
	sql := `SELECT ` + logColumns + `, t.name, t.category FROM daily_logs l JOIN topics t ON t.id = l.topic_id` + where + ` ORDER BY l.date DESC, l.created_at DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.LogWithTopic{}
	for rows.Next() {
		var l internal.LogWithTopic
		var category string
		dest := append(logDest(&l.DailyLog), &l.Topic.Name, &category)
		if err := rows.Scan(dest...); err != nil {
			p.logger.Errorf("failed to scan daily log: %v", err)
			return nil, err
		}
		l.Topic.ID = l.TopicID
		l.Topic.Category = internal.Category(category)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (p *PostgresStorage) SumLogs(ctx context.Context, q LogQuery) (internal.LogTotals, error) {
	where, args := q.where()
	var t internal.LogTotals
	err := p.pool.QueryRow(ctx, `SELECT COALESCE(SUM(l.problems_solved), 0), COALESCE(SUM(l.revision_volume), 0), COALESCE(SUM(l.stars), 0), COUNT(*) FROM daily_logs l`+where, args...).
		Scan(&t.Problems, &t.Revisions, &t.Stars, &t.Count)
	if err != nil {
		p.logger.Errorf("failed to aggregate daily logs: %v", err)
		return internal.LogTotals{}, err
	}
	return t, nil
}

func (p *PostgresStorage) ListPublicLogs(ctx context.Context, offset, limit int) ([]internal.FeedEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+logColumns+`, u.id, u.name, COALESCE(u.avatar_url, ''), t.name, t.category
		FROM daily_logs l
		JOIN users u ON u.id = l.user_id
		JOIN topics t ON t.id = l.topic_id
		WHERE l.is_public AND u.is_public
		ORDER BY l.created_at DESC, l.id DESC
		OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		p.logger.Errorf("failed to query public feed: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []internal.FeedEntry{}
	for rows.Next() {
		var e internal.FeedEntry
		var category string
		dest := append(logDest(&e.DailyLog), &e.User.ID, &e.User.Name, &e.User.AvatarURL, &e.Topic.Name, &category)
		if err := rows.Scan(dest...); err != nil {
			p.logger.Errorf("failed to scan feed entry: %v", err)
			return nil, err
		}
		e.Topic.Category = internal.Category(category)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgresStorage) CountPublicLogs(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_logs l JOIN users u ON u.id = l.user_id WHERE l.is_public AND u.is_public`).Scan(&n)
	if err != nil {
		p.logger.Errorf("failed to count public feed: %v", err)
		return 0, err
	}
	return n, nil
}

// --- SkillRepository ---

func (p *PostgresStorage) CreateSkill(ctx context.Context, s *internal.BackendSkill) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO backend_skills (id, user_id, skill, practiced, used_in_project, confidence, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Skill, s.Practiced, s.UsedInProject, s.Confidence, s.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert skill: %v", err)
		return translate(err)
	}
	return nil
}

func (p *PostgresStorage) UpdateSkill(ctx context.Context, s *internal.BackendSkill) error {
	return p.execOwned(ctx, "update skill",
		`UPDATE backend_skills SET skill = $3, practiced = $4, used_in_project = $5, confidence = $6 WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.Skill, s.Practiced, s.UsedInProject, s.Confidence)
}

func (p *PostgresStorage) DeleteSkill(ctx context.Context, userID, id string) error {
	return p.execOwned(ctx, "delete skill", `DELETE FROM backend_skills WHERE id = $1 AND user_id = $2`, id, userID)
}

func (p *PostgresStorage) querySkills(ctx context.Context, sql string, args ...any) ([]internal.BackendSkill, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query skills: %v", err)
		return nil, err
	}
	defer rows.Close()

	skills := []internal.BackendSkill{}
	for rows.Next() {
		var s internal.BackendSkill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Skill, &s.Practiced, &s.UsedInProject, &s.Confidence, &s.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan skill: %v", err)
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (p *PostgresStorage) ListSkills(ctx context.Context, userID string) ([]internal.BackendSkill, error) {
	return p.querySkills(ctx, `SELECT id, user_id, skill, practiced, used_in_project, confidence, created_at FROM backend_skills WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (p *PostgresStorage) ListSkillsBelow(ctx context.Context, userID string, below, limit int) ([]internal.BackendSkill, error) {
	return p.querySkills(ctx, `SELECT id, user_id, skill, practiced, used_in_project, confidence, created_at FROM backend_skills
		WHERE user_id = $1 AND confidence < $2 ORDER BY created_at DESC LIMIT $3`, userID, below, limit)
}

// --- ResourceRepository ---

func (p *PostgresStorage) CreateResource(ctx context.Context, r *internal.Resource) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO resources (id, user_id, title, url, description, type, topic_id, upvotes, is_public, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.UserID, r.Title, r.URL, r.Description, string(r.Type), nullIfEmpty(r.TopicID), r.Upvotes, r.IsPublic, r.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert resource: %v", err)
		return translate(err)
	}
	return nil
}

func (p *PostgresStorage) DeleteResource(ctx context.Context, userID, id string) error {
	return p.execOwned(ctx, "delete resource", `DELETE FROM resources WHERE id = $1 AND user_id = $2`, id, userID)
}

func (p *PostgresStorage) queryResources(ctx context.Context, sql string, args ...any) ([]internal.ResourceEntry, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query resources: %v", err)
		return nil, err
	}
	defer rows.Close()

	resources := []internal.ResourceEntry{}
	for rows.Next() {
		var e internal.ResourceEntry
		var typ string
		var userID, userName, avatar, topicName, topicCategory *string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.URL, &e.Description, &typ, &e.TopicID, &e.Upvotes, &e.IsPublic, &e.CreatedAt,
			&userID, &userName, &avatar, &topicName, &topicCategory); err != nil {
			p.logger.Errorf("failed to scan resource: %v", err)
			return nil, err
		}
		e.Type = internal.ResourceType(typ)
		if userID != nil {
			e.User = &internal.UserRef{ID: *userID, Name: *userName, AvatarURL: *avatar}
		}
		if topicName != nil {
			e.Topic = &internal.TopicRef{Name: *topicName, Category: internal.Category(*topicCategory)}
		}
		resources = append(resources, e)
	}
	return resources, rows.Err()
}

const resourceSelect = `SELECT r.id, r.user_id, r.title, r.url, r.description, r.type, COALESCE(r.topic_id, ''), r.upvotes, r.is_public, r.created_at`

func (p *PostgresStorage) ListPublicResources(ctx context.Context, topicID string, limit int) ([]internal.ResourceEntry, error) {
	return p.queryResources(ctx, resourceSelect+`, u.id, u.name, COALESCE(u.avatar_url, ''), t.name, t.category
		FROM resources r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN topics t ON t.id = r.topic_id
		WHERE r.is_public AND ($1 = '' OR r.topic_id = $1)
		ORDER BY r.upvotes DESC, r.created_at DESC
		LIMIT $2`, topicID, limit)
}

func (p *PostgresStorage) ListUserResources(ctx context.Context, userID string) ([]internal.ResourceEntry, error) {
	return p.queryResources(ctx, resourceSelect+`, NULL::text, NULL::text, NULL::text, t.name, t.category
		FROM resources r
		LEFT JOIN topics t ON t.id = r.topic_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC`, userID)
}

func (p *PostgresStorage) UpvoteResource(ctx context.Context, id string) error {
	return p.execOwned(ctx, "upvote resource", `UPDATE resources SET upvotes = upvotes + 1 WHERE id = $1`, id)
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
