package board

import (
	"database/sql"

	"github.com/cheachwood/GitOnBoard/errors"
)

// Store persists jobs, the owner slot and the event log in SQLite.
//
// Reads go through the *sql.DB directly and only ever observe committed
// state. Writes are tx-scoped: the Registry opens one transaction per
// mutation and hands it to the tx-suffixed methods so a rejected
// operation leaves nothing behind.
type Store struct {
	db *sql.DB
}

// NewStore creates a store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying database for transaction control.
func (s *Store) DB() *sql.DB {
	return s.db
}

const jobColumns = `id, creation_date, daily_rate, description, status, is_active,
	author, candidate, candidate_name, candidate_email`

// scanJob scans a single job row.
func scanJob(row interface{ Scan(...interface{}) error }) (*Job, error) {
	var job Job
	var isActive int
	err := row.Scan(
		&job.ID,
		&job.CreationDate,
		&job.DailyRate,
		&job.Description,
		&job.Status,
		&isActive,
		&job.Author,
		&job.Candidate,
		&job.CandidateName,
		&job.CandidateEmail,
	)
	if err != nil {
		return nil, err
	}
	job.IsActive = isActive != 0
	return &job, nil
}

// GetJob retrieves a job by id.
func (s *Store) GetJob(id int64) (*Job, error) {
	row := s.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrJobDoesNotExist, "job %d", id)
		}
		return nil, errors.Wrapf(err, "get job %d", id)
	}
	return job, nil
}

// getJobTx retrieves a job inside a mutation's transaction.
func getJobTx(tx *sql.Tx, id int64) (*Job, error) {
	row := tx.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrJobDoesNotExist, "job %d", id)
		}
		return nil, errors.Wrapf(err, "get job %d", id)
	}
	return job, nil
}

// ListJobs returns all jobs in ascending id order.
func (s *Store) ListJobs() ([]*Job, error) {
	rows, err := s.db.Query(`SELECT ` + jobColumns + ` FROM jobs ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListActiveJobs returns jobs with is_active set, in ascending id order.
func (s *Store) ListActiveJobs() ([]*Job, error) {
	rows, err := s.db.Query(`SELECT ` + jobColumns + ` FROM jobs WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list active jobs")
	}
	defer rows.Close()

	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]*Job, error) {
	jobs := make([]*Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate jobs")
	}
	return jobs, nil
}

// nextJobIDTx returns the next sequential job id. Jobs are never deleted,
// so MAX(id)+1 yields a gapless sequence starting at 1.
func nextJobIDTx(tx *sql.Tx) (int64, error) {
	var maxID sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(id) FROM jobs`).Scan(&maxID); err != nil {
		return 0, errors.Wrap(err, "next job id")
	}
	return maxID.Int64 + 1, nil
}

// insertJobTx writes a new job row with its pre-assigned id.
func insertJobTx(tx *sql.Tx, job *Job) error {
	_, err := tx.Exec(`
		INSERT INTO jobs (id, creation_date, daily_rate, description, status, is_active,
			author, candidate, candidate_name, candidate_email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.CreationDate, job.DailyRate, job.Description, job.Status, boolToInt(job.IsActive),
		job.Author, job.Candidate, job.CandidateName, job.CandidateEmail,
	)
	if err != nil {
		return errors.Wrapf(err, "insert job %d", job.ID)
	}
	return nil
}

// updateJobTx rewrites a job's mutable columns.
func updateJobTx(tx *sql.Tx, job *Job) error {
	result, err := tx.Exec(`
		UPDATE jobs
		SET daily_rate = ?, description = ?, status = ?, is_active = ?,
			candidate = ?, candidate_name = ?, candidate_email = ?
		WHERE id = ?`,
		job.DailyRate, job.Description, job.Status, boolToInt(job.IsActive),
		job.Candidate, job.CandidateName, job.CandidateEmail,
		job.ID,
	)
	if err != nil {
		return errors.Wrapf(err, "update job %d", job.ID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update job %d", job.ID)
	}
	if affected == 0 {
		return errors.Wrapf(ErrJobDoesNotExist, "job %d", job.ID)
	}
	return nil
}

// Owner returns the current board owner. Empty after renouncement or
// before bootstrap.
func (s *Store) Owner() (string, error) {
	var owner string
	err := s.db.QueryRow(`SELECT owner FROM board_meta WHERE id = 1`).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", errors.Wrap(err, "get owner")
	}
	return owner, nil
}

// ownerTx reads the owner slot inside a mutation's transaction.
func ownerTx(tx *sql.Tx) (string, error) {
	var owner string
	err := tx.QueryRow(`SELECT owner FROM board_meta WHERE id = 1`).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", errors.Wrap(err, "get owner")
	}
	return owner, nil
}

// setOwnerTx writes the owner slot, creating the meta row on first use.
func setOwnerTx(tx *sql.Tx, owner string) error {
	_, err := tx.Exec(`
		INSERT INTO board_meta (id, owner) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET owner = excluded.owner`,
		owner,
	)
	if err != nil {
		return errors.Wrap(err, "set owner")
	}
	return nil
}

// hasMetaRow reports whether the owner slot has ever been written.
func (s *Store) hasMetaRow() (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM board_meta WHERE id = 1)`).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check board meta")
	}
	return exists, nil
}

// ListEvents returns the most recent events in descending sequence order.
// A limit <= 0 returns everything.
func (s *Store) ListEvents(limit int) ([]*Event, error) {
	query := `SELECT seq, type, job_id, actor, payload, created_at FROM job_events ORDER BY seq DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		var event Event
		var payload string
		if err := rows.Scan(&event.Seq, &event.Type, &event.JobID, &event.Actor, &payload, &event.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		event.Payload = []byte(payload)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate events")
	}
	return events, nil
}

// Stats summarizes the registry contents for operational tooling.
type Stats struct {
	TotalJobs   int64 `json:"totalJobs"`
	ActiveJobs  int64 `json:"activeJobs"`
	OpenJobs    int64 `json:"openJobs"`
	TotalEvents int64 `json:"totalEvents"`
}

// GetStats counts jobs and events.
func (s *Store) GetStats() (*Stats, error) {
	var stats Stats
	row := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(is_active), 0),
			COALESCE(SUM(CASE WHEN status = 0 THEN 1 ELSE 0 END), 0)
		FROM jobs`)
	if err := row.Scan(&stats.TotalJobs, &stats.ActiveJobs, &stats.OpenJobs); err != nil {
		return nil, errors.Wrap(err, "count jobs")
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM job_events`).Scan(&stats.TotalEvents); err != nil {
		return nil, errors.Wrap(err, "count events")
	}
	return &stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
