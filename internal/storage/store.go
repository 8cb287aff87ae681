// Package storage persists analysis sessions, raw sweep points and the
// final suitable wings in a SQLite database, so ranking and design can
// be re-run against a stored sweep without re-querying the surrogate.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
	"github.com/aeroclub-nitte/wing-analyzer/internal/wing"
)

// maxBatchSize limits how many sweep points go into a single
// multi-VALUES insert statement.
const maxBatchSize = 500

// Session is one stored analysis run.
type Session struct {
	ID          int64
	StartTime   time.Time
	Application string
	Config      *string // analysis parameters as JSON, if recorded
}

// Store handles database operations. Writes are atomic per call.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store for the database at dbPath. Connections are
// opened lazily; the schema is initialized on first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession records a new analysis run and returns its identifier.
// config may be a string, []byte or any JSON-serializable value.
func (s *Store) CreateSession(ctx context.Context, application string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, application, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

// Session retrieves one stored session, or an error if it does not exist.
func (s *Store) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	var sess Session
	var config sql.NullString
	if err = db.QueryRowContext(ctx, selectSessionSQL, id).Scan(&sess.ID, &sess.StartTime, &sess.Application, &config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	if config.Valid {
		sess.Config = &config.String
	}

	return &sess, nil
}

// Sessions returns all stored sessions ordered by start time.
func (s *Store) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.StartTime, &sess.Application, &config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		if config.Valid {
			sess.Config = &config.String
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// StoreSweepPoints saves raw surrogate output for a session. Points are
// written in chunked multi-VALUES inserts inside one transaction, so a
// partial sweep is never visible to readers.
func (s *Store) StoreSweepPoints(ctx context.Context, sessionID int64, points []polar.Point) (err error) {
	if len(points) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	for chunk := range slices.Chunk(points, maxBatchSize) {
		var sb strings.Builder
		sb.WriteString(insertSweepPointsSQL)

		values := make([]any, 0, len(chunk)*9)
		for i, p := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")

			values = append(values,
				sessionID,
				p.AirfoilName,
				p.Reynolds,
				p.AlphaDeg,
				p.Velocity,
				p.CL,
				p.CD,
				p.CLOverCD,
				p.CM,
			)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting sweep points: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SweepPoints loads a session's raw sweep back in insertion order.
func (s *Store) SweepPoints(ctx context.Context, sessionID int64) (points []polar.Point, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSweepPointsSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying sweep points: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var p polar.Point
		if err = rows.Scan(&p.AirfoilName, &p.Reynolds, &p.AlphaDeg, &p.Velocity, &p.CL, &p.CD, &p.CLOverCD, &p.CM); err != nil {
			err = fmt.Errorf("scanning sweep point: %w", err)
			return
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// StoreSuitableWings saves the final ranked shortlist for a session in
// one transaction.
func (s *Store) StoreSuitableWings(ctx context.Context, sessionID int64, wings []wing.SuitableWing) (err error) {
	if len(wings) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertSuitableWingSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, w := range wings {
		if _, err = stmt.ExecContext(ctx,
			sessionID,
			w.AirfoilName,
			w.Reynolds,
			w.Velocity,
			w.AspectRatio,
			w.Chord,
			w.Wingspan,
			w.LiftN,
			w.LiftKgs,
			w.OptimumAngle,
			w.OptimumCL,
			w.MaxCLOverCD,
			nullableFloat(w.LiftNorm),
			nullableFloat(w.SpanNorm),
			nullableFloat(w.FinalScore),
		); err != nil {
			return fmt.Errorf("inserting suitable wing: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SuitableWings loads a session's stored shortlist back in rank order.
// NULL normalized columns come back as NaN.
func (s *Store) SuitableWings(ctx context.Context, sessionID int64) (wings []wing.SuitableWing, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSuitableWingsSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying suitable wings: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var w wing.SuitableWing
		var liftNorm, spanNorm, finalScore sql.NullFloat64
		if err = rows.Scan(&w.AirfoilName, &w.Reynolds, &w.Velocity, &w.AspectRatio, &w.Chord, &w.Wingspan,
			&w.LiftN, &w.LiftKgs, &w.OptimumAngle, &w.OptimumCL, &w.MaxCLOverCD,
			&liftNorm, &spanNorm, &finalScore); err != nil {
			err = fmt.Errorf("scanning suitable wing: %w", err)
			return
		}
		w.LiftNorm = floatOrNaN(liftNorm)
		w.SpanNorm = floatOrNaN(spanNorm)
		w.FinalScore = floatOrNaN(finalScore)
		wings = append(wings, w)
	}
	return wings, rows.Err()
}

// Close releases both connections. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
