package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a SQLite-backed ProgressRepository
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("loading progress document: user_id=%s", userID)

	query, args, err := sqlBuilder.Select("document").
		From("progress_documents").
		Where(squirrel.Eq{"user_id": userID, "storage_key": repository.StorageKey}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var doc string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress document: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load progress document: %v", err)
		return nil, err
	}
	return []byte(doc), nil
}

func (r *progressRepository) Put(ctx context.Context, userID string, document []byte) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("writing progress document: user_id=%s, bytes=%d", userID, len(document))

	stmt := sqlBuilder.Insert("progress_documents").
		Columns("user_id", "storage_key", "document").
		Values(userID, repository.StorageKey, string(document)).
		Suffix("ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, storage_key = excluded.storage_key, updated_at = CURRENT_TIMESTAMP")

	if _, err := execBuilt(ctx, r.db, stmt); err != nil {
		log.Error("failed to write progress document: %v", err)
		return err
	}
	return nil
}

func (r *progressRepository) Delete(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("deleting progress document: user_id=%s", userID)

	stmt := sqlBuilder.Delete("progress_documents").Where(squirrel.Eq{"user_id": userID})
	if _, err := execBuilt(ctx, r.db, stmt); err != nil {
		log.Error("failed to delete progress document: %v", err)
		return err
	}
	return nil
}

func (r *progressRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing users with progress")

	query, args, err := sqlBuilder.Select("user_id").
		From("progress_documents").
		Where(squirrel.Eq{"storage_key": repository.StorageKey}).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("found %d users", len(ids))
	return ids, rows.Err()
}
