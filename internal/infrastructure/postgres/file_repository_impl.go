package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
)

const fileColumns = `id, user_id, name, type, parent_id, is_public, local_path, created_at`

type FileRepository struct {
	db DBTX
}

func NewFileRepository(db DBTX) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, f *entity.File) error {
	var localPath pgtype.Text
	if f.Kind.HasContent() {
		localPath = pgtype.Text{String: f.LocalPath, Valid: true}
	}
	parent := f.ParentID
	if parent.IsRoot() {
		parent = entity.RootParent
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO files (user_id, name, type, parent_id, is_public, local_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, f.UserID, f.Name, string(f.Kind), string(parent), f.IsPublic, localPath)

	if err := row.Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	f.ParentID = parent
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*entity.File, error) {
	if !validID(id) {
		return nil, apperror.NotFound()
	}
	row := r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound()
		}
		return nil, fmt.Errorf("select file: %w", err)
	}
	return f, nil
}

func (r *FileRepository) ListByParent(ctx context.Context, userID string, parent entity.ParentRef, limit, offset int) ([]entity.File, error) {
	if parent.IsRoot() {
		parent = entity.RootParent
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY seq
		LIMIT $3 OFFSET $4
	`, userID, string(parent), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	out := make([]entity.File, 0, limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return out, nil
}

func (r *FileRepository) SetPublic(ctx context.Context, id, userID string, public bool) (*entity.File, error) {
	if !validID(id) {
		return nil, apperror.NotFound()
	}
	row := r.db.QueryRow(ctx, `
		UPDATE files SET is_public = $1
		WHERE id = $2 AND user_id = $3
		RETURNING `+fileColumns, public, id, userID)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound()
		}
		return nil, fmt.Errorf("update file visibility: %w", err)
	}
	return f, nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

func scanFile(row pgx.Row) (*entity.File, error) {
	var (
		f         entity.File
		kind      string
		parent    string
		localPath pgtype.Text
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &kind, &parent, &f.IsPublic, &localPath, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Kind = entity.FileKind(kind)
	f.ParentID = entity.ParentRef(parent)
	if localPath.Valid {
		f.LocalPath = localPath.String
	}
	return &f, nil
}

var _ repository.FileRepository = (*FileRepository)(nil)
