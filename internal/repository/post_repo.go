package repository

import (
	"context"

	"github.com/saeid-a/PowerScaleBack/internal/models"
)

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, userID int64, imageURL string) (*models.Post, error) {
	query := `
		INSERT INTO posts (user_id, image_url)
		VALUES ($1, $2)
		RETURNING id, user_id, image_url, created_at
	`
	var post models.Post
	err := r.db.QueryRow(ctx, query, userID, imageURL).
		Scan(&post.ID, &post.UserID, &post.ImageURL, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Post, error) {
	query := `
		SELECT id, user_id, image_url, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.ImageURL, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
