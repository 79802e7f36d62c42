package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"storefront-service/domain"
	"storefront-service/infra/utils"

	_ "github.com/lib/pq"
)

type Database struct {
	db *sql.DB
}

func InitDatabase() *Database {
	host := utils.GetEnv("DB_HOST", "localhost")
	port := utils.GetEnv("DB_PORT", "5432")
	user := utils.GetEnv("DB_USER", "storefront")
	password := utils.GetEnv("DB_PASSWORD", "storefront123")
	dbname := utils.GetEnv("DB_NAME", "storefront")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to PostgreSQL database")

	return &Database{db: db}
}

func (d *Database) Ping() error {
	return d.db.Ping()
}

func (d *Database) Close() error {
	return d.db.Close()
}

// videoColumns folds the legacy file-reference columns into the
// canonical pair at the query boundary. Rows written before the column
// rename carry video_file_id / thumbnail_file_id; newer rows carry
// video_id / thumbnail_id. Everything above this package sees only the
// canonical fields.
const videoColumns = `
	id, title, description, price, COALESCE(duration, ''), COALESCE(views, 0), created_at,
	COALESCE(NULLIF(video_id, ''), video_file_id, ''),
	COALESCE(NULLIF(thumbnail_id, ''), thumbnail_file_id, ''),
	COALESCE(product_link, ''), is_active
`

func scanVideo(row interface{ Scan(...interface{}) error }) (*domain.Video, error) {
	video := &domain.Video{}
	err := row.Scan(
		&video.ID, &video.Title, &video.Description, &video.Price, &video.Duration,
		&video.Views, &video.CreatedAt, &video.MediaFileID, &video.ThumbnailFileID,
		&video.ProductLink, &video.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (d *Database) ListVideos() ([]*domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []*domain.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func (d *Database) GetVideoByID(id string) (*domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	video, err := scanVideo(d.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (d *Database) CreateVideo(video *domain.Video) error {
	query := `
		INSERT INTO videos (id, title, description, price, duration, views, created_at,
		                    video_id, thumbnail_id, product_link, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := d.db.Exec(query, video.ID, video.Title, video.Description, video.Price,
		video.Duration, video.Views, video.CreatedAt, video.MediaFileID,
		video.ThumbnailFileID, video.ProductLink, video.IsActive)
	return err
}

// UpdateVideo writes the canonical columns and clears the legacy pair so
// the record never references two generations of the same file.
func (d *Database) UpdateVideo(video *domain.Video) error {
	query := `
		UPDATE videos
		SET title = $1, description = $2, price = $3, duration = $4,
		    video_id = $5, thumbnail_id = $6, product_link = $7, is_active = $8,
		    video_file_id = NULL, thumbnail_file_id = NULL
		WHERE id = $9
	`
	result, err := d.db.Exec(query, video.Title, video.Description, video.Price,
		video.Duration, video.MediaFileID, video.ThumbnailFileID, video.ProductLink,
		video.IsActive, video.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (d *Database) DeleteVideo(id string) error {
	query := `DELETE FROM videos WHERE id = $1`
	_, err := d.db.Exec(query, id)
	return err
}

func (d *Database) SetVideoViews(id string, views int) error {
	query := `UPDATE videos SET views = $1 WHERE id = $2`
	_, err := d.db.Exec(query, views, id)
	return err
}
