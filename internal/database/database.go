package database

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	formixlog "formix/internal/logging"

	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Service struct {
	db *gorm.DB
}

var (
	dbInstance *Service
)

func New() *Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}

	// Get user home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to get user home directory: %v", err)
	}

	svc, err := NewAt(filepath.Join(homeDir, ".formix"))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	dbInstance = svc
	return dbInstance
}

// NewAt opens (or creates) the database under the given directory. Unlike
// New it does not reuse the singleton; tests use it with a temp dir.
func NewAt(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "store.sqlite")

	conn := sqlite.Open(dbPath)
	db, err := gorm.Open(conn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, err
	}

	// Auto-migrate models
	if err := db.AutoMigrate(&Draft{}, &SchemaHistory{}); err != nil {
		return nil, err
	}

	return &Service{db: db}, nil
}

// GetDB returns the database instance
func (s *Service) GetDB() *gorm.DB {
	return s.db
}

// Close closes the database connection
func (s *Service) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Draft operations

// SaveDraft upserts the raw buffer for a schema key
func (s *Service) SaveDraft(schemaKey, title, content string) error {
	formixlog.Debug("Saving draft",
		zap.String("schema_key", schemaKey),
		zap.Int("content_len", len(content)))

	existing, err := s.GetDraft(schemaKey)
	if err != nil {
		return err
	}

	if existing == nil {
		return s.db.Create(&Draft{
			SchemaKey: schemaKey,
			Title:     title,
			Content:   content,
		}).Error
	}

	return s.db.Model(existing).Updates(map[string]any{
		"title":   title,
		"content": content,
	}).Error
}

// GetDraft retrieves the draft for a schema key, nil when none exists
func (s *Service) GetDraft(schemaKey string) (*Draft, error) {
	var draft Draft
	err := s.db.Where("schema_key = ?", schemaKey).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

// GetAllDrafts retrieves all saved drafts
func (s *Service) GetAllDrafts() ([]Draft, error) {
	var drafts []Draft
	err := s.db.Order("updated_at DESC").Find(&drafts).Error
	return drafts, err
}

// DeleteDraft deletes the draft for a schema key
func (s *Service) DeleteDraft(schemaKey string) error {
	return s.db.Where("schema_key = ?", schemaKey).Delete(&Draft{}).Error
}

// Schema history operations

// GetSchemaHistory returns the single schema history record, nil when none
func (s *Service) GetSchemaHistory() (*SchemaHistory, error) {
	var history SchemaHistory
	err := s.db.First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

// SetSchemaHistory updates the single schema history record (upsert pattern)
func (s *Service) SetSchemaHistory(current, previous string) error {
	existing, err := s.GetSchemaHistory()
	if err != nil {
		return err
	}

	if existing == nil {
		return s.db.Create(&SchemaHistory{
			CurrentSchema:  current,
			PreviousSchema: previous,
		}).Error
	}

	return s.db.Model(existing).Updates(map[string]any{
		"current_schema":  current,
		"previous_schema": previous,
	}).Error
}

// GetCurrentSchema returns the schema key edited last, empty when unknown
func (s *Service) GetCurrentSchema() (string, error) {
	history, err := s.GetSchemaHistory()
	if err != nil {
		return "", err
	}
	if history == nil {
		return "", nil
	}
	return history.CurrentSchema, nil
}
