package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"graphdesk/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) GetByIDAndUserID(id, userID uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByUserID(userID uint) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

func (r *DocumentRepository) CountByUserID(userID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&model.Document{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count documents failed: %w", err)
	}
	return n, nil
}

func (r *DocumentRepository) UpdateStatus(id uint, status string) error {
	updates := map[string]interface{}{"status": status, "updated_at": time.Now()}
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update document status failed: %w", err)
	}
	return nil
}

// UpdateContent persists the extracted text together with a status value so
// the processing checkpoint is observable in one write.
func (r *DocumentRepository) UpdateContent(id uint, content, status string) error {
	updates := map[string]interface{}{"content": content, "status": status, "updated_at": time.Now()}
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update document content failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) UpdateFilePath(id uint, filePath string) error {
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Update("file_path", filePath).Error; err != nil {
		return fmt.Errorf("update document file path failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) MarkVectorEmbedded(id uint) error {
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Update("vector_embedded", true).Error; err != nil {
		return fmt.Errorf("mark document embedded failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) DeleteByIDAndUserID(id, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
