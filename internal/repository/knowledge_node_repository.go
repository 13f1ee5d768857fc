package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"graphdesk/internal/model"
)

type KnowledgeNodeRepository struct {
	db *gorm.DB
}

func NewKnowledgeNodeRepository(db *gorm.DB) *KnowledgeNodeRepository {
	return &KnowledgeNodeRepository{db: db}
}

func (r *KnowledgeNodeRepository) Create(node *model.KnowledgeNode) error {
	if err := r.db.Create(node).Error; err != nil {
		return fmt.Errorf("create knowledge node failed: %w", err)
	}
	return nil
}

// GetByUserIDAndName is the dedup lookup: (owner, name) is unique.
func (r *KnowledgeNodeRepository) GetByUserIDAndName(userID uint, name string) (*model.KnowledgeNode, error) {
	var node model.KnowledgeNode
	if err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get knowledge node failed: %w", err)
	}
	return &node, nil
}

func (r *KnowledgeNodeRepository) Update(node *model.KnowledgeNode) error {
	if err := r.db.Save(node).Error; err != nil {
		return fmt.Errorf("update knowledge node failed: %w", err)
	}
	return nil
}

func (r *KnowledgeNodeRepository) ListByUserID(userID uint) ([]model.KnowledgeNode, error) {
	var list []model.KnowledgeNode
	if err := r.db.Where("user_id = ?", userID).Order("count DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list knowledge nodes failed: %w", err)
	}
	return list, nil
}

// SearchByName finds nodes whose name contains the term, most-mentioned first.
func (r *KnowledgeNodeRepository) SearchByName(userID uint, term string, limit int) ([]model.KnowledgeNode, error) {
	var list []model.KnowledgeNode
	q := r.db.Where("user_id = ? AND name LIKE ?", userID, "%"+term+"%").Order("count DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search knowledge nodes failed: %w", err)
	}
	return list, nil
}

func (r *KnowledgeNodeRepository) CountByUserID(userID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&model.KnowledgeNode{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count knowledge nodes failed: %w", err)
	}
	return n, nil
}
