package repository

import (
	"fmt"

	"gorm.io/gorm"

	"graphdesk/internal/model"
)

type KnowledgeRelationshipRepository struct {
	db *gorm.DB
}

func NewKnowledgeRelationshipRepository(db *gorm.DB) *KnowledgeRelationshipRepository {
	return &KnowledgeRelationshipRepository{db: db}
}

func (r *KnowledgeRelationshipRepository) Create(rel *model.KnowledgeRelationship) error {
	if err := r.db.Create(rel).Error; err != nil {
		return fmt.Errorf("create knowledge relationship failed: %w", err)
	}
	return nil
}

func (r *KnowledgeRelationshipRepository) ListByUserID(userID uint) ([]model.KnowledgeRelationship, error) {
	var list []model.KnowledgeRelationship
	if err := r.db.Where("user_id = ?", userID).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list knowledge relationships failed: %w", err)
	}
	return list, nil
}

func (r *KnowledgeRelationshipRepository) CountByUserID(userID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&model.KnowledgeRelationship{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count knowledge relationships failed: %w", err)
	}
	return n, nil
}

// DeleteMentionsByDocumentID removes mention edges targeting a document.
// Not called by the pipeline today; kept for future reprocess cleanup.
func (r *KnowledgeRelationshipRepository) DeleteMentionsByDocumentID(userID, documentID uint) error {
	if err := r.db.Where(
		"user_id = ? AND relationship_type = ? AND target_id = ?",
		userID, model.RelationMentionedIn, documentID,
	).Delete(&model.KnowledgeRelationship{}).Error; err != nil {
		return fmt.Errorf("delete mention relationships failed: %w", err)
	}
	return nil
}
