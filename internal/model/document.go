package model

import "time"

// Document type values declared by the client at upload time.
const (
	DocTypePDF          = "pdf"
	DocTypeMarkdown     = "markdown"
	DocTypeText         = "text"
	DocTypeCode         = "code"
	DocTypeExcel        = "excel"
	DocTypePresentation = "presentation"
	DocTypeAudio        = "audio"
	DocTypeVideo        = "video"
)

// Document processing statuses. The status column is the single source of
// truth the client polls while processing runs.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type Document struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Title          string    `gorm:"size:256;not null" json:"title"`
	DocumentType   string    `gorm:"size:32;not null" json:"document_type"`
	FilePath       string    `gorm:"size:512" json:"file_path"`
	Status         string    `gorm:"size:16;not null;index" json:"status"`
	Content        string    `gorm:"type:longtext" json:"content,omitempty"`
	VectorEmbedded bool      `gorm:"not null;default:false" json:"vector_embedded"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// KnownDocumentType reports whether t is one of the declared upload types.
func KnownDocumentType(t string) bool {
	switch t {
	case DocTypePDF, DocTypeMarkdown, DocTypeText, DocTypeCode,
		DocTypeExcel, DocTypePresentation, DocTypeAudio, DocTypeVideo:
		return true
	}
	return false
}
