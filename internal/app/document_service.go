package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"graphdesk/internal/model"
	"graphdesk/internal/pkg/retry"
	"graphdesk/internal/storage"
)

// DocumentRecords is the record-store surface the document service needs.
type DocumentRecords interface {
	Create(doc *model.Document) error
	GetByIDAndUserID(id, userID uint) (*model.Document, error)
	ListByUserID(userID uint) ([]model.Document, error)
	UpdateFilePath(id uint, filePath string) error
	UpdateStatus(id uint, status string) error
	DeleteByIDAndUserID(id, userID uint) error
}

// Processor is the processing entry point; satisfied by PipelineService.
type Processor interface {
	Process(ctx context.Context, documentID uint) error
}

// DocumentService owns the upload/reprocess/delete flows and acts as the
// pipeline's retrying caller.
type DocumentService struct {
	docs        DocumentRecords
	blobs       storage.BlobStore
	processor   Processor
	retryPolicy retry.Policy
}

func NewDocumentService(docs DocumentRecords, blobs storage.BlobStore, processor Processor, policy retry.Policy) *DocumentService {
	if policy.MaxAttempts <= 0 {
		policy = retry.Default()
	}
	if policy.Retryable == nil {
		policy.Retryable = func(err error) bool {
			return !errors.Is(err, ErrDocumentNotFound)
		}
	}
	return &DocumentService{
		docs:        docs,
		blobs:       blobs,
		processor:   processor,
		retryPolicy: policy,
	}
}

type UploadInput struct {
	UserID       uint
	Title        string
	DocumentType string
	FileName     string
	Data         []byte
}

// Upload records the document and stores its blob. The row is written before
// the blob so a storage failure leaves a visible failed document rather than
// nothing. Processing is triggered separately by the caller.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.Document, error) {
	if input.UserID == 0 || len(input.Data) == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSuffix(input.FileName, filepath.Ext(input.FileName))
	}
	if title == "" {
		title = "Untitled"
	}

	docType := input.DocumentType
	if !model.KnownDocumentType(docType) {
		docType = model.DocTypeText
	}

	doc := &model.Document{
		UserID:       input.UserID,
		Title:        title,
		DocumentType: docType,
		Status:       model.StatusUploaded,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}

	key := blobKey(input.UserID, input.FileName)
	if err := s.blobs.Upload(ctx, key, input.Data); err != nil {
		_ = s.docs.UpdateStatus(doc.ID, model.StatusFailed)
		return nil, fmt.Errorf("%w: upload %q: %v", ErrStorage, key, err)
	}
	if err := s.docs.UpdateFilePath(doc.ID, key); err != nil {
		return nil, err
	}
	doc.FilePath = key

	return doc, nil
}

// ProcessWithRetry invokes the pipeline under the bounded retry policy.
// Exhausting the attempts is a warning, not an error: the document row
// persists and the user can trigger reprocessing later.
func (s *DocumentService) ProcessWithRetry(documentID uint) {
	err := s.retryPolicy.Do(context.Background(), func(ctx context.Context) error {
		return s.processor.Process(ctx, documentID)
	})
	if err != nil {
		log.Printf("document %d: uploaded but processing failed, reprocess later: %v", documentID, err)
	}
}

// Reprocess re-runs the full pipeline for an owned document. Previously
// written graph edges are not removed first.
func (s *DocumentService) Reprocess(userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docs.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	go s.ProcessWithRetry(doc.ID)
	return nil
}

func (s *DocumentService) List(userID uint) ([]model.Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.docs.ListByUserID(userID)
}

func (s *DocumentService) Get(userID, documentID uint) (*model.Document, error) {
	if userID == 0 || documentID == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.docs.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Delete removes the record, then the blob. A blob cleanup failure is logged
// and swallowed: the document is gone from the user's perspective either way.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docs.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if err := s.docs.DeleteByIDAndUserID(documentID, userID); err != nil {
		return err
	}
	if doc.FilePath != "" {
		if err := s.blobs.Remove(ctx, []string{doc.FilePath}); err != nil {
			log.Printf("document %d: blob cleanup failed: %v", documentID, err)
		}
	}
	return nil
}

func blobKey(userID uint, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%d/%s%s", userID, uuid.NewString(), ext)
}
