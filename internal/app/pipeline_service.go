package app

import (
	"context"
	"errors"
	"fmt"

	"graphdesk/internal/entity"
	"graphdesk/internal/extract"
	"graphdesk/internal/model"
	"graphdesk/internal/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentNotFound: the referenced document id does not exist. Fatal
	// for the invocation and not worth retrying.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStorage: the blob store failed. The run is over but a caller-level
	// retry may succeed if the cause was transient.
	ErrStorage = errors.New("blob storage failed")

	// ErrProcessing: extraction, recognition or graph building failed.
	// Partial graph writes from the run are left in place.
	ErrProcessing = errors.New("document processing failed")
)

// DocumentStore is the record-store surface the pipeline needs.
type DocumentStore interface {
	GetByID(id uint) (*model.Document, error)
	UpdateStatus(id uint, status string) error
	UpdateContent(id uint, content, status string) error
}

// GraphBuilder consumes one document's entities; satisfied by GraphService.
type GraphBuilder interface {
	Build(userID, documentID uint, candidates []entity.Candidate) error
}

// PipelineService runs the document pipeline: fetch record, download blob,
// extract text, recognize entities, grow the graph, finalize status. One
// invocation per document; steps run strictly in sequence.
type PipelineService struct {
	docs  DocumentStore
	blobs storage.BlobStore
	graph GraphBuilder
}

func NewPipelineService(docs DocumentStore, blobs storage.BlobStore, graph GraphBuilder) *PipelineService {
	return &PipelineService{
		docs:  docs,
		blobs: blobs,
		graph: graph,
	}
}

// Process drives one document through uploaded -> processing -> completed or
// failed. Re-entrant: reprocessing a terminal document starts over from
// processing. Graph writes from a failed run are not rolled back.
func (s *PipelineService) Process(ctx context.Context, documentID uint) error {
	doc, err := s.docs.GetByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := s.docs.UpdateStatus(doc.ID, model.StatusProcessing); err != nil {
		return err
	}

	blob, err := s.blobs.Download(ctx, doc.FilePath)
	if err != nil {
		_ = s.docs.UpdateStatus(doc.ID, model.StatusFailed)
		return fmt.Errorf("%w: download %q: %v", ErrStorage, doc.FilePath, err)
	}

	// Checkpoint: content is visible to pollers before recognition starts.
	content := extract.Extract(blob, doc.DocumentType)
	if err := s.docs.UpdateContent(doc.ID, content, model.StatusProcessing); err != nil {
		_ = s.docs.UpdateStatus(doc.ID, model.StatusFailed)
		return fmt.Errorf("%w: persist content: %v", ErrProcessing, err)
	}

	candidates := entity.Recognize(content)
	if err := s.graph.Build(doc.UserID, doc.ID, candidates); err != nil {
		_ = s.docs.UpdateStatus(doc.ID, model.StatusFailed)
		return fmt.Errorf("%w: build graph: %v", ErrProcessing, err)
	}

	return s.docs.UpdateStatus(doc.ID, model.StatusCompleted)
}
