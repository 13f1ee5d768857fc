package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdesk/internal/entity"
	"graphdesk/internal/model"
)

type fakeDocStore struct {
	docs     map[uint]*model.Document
	statuses []string
}

func newFakeDocStore(docs ...*model.Document) *fakeDocStore {
	m := make(map[uint]*model.Document)
	for _, d := range docs {
		m[d.ID] = d
	}
	return &fakeDocStore{docs: m}
}

func (f *fakeDocStore) GetByID(id uint) (*model.Document, error) {
	return f.docs[id], nil
}

func (f *fakeDocStore) UpdateStatus(id uint, status string) error {
	if d := f.docs[id]; d != nil {
		d.Status = status
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeDocStore) UpdateContent(id uint, content, status string) error {
	if d := f.docs[id]; d != nil {
		d.Content = content
		d.Status = status
	}
	f.statuses = append(f.statuses, status)
	return nil
}

type fakeBlobStore struct {
	blobs       map[string][]byte
	downloadErr error
	uploadErr   error
	removeErr   error
	removed     []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.blobs[key]
	if !ok {
		return nil, errors.New("blob missing")
	}
	return data, nil
}

func (f *fakeBlobStore) Remove(ctx context.Context, keys []string) error {
	f.removed = append(f.removed, keys...)
	return f.removeErr
}

type fakeGraphBuilder struct {
	calls    int
	lastUser uint
	lastDoc  uint
	lastCand []entity.Candidate
	err      error
}

func (f *fakeGraphBuilder) Build(userID, documentID uint, candidates []entity.Candidate) error {
	f.calls++
	f.lastUser = userID
	f.lastDoc = documentID
	f.lastCand = candidates
	return f.err
}

func TestProcessUnknownDocument(t *testing.T) {
	svc := NewPipelineService(newFakeDocStore(), newFakeBlobStore(), &fakeGraphBuilder{})

	err := svc.Process(context.Background(), 42)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestProcessDownloadFailureMarksFailed(t *testing.T) {
	doc := &model.Document{ID: 1, UserID: 7, FilePath: "7/missing.txt", Status: model.StatusUploaded}
	docs := newFakeDocStore(doc)
	blobs := newFakeBlobStore()
	blobs.downloadErr = errors.New("disk gone")
	graph := &fakeGraphBuilder{}
	svc := NewPipelineService(docs, blobs, graph)

	err := svc.Process(context.Background(), 1)
	require.ErrorIs(t, err, ErrStorage)

	assert.Equal(t, model.StatusFailed, doc.Status)
	assert.Empty(t, doc.Content)
	assert.Zero(t, graph.calls)
}

func TestProcessGraphFailureMarksFailed(t *testing.T) {
	doc := &model.Document{ID: 1, UserID: 7, FilePath: "7/a.txt", DocumentType: model.DocTypeText, Status: model.StatusUploaded}
	docs := newFakeDocStore(doc)
	blobs := newFakeBlobStore()
	blobs.blobs["7/a.txt"] = []byte("so Alice met Bob")
	graph := &fakeGraphBuilder{err: errors.New("db down")}
	svc := NewPipelineService(docs, blobs, graph)

	err := svc.Process(context.Background(), 1)
	require.ErrorIs(t, err, ErrProcessing)

	assert.Equal(t, model.StatusFailed, doc.Status)
	// The content checkpoint survives the failed run.
	assert.Equal(t, "so Alice met Bob", doc.Content)
}

func TestProcessSuccess(t *testing.T) {
	doc := &model.Document{ID: 1, UserID: 7, FilePath: "7/a.txt", DocumentType: model.DocTypeText, Status: model.StatusUploaded}
	docs := newFakeDocStore(doc)
	blobs := newFakeBlobStore()
	blobs.blobs["7/a.txt"] = []byte("so Alice met Bob today")
	graph := &fakeGraphBuilder{}
	svc := NewPipelineService(docs, blobs, graph)

	err := svc.Process(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, doc.Status)
	assert.Equal(t, "so Alice met Bob today", doc.Content)

	require.Equal(t, 1, graph.calls)
	assert.Equal(t, uint(7), graph.lastUser)
	assert.Equal(t, uint(1), graph.lastDoc)
	names := make([]string, len(graph.lastCand))
	for i, c := range graph.lastCand {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Alice", "Bob"}, names)

	// uploaded -> processing -> processing (content checkpoint) -> completed
	assert.Equal(t, []string{
		model.StatusProcessing,
		model.StatusProcessing,
		model.StatusCompleted,
	}, docs.statuses)
}
