package handlers

import (
	"context"
	"io"
	"sync"
)

type uploadCall struct {
	Folder      string
	Field       string
	Filename    string
	ContentType string
}

type mockStorage struct {
	UploadProductImageFn    func(filename, contentType string) (string, error)
	UploadApplicationFileFn func(folder, field, filename, contentType string) (string, error)
	DeleteFileFn            func(objectPath string) error
	DeleteFileCalls         []string
	UploadCalls             []uploadCall
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadProductImage(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	m.UploadCalls = append(m.UploadCalls, uploadCall{Filename: filename, ContentType: contentType})
	if m.UploadProductImageFn != nil {
		return m.UploadProductImageFn(filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/products/test_" + filename, nil
}

func (m *mockStorage) UploadApplicationFile(ctx context.Context, folder, field string, file io.Reader, filename, contentType string) (string, error) {
	m.UploadCalls = append(m.UploadCalls, uploadCall{Folder: folder, Field: field, Filename: filename, ContentType: contentType})
	if m.UploadApplicationFileFn != nil {
		return m.UploadApplicationFileFn(folder, field, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/applications/" + folder + "/" + field + "_" + filename, nil
}

func (m *mockStorage) DeleteFile(ctx context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}

type publishedEvent struct {
	Queue   string
	Payload any
}

type mockPublisher struct {
	mu     sync.Mutex
	Err    error
	Events []publishedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, queue string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, publishedEvent{Queue: queue, Payload: payload})
	return m.Err
}
