package services

import (
	"errors"
	"sync"
	"time"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrUploadNotFound is returned for unknown or expired upload IDs
	ErrUploadNotFound = errors.New("upload not found")
	// ErrUploadForbidden is returned when an upload belongs to another user
	ErrUploadForbidden = errors.New("upload belongs to another user")
)

// SessionStore keeps raw uploads in memory so a new chart selection can re-run the
// render pass without a new upload. Nothing is written to disk.
type SessionStore struct {
	mu       sync.RWMutex
	uploads  map[uuid.UUID]*models.Upload
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewSessionStore creates a store that expires uploads after ttl and holds at most capacity uploads
func NewSessionStore(ttl time.Duration, capacity int) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if capacity <= 0 {
		capacity = 64
	}
	return &SessionStore{
		uploads:  make(map[uuid.UUID]*models.Upload),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Put stores a new upload and returns it with its generated ID
func (s *SessionStore) Put(owner, filename string, data []byte) *models.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()
	for len(s.uploads) >= s.capacity {
		s.evictOldestLocked()
	}

	upload := &models.Upload{
		ID:         uuid.New(),
		Owner:      owner,
		Filename:   filename,
		Data:       data,
		UploadedAt: s.now(),
	}
	s.uploads[upload.ID] = upload
	return upload
}

// Get returns the upload if it exists, has not expired and belongs to owner
func (s *SessionStore) Get(id uuid.UUID, owner string) (*models.Upload, error) {
	s.mu.RLock()
	upload, ok := s.uploads[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUploadNotFound
	}
	if s.expired(upload) {
		s.mu.Lock()
		delete(s.uploads, id)
		s.mu.Unlock()
		return nil, ErrUploadNotFound
	}
	if upload.Owner != owner {
		return nil, ErrUploadForbidden
	}
	return upload, nil
}

// Delete discards an upload
func (s *SessionStore) Delete(id uuid.UUID, owner string) error {
	if _, err := s.Get(id, owner); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.uploads, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live uploads
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()
	return len(s.uploads)
}

func (s *SessionStore) expired(u *models.Upload) bool {
	return s.now().Sub(u.UploadedAt) >= s.ttl
}

func (s *SessionStore) evictExpiredLocked() {
	for id, u := range s.uploads {
		if s.expired(u) {
			delete(s.uploads, id)
		}
	}
}

func (s *SessionStore) evictOldestLocked() {
	var oldest *models.Upload
	for _, u := range s.uploads {
		if oldest == nil || u.UploadedAt.Before(oldest.UploadedAt) {
			oldest = u
		}
	}
	if oldest != nil {
		delete(s.uploads, oldest.ID)
	}
}
