package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventmate/internal/storage"
)

const rosterURLExpiry = 15 * time.Minute

// RosterExport describes an uploaded participant list.
type RosterExport struct {
	Key string
	URL string
}

// RosterService exports event participant lists to object storage.
type RosterService interface {
	Export(ctx context.Context, eventID int64) (*RosterExport, error)
	ListExports(ctx context.Context, eventID int64) ([]storage.ObjectInfo, error)
	PurgeEvent(ctx context.Context, eventID int64) error
}

type rosterService struct {
	registrations RegistrationService
	store         storage.Service
	bucket        string
	keyPrefix     string
	now           func() time.Time
}

// NewRosterService returns a RosterService. A nil store or empty bucket
// makes every operation fail with ErrStorageDisabled.
func NewRosterService(registrations RegistrationService, store storage.Service, bucket, keyPrefix string) RosterService {
	return &rosterService{
		registrations: registrations,
		store:         store,
		bucket:        strings.TrimSpace(bucket),
		keyPrefix:     strings.Trim(keyPrefix, "/"),
		now:           time.Now,
	}
}

func (s *rosterService) enabled() bool {
	return s.store != nil && s.bucket != ""
}

func (s *rosterService) eventPrefix(eventID int64) string {
	return path.Join(s.keyPrefix, fmt.Sprintf("event-%d", eventID)) + "/"
}

func (s *rosterService) Export(ctx context.Context, eventID int64) (*RosterExport, error) {
	if !s.enabled() {
		return nil, ErrStorageDisabled
	}

	participants, err := s.registrations.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"user_id", "name", "username", "email", "registered_at"}); err != nil {
		return nil, fmt.Errorf("write roster header: %w", err)
	}
	for _, p := range participants {
		record := []string{
			strconv.FormatInt(p.UserID, 10),
			p.Name,
			p.Username,
			p.Email,
			p.RegisteredAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write roster row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush roster: %w", err)
	}

	key := s.eventPrefix(eventID) + fmt.Sprintf("roster-%s-%s.csv", s.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	if err := s.store.PutObject(ctx, s.bucket, key, "text/csv", &buf); err != nil {
		return nil, err
	}

	url, err := s.store.GetObjectURL(ctx, s.bucket, key, rosterURLExpiry)
	if err != nil {
		return nil, err
	}
	return &RosterExport{Key: key, URL: url}, nil
}

func (s *rosterService) ListExports(ctx context.Context, eventID int64) ([]storage.ObjectInfo, error) {
	if !s.enabled() {
		return nil, ErrStorageDisabled
	}
	return s.store.ListObjects(ctx, s.bucket, s.eventPrefix(eventID))
}

func (s *rosterService) PurgeEvent(ctx context.Context, eventID int64) error {
	if !s.enabled() {
		return nil
	}
	return s.store.DeletePrefix(ctx, s.bucket, s.eventPrefix(eventID))
}
