package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"link-redirector/pkg/logging"
	"link-redirector/pkg/storage"
)

// ErrLinkNotFound is returned by Resolve for an unknown short code.
var ErrLinkNotFound = errors.New("link not found")

// ValidationError reports a create request that is missing required data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a failure of the link store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type LinkService struct {
	storage storage.LinkStore
	logger  *logging.Logger
}

func NewLinkService(storage storage.LinkStore, logger *logging.Logger) *LinkService {
	return &LinkService{
		storage: storage,
		logger:  logger,
	}
}

type CreateLinkRequest struct {
	LinkDrive    string `json:"linkDrive"`
	HashOriginal string `json:"hashOriginal"`
}

type CreateLinkResult struct {
	ShortCode          string
	OriginalIdentifier string
}

// CreateLink derives the short code for req.HashOriginal and stores the
// mapping to req.LinkDrive, replacing any record already holding that code.
func (s *LinkService) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResult, error) {
	if strings.TrimSpace(req.LinkDrive) == "" || strings.TrimSpace(req.HashOriginal) == "" {
		return nil, &ValidationError{Message: "missing data: linkDrive or hashOriginal"}
	}

	hexID := NormalizeIdentifier(req.HashOriginal)
	s.logger.LogIdentifierNormalization(ctx, req.HashOriginal, hexID != req.HashOriginal)

	code, fallback := DeriveShortCode(hexID)
	if fallback {
		s.logger.Warn(ctx, "base62 conversion failed, using hex prefix", "code", code)
	}

	if err := s.storage.Upsert(ctx, code, hexID, req.LinkDrive); err != nil {
		s.logger.LogLinkOperation(ctx, "create", code, false)
		s.logger.Error(ctx, "upsert link", "code", code, "error", err)
		return nil, &StorageError{Op: "upsert link", Err: err}
	}

	s.logger.LogLinkOperation(ctx, "create", code, true)
	return &CreateLinkResult{ShortCode: code, OriginalIdentifier: hexID}, nil
}

// Resolve returns the target URL stored for code.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	link, err := s.storage.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug(ctx, "link not found", "code", code)
			return "", ErrLinkNotFound
		}
		s.logger.Error(ctx, "lookup link", "code", code, "error", err)
		return "", &StorageError{Op: "lookup link", Err: err}
	}

	s.logger.LogLinkOperation(ctx, "resolve", code, true)
	return link.TargetURL, nil
}
