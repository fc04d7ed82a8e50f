package verification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"agribridge/models"
)

var ErrFarmerNotFound = errors.New("farmer not found")

// MissingDocumentError blocks submission when either ID card side is absent.
type MissingDocumentError struct {
	Side string // "front" or "back"
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("missing %s ID card document", e.Side)
}

// ProfileStore is the slice of user persistence the workflow needs.
type ProfileStore interface {
	Find(ctx context.Context, farmerID string) (*models.User, error)
	SetDocuments(ctx context.Context, farmerID, frontURL, backURL, nationalID string) error
	Approve(ctx context.Context, farmerID string) error
	DeleteAccount(ctx context.Context, farmerID string) error
}

// DocStore holds the uploaded identity documents.
type DocStore interface {
	RemoveAll(farmerID string) error
}

type Service struct {
	profiles ProfileStore
	docs     DocStore
}

func NewService(profiles ProfileStore, docs DocStore) *Service {
	return &Service{profiles: profiles, docs: docs}
}

// Submit records both uploaded document URLs and moves the farmer to
// under_review. Both sides are required; a missing side fails before any
// profile write so the status stays untouched.
func (s *Service) Submit(ctx context.Context, farmerID, frontURL, backURL, nationalID string) error {
	if frontURL == "" {
		return &MissingDocumentError{Side: "front"}
	}
	if backURL == "" {
		return &MissingDocumentError{Side: "back"}
	}

	if _, err := s.profiles.Find(ctx, farmerID); err != nil {
		return ErrFarmerNotFound
	}

	return s.profiles.SetDocuments(ctx, farmerID, frontURL, backURL, nationalID)
}

// Approve marks the farmer verified, unlocking product listing.
func (s *Service) Approve(ctx context.Context, farmerID string) error {
	if _, err := s.profiles.Find(ctx, farmerID); err != nil {
		return ErrFarmerNotFound
	}
	return s.profiles.Approve(ctx, farmerID)
}

// Decline purges the applicant: stored documents best-effort (a cleanup
// failure is logged and the decline continues), then the account itself
// (a failure here aborts - the account is never half-removed silently).
func (s *Service) Decline(ctx context.Context, farmerID string) error {
	if _, err := s.profiles.Find(ctx, farmerID); err != nil {
		return ErrFarmerNotFound
	}

	if err := s.docs.RemoveAll(farmerID); err != nil {
		log.Printf("document cleanup for farmer %s failed (non-blocking): %v", farmerID, err)
	}

	return s.profiles.DeleteAccount(ctx, farmerID)
}
