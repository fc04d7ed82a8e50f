package verification

import (
	"context"
	"errors"
	"testing"

	"agribridge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	users map[string]*models.User

	documentsSet bool
	approved     bool
	deleted      bool
	failDelete   bool
}

func newFakeProfiles(ids ...string) *fakeProfiles {
	users := make(map[string]*models.User)
	for _, id := range ids {
		users[id] = &models.User{
			UserID:       id,
			Role:         []string{"farmer"},
			Verification: models.VerificationPending,
		}
	}
	return &fakeProfiles{users: users}
}

func (f *fakeProfiles) Find(_ context.Context, farmerID string) (*models.User, error) {
	u, ok := f.users[farmerID]
	if !ok {
		return nil, ErrFarmerNotFound
	}
	return u, nil
}

func (f *fakeProfiles) SetDocuments(_ context.Context, farmerID, frontURL, backURL, nationalID string) error {
	u := f.users[farmerID]
	u.IDCardFront = frontURL
	u.IDCardBack = backURL
	u.NationalID = nationalID
	u.Verification = models.VerificationUnderReview
	f.documentsSet = true
	return nil
}

func (f *fakeProfiles) Approve(_ context.Context, farmerID string) error {
	u := f.users[farmerID]
	u.IsVerified = true
	u.Verification = models.VerificationVerified
	f.approved = true
	return nil
}

func (f *fakeProfiles) DeleteAccount(_ context.Context, farmerID string) error {
	if f.failDelete {
		return errors.New("delete failed")
	}
	delete(f.users, farmerID)
	f.deleted = true
	return nil
}

type fakeDocs struct {
	removed    bool
	failRemove bool
}

func (f *fakeDocs) RemoveAll(string) error {
	if f.failRemove {
		return errors.New("disk unavailable")
	}
	f.removed = true
	return nil
}

func TestSubmitMissingFront(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	svc := NewService(profiles, &fakeDocs{})

	err := svc.Submit(context.Background(), "ufarmer01", "", "/static/back.jpg", "GHA-123")

	var me *MissingDocumentError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "front", me.Side)

	// nothing was written; the farmer stays pending
	assert.False(t, profiles.documentsSet)
	assert.Equal(t, models.VerificationPending, profiles.users["ufarmer01"].Verification)
}

func TestSubmitMissingBack(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	svc := NewService(profiles, &fakeDocs{})

	err := svc.Submit(context.Background(), "ufarmer01", "/static/front.jpg", "", "GHA-123")

	var me *MissingDocumentError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "back", me.Side)
	assert.False(t, profiles.documentsSet)
}

func TestSubmitMovesToUnderReview(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	svc := NewService(profiles, &fakeDocs{})

	err := svc.Submit(context.Background(), "ufarmer01", "/static/front.jpg", "/static/back.jpg", "GHA-123")
	require.NoError(t, err)

	u := profiles.users["ufarmer01"]
	assert.Equal(t, models.VerificationUnderReview, u.Verification)
	assert.Equal(t, "/static/front.jpg", u.IDCardFront)
	assert.Equal(t, "/static/back.jpg", u.IDCardBack)
	assert.Equal(t, "GHA-123", u.NationalID)
	assert.False(t, u.IsVerified)
}

func TestSubmitUnknownFarmer(t *testing.T) {
	svc := NewService(newFakeProfiles(), &fakeDocs{})
	err := svc.Submit(context.Background(), "unobody", "/f.jpg", "/b.jpg", "")
	assert.ErrorIs(t, err, ErrFarmerNotFound)
}

func TestApprove(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	svc := NewService(profiles, &fakeDocs{})

	require.NoError(t, svc.Approve(context.Background(), "ufarmer01"))
	assert.True(t, profiles.users["ufarmer01"].IsVerified)
	assert.Equal(t, models.VerificationVerified, profiles.users["ufarmer01"].Verification)

	assert.ErrorIs(t, svc.Approve(context.Background(), "unobody"), ErrFarmerNotFound)
}

func TestDeclinePurgesAccount(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	docs := &fakeDocs{}
	svc := NewService(profiles, docs)

	require.NoError(t, svc.Decline(context.Background(), "ufarmer01"))
	assert.True(t, docs.removed)
	assert.True(t, profiles.deleted)
	assert.NotContains(t, profiles.users, "ufarmer01")
}

func TestDeclineSurvivesDocumentCleanupFailure(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	docs := &fakeDocs{failRemove: true}
	svc := NewService(profiles, docs)

	// a disk cleanup failure is logged, not fatal; the account still goes
	require.NoError(t, svc.Decline(context.Background(), "ufarmer01"))
	assert.True(t, profiles.deleted)
}

func TestDeclineAccountDeleteFailureAborts(t *testing.T) {
	profiles := newFakeProfiles("ufarmer01")
	profiles.failDelete = true
	svc := NewService(profiles, &fakeDocs{})

	err := svc.Decline(context.Background(), "ufarmer01")
	require.Error(t, err)
	assert.Contains(t, profiles.users, "ufarmer01")
}

func TestDeclineUnknownFarmer(t *testing.T) {
	docs := &fakeDocs{}
	svc := NewService(newFakeProfiles(), docs)

	assert.ErrorIs(t, svc.Decline(context.Background(), "unobody"), ErrFarmerNotFound)
	assert.False(t, docs.removed, "no cleanup may run for an unknown farmer")
}
