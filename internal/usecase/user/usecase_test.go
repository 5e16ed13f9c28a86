package user_test

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domain "passcode-app/internal/domain/user"
	repo "passcode-app/internal/repository/interfaces"
	useruc "passcode-app/internal/usecase/user"
	"passcode-app/pkg/logger"
	"passcode-app/pkg/passcode"
)

// ==== Fake repository ====

type fakeUserRepo struct {
	byUUID    map[uuid.UUID]*domain.User
	nextID    int64
	createErr error
	getErr    error
}

func newFakeRepo() *fakeUserRepo {
	return &fakeUserRepo{byUUID: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	u.ID = r.nextID
	stored := *u
	r.byUUID[u.UUID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) GetByUUID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byUUID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List(context.Context, int, int) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byUUID))
	for _, u := range r.byUUID {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateCode(_ context.Context, u *domain.User) error {
	stored, ok := r.byUUID[u.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Code = u.Code
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byUUID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.byUUID, id)
	return nil
}

func newService(r repo.UserRepository, random io.Reader) useruc.Service {
	return useruc.NewService(r, random, logger.New(io.Discard, "test", "error"))
}

// ==== Tests ====

func TestGenerate_StoresUser(t *testing.T) {
	r := newFakeRepo()
	svc := newService(r, rand.Reader)

	u, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Len(t, u.Code.Bytes(), passcode.Len)

	stored, ok := r.byUUID[u.UUID]
	require.True(t, ok)
	require.True(t, stored.Code.Equal(u.Code))
}

func TestGenerate_RandomFailureStoresNothing(t *testing.T) {
	r := newFakeRepo()
	boom := errors.New("no entropy")
	svc := newService(r, iotest.ErrReader(boom))

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, boom)
	require.Empty(t, r.byUUID)
}

func TestGenerate_RepositoryError(t *testing.T) {
	r := newFakeRepo()
	r.createErr = repo.ErrUUIDExists
	svc := newService(r, rand.Reader)

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, repo.ErrUUIDExists)
}

func TestVerify(t *testing.T) {
	r := newFakeRepo()
	svc := newService(r, rand.Reader)
	ctx := context.Background()

	u, err := svc.Generate(ctx)
	require.NoError(t, err)

	got, err := svc.Verify(ctx, u.UUID, u.Code.String())
	require.NoError(t, err)
	require.Equal(t, u.UUID, got.UUID)

	wrong, err := u.Code.WithDigit(0, '0'+(u.Code.Digit(0)-'0'+1)%10)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, u.UUID, wrong.String())
	require.ErrorIs(t, err, useruc.ErrPasscodeMismatch)

	_, err = svc.Verify(ctx, uuid.New(), u.Code.String())
	require.ErrorIs(t, err, useruc.ErrPasscodeMismatch)
}

func TestVerify_MalformedCandidate(t *testing.T) {
	svc := newService(newFakeRepo(), rand.Reader)

	_, err := svc.Verify(context.Background(), uuid.New(), "1234")
	require.ErrorIs(t, err, useruc.ErrInvalidPasscode)
	require.ErrorIs(t, err, passcode.ErrLengthMismatch)

	_, err = svc.Verify(context.Background(), uuid.New(), "12345678901234567890123a")
	require.ErrorIs(t, err, useruc.ErrInvalidPasscode)
	require.ErrorIs(t, err, passcode.ErrInvalidDigit)
}

func TestVerify_CorruptRecord(t *testing.T) {
	r := newFakeRepo()
	r.getErr = fmt.Errorf("%w: %w", repo.ErrCorruptRecord, passcode.ErrInvalidDigit)
	svc := newService(r, rand.Reader)

	_, err := svc.Verify(context.Background(), uuid.New(), "123456789012345678901234")
	require.ErrorIs(t, err, repo.ErrCorruptRecord)
	require.NotErrorIs(t, err, useruc.ErrPasscodeMismatch)
}

func TestRotate(t *testing.T) {
	r := newFakeRepo()
	svc := newService(r, rand.Reader)
	ctx := context.Background()

	u, err := svc.Generate(ctx)
	require.NoError(t, err)
	old := u.Code

	rotated, err := svc.Rotate(ctx, u.UUID)
	require.NoError(t, err)
	require.False(t, rotated.Code.Equal(old))
	require.True(t, r.byUUID[u.UUID].Code.Equal(rotated.Code))

	_, err = svc.Verify(ctx, u.UUID, old.String())
	require.ErrorIs(t, err, useruc.ErrPasscodeMismatch)

	_, err = svc.Rotate(ctx, uuid.New())
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDeleteAndGet(t *testing.T) {
	r := newFakeRepo()
	svc := newService(r, rand.Reader)
	ctx := context.Background()

	u, err := svc.Generate(ctx)
	require.NoError(t, err)

	got, err := svc.Get(ctx, u.UUID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, u.UUID))
	_, err = svc.Get(ctx, u.UUID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, u.UUID), repo.ErrNotFound)
}

func TestList_RejectsNegative(t *testing.T) {
	svc := newService(newFakeRepo(), rand.Reader)

	_, err := svc.List(context.Background(), -1, 0)
	require.Error(t, err)

	users, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Empty(t, users)
}
