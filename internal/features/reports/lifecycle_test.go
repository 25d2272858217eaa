package reports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/testutil"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

var (
	adminA     = access.Actor{UserID: 100, Role: access.RoleAdmin}
	adminB     = access.Actor{UserID: 101, Role: access.RoleAdmin}
	superAdmin = access.Actor{UserID: 102, Role: access.RoleSuperAdmin}
	reporter   = access.Actor{UserID: 1, Role: access.RoleUser}
)

func newEngine(t *testing.T, sameHandler bool) (*Engine, *Repository) {
	t.Helper()
	db := testutil.NewDB(t, &Report{}, &ReportFile{})
	repo := NewRepository(db)
	return NewEngine(repo, sameHandler), repo
}

func seedReport(t *testing.T, repo *Repository, owner uint) *Report {
	t.Helper()
	r := &Report{
		Title:        "Dugaan pungutan liar di kantor",
		Violation:    "pungli",
		Location:     "Kantor kelurahan",
		IncidentDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Actors:       "Petugas loket",
		Detail:       "Petugas meminta uang tambahan untuk mempercepat pengurusan dokumen.",
		Status:       StatusPending,
		UserID:       &owner,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusRejected, false},
		{StatusProcessing, StatusPending, false},
		{StatusRejected, StatusProcessing, false},
		{StatusCompleted, StatusProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestProcessAssignsAdmin(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	require.NoError(t, engine.Process(ctx, r.ID, adminA))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)
	require.NotNil(t, got.AdminID)
	assert.Equal(t, adminA.UserID, *got.AdminID)
	assert.NotNil(t, got.VerifiedAt)
	assert.Nil(t, got.CompletedAt)
}

func TestRejectAfterProcessIsInvalid(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	require.NoError(t, engine.Process(ctx, r.ID, adminA))
	err := engine.Reject(ctx, r.ID, adminA, "bukti tidak cukup")
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Nil(t, got.RejectionReason)
}

func TestProcessTwiceIsInvalid(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	require.NoError(t, engine.Process(ctx, r.ID, adminA))
	err := engine.Process(ctx, r.ID, adminB)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	got, _ := repo.FindByID(ctx, r.ID)
	assert.Equal(t, adminA.UserID, *got.AdminID)
}

func TestConcurrentTransitionsHaveOneWinner(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admin := access.Actor{UserID: uint(200 + i), Role: access.RoleAdmin}
			if i%2 == 0 {
				errs[i] = engine.Process(ctx, r.ID, admin)
			} else {
				errs[i] = engine.Reject(ctx, r.ID, admin, "duplikat laporan lain")
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	}
	assert.Equal(t, 1, winners)

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusProcessing, StatusRejected}, got.Status)
	if got.Status == StatusRejected {
		assert.NotNil(t, got.RejectionReason)
	} else {
		assert.Nil(t, got.RejectionReason)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	engine, repo := newEngine(t, false)
	r := seedReport(t, repo, 1)

	err := engine.Reject(context.Background(), r.ID, adminA, "   ")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRejectStoresReason(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	require.NoError(t, engine.Reject(ctx, r.ID, adminA, "  bukti tidak cukup "))
	got, _ := repo.FindByID(ctx, r.ID)
	assert.Equal(t, StatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "bukti tidak cukup", *got.RejectionReason)
	assert.Nil(t, got.AdminNotes)

	err := engine.Process(ctx, r.ID, adminA)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestCompleteFromPendingIsInvalid(t *testing.T) {
	engine, repo := newEngine(t, false)
	r := seedReport(t, repo, 1)

	err := engine.Complete(context.Background(), r.ID, adminA, "selesai ditangani", nil)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestCompleteAttachesProof(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)
	require.NoError(t, engine.Process(ctx, r.ID, adminA))

	proof := &ReportFile{FilePath: "handling-proof/x.pdf", OriginalName: "berita-acara.pdf", ContentType: "application/pdf", Size: 10}
	require.NoError(t, engine.Complete(ctx, r.ID, adminA, "Pelaku telah diberi sanksi", proof))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.AdminNotes)
	assert.Equal(t, "Pelaku telah diberi sanksi", *got.AdminNotes)
	assert.NotNil(t, got.CompletedAt)
	require.Len(t, got.Files, 1)
	assert.Equal(t, FileHandlingProof, got.Files[0].FileType)
}

func TestCompleteWithAnyHandler(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	require.NoError(t, engine.Process(ctx, r.ID, adminA))
	require.NoError(t, engine.Complete(ctx, r.ID, adminB, "ditangani admin lain", nil))

	got, _ := repo.FindByID(ctx, r.ID)
	assert.Equal(t, adminB.UserID, *got.AdminID)
}

func TestCompleteSameHandlerPolicy(t *testing.T) {
	engine, repo := newEngine(t, true)
	ctx := context.Background()

	r := seedReport(t, repo, 1)
	require.NoError(t, engine.Process(ctx, r.ID, adminA))

	err := engine.Complete(ctx, r.ID, adminB, "bukan penanggung jawab", nil)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	got, _ := repo.FindByID(ctx, r.ID)
	assert.Equal(t, StatusProcessing, got.Status)

	require.NoError(t, engine.Complete(ctx, r.ID, adminA, "ditangani", nil))

	other := seedReport(t, repo, 1)
	require.NoError(t, engine.Process(ctx, other.ID, adminA))
	require.NoError(t, engine.Complete(ctx, other.ID, superAdmin, "diambil alih", nil))
}

func TestTransitionOfMissingReport(t *testing.T) {
	engine, _ := newEngine(t, false)

	err := engine.Process(context.Background(), 999, adminA)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestNonAdminCannotTransition(t *testing.T) {
	engine, repo := newEngine(t, false)
	ctx := context.Background()
	r := seedReport(t, repo, 1)

	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(engine.Process(ctx, r.ID, reporter)))
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(engine.Process(ctx, r.ID, access.Anonymous("abc"))))

	got, _ := repo.FindByID(ctx, r.ID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestAnonymousReportGetsUniqueCode(t *testing.T) {
	_, repo := newEngine(t, false)
	ctx := context.Background()

	r := &Report{
		Title:        "Laporan anonim tentang penyalahgunaan anggaran",
		Violation:    "korupsi",
		Location:     "Dinas",
		IncidentDate: time.Now(),
		Actors:       "Kepala bagian",
		Detail:       "Anggaran perjalanan dinas dipakai untuk kepentingan pribadi berulang kali.",
		IsAnonymous:  true,
		Status:       StatusPending,
	}
	require.NoError(t, repo.Create(ctx, r))
	require.NotNil(t, r.UniqueCode)
	assert.Len(t, *r.UniqueCode, 16)
	assert.Nil(t, r.UserID)

	got, err := repo.FindByCode(ctx, *r.UniqueCode)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = repo.FindByCode(ctx, "0000000000000000")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestOwnershipIsExclusive(t *testing.T) {
	_, repo := newEngine(t, false)
	code := "abcdef0123456789"
	owner := uint(1)

	both := &Report{Title: "x", Violation: "x", Location: "x", IncidentDate: time.Now(), Actors: "x", Detail: "x", Status: StatusPending, UserID: &owner, UniqueCode: &code}
	assert.Error(t, repo.DB().Create(both).Error)

	neither := &Report{Title: "x", Violation: "x", Location: "x", IncidentDate: time.Now(), Actors: "x", Detail: "x", Status: StatusPending}
	assert.Error(t, repo.DB().Create(neither).Error)
}

func TestNewUniqueCode(t *testing.T) {
	a, err := NewUniqueCode()
	require.NoError(t, err)
	b, err := NewUniqueCode()
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
