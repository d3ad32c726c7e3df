package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
)

func newAdminFixture(t *testing.T) (*AdminService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewAdminService(store, store.repos, zap.NewNop()), store
}

func TestPurgeCasesDeletesChildrenFirst(t *testing.T) {
	svc, store := newAdminFixture(t)
	seeded := seedPendingCase(t, store)
	ctx := context.Background()
	require.NoError(t, store.repos.Comments.Create(ctx, &domain.Comment{
		ID:    "c-1",
		TxnID: seeded.TxnID,
		Body:  "note",
	}))

	result, err := svc.PurgeCases(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Cases)
	assert.Equal(t, int64(1), result.Comments)
	assert.Equal(t, int64(1), result.Processes)

	_, err = store.repos.Cases.GetByTxnID(ctx, seeded.TxnID)
	require.Error(t, err)
}

func TestLoadUsersDefaultsLanguage(t *testing.T) {
	svc, store := newAdminFixture(t)
	ctx := context.Background()

	n, err := svc.LoadUsers(ctx, "admin@example.com", []domain.CoreUser{
		{Email: "alice@example.com", FirstName: "Alice", LastName: "Tan"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := store.repos.Users.Get(ctx, "alice@example.com", "en")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.CreatedBy)

	_, err = svc.LoadUsers(ctx, "admin@example.com", nil)
	require.Error(t, err)
}

func TestLoadAuthMatrixValidatesEntries(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	_, err := svc.LoadAuthMatrix(ctx, "admin@example.com", []domain.AuthMatrixEntry{
		{AssignedGroup: "STE_TE_RESO_TEAM_SG"},
	})
	require.Error(t, err)

	n, err := svc.LoadAuthMatrix(ctx, "admin@example.com", []domain.AuthMatrixEntry{
		{AssignedGroup: "STE_TE_RESO_TEAM_SG", UserEmail: "bob@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := svc.ListAuthMatrix(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin@example.com", entries[0].CreatedBy)
}

func TestLoadLookupDataAppliesDefaults(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	n, err := svc.LoadLookupData(ctx, "admin@example.com", []domain.LookupEntry{
		{Object: "SRV_CAT", Code: "FLT", Description: "Flight Booking"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := svc.ListLookupData(ctx, "", "SRV_CAT", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TE", entries[0].RequestType)
	assert.Equal(t, "en", entries[0].Language)
}

func TestLoadHolidaysReplaceClearsCalendar(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	day := func(y int, m time.Month, d int) repository.Holiday {
		return repository.Holiday{Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
	}

	_, err := svc.LoadHolidays(ctx, []repository.Holiday{day(2025, time.January, 1)}, false)
	require.NoError(t, err)
	_, err = svc.LoadHolidays(ctx, []repository.Holiday{day(2025, time.December, 25)}, true)
	require.NoError(t, err)

	dates, err := svc.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.December, dates[0].Month())
}
