package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"github.com/sharekit-app/sharekit-backend/pkg/enums"
	"github.com/sharekit-app/sharekit-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE
);`
	items := `
CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  available INTEGER NOT NULL,
  owner_id INTEGER NOT NULL,
  request_id INTEGER
);`
	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  item_id INTEGER NOT NULL,
  booker_id INTEGER NOT NULL,
  status TEXT NOT NULL
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec(bookings).Error)
	return db
}

func newDBUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@%s.test", name, uuid.NewString()),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newDBItem(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Item {
	t.Helper()

	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   true,
		OwnerID:     owner.ID,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func newDBBooking(t *testing.T, db *gorm.DB, item *models.Item, booker *models.User, start, end time.Time, status enums.BookingStatus) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		StartDate: start,
		EndDate:   end,
		ItemID:    item.ID,
		BookerID:  booker.ID,
		Status:    status,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func TestRepositoryListByBooker_states(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := newDBUser(t, db, "state-owner")
	booker := newDBUser(t, db, "state-booker")
	item := newDBItem(t, db, owner, "state drill")

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	past := newDBBooking(t, db, item, booker, now.AddDate(0, 0, -10), now.AddDate(0, 0, -8), enums.BookingStatusApproved)
	current := newDBBooking(t, db, item, booker, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), enums.BookingStatusApproved)
	future := newDBBooking(t, db, item, booker, now.AddDate(0, 0, 5), now.AddDate(0, 0, 7), enums.BookingStatusWaiting)
	rejected := newDBBooking(t, db, item, booker, now.AddDate(0, 0, 9), now.AddDate(0, 0, 11), enums.BookingStatusRejected)

	cases := []struct {
		state enums.BookingState
		want  []int64
	}{
		{enums.BookingStateAll, []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{enums.BookingStateCurrent, []int64{current.ID}},
		{enums.BookingStatePast, []int64{past.ID}},
		{enums.BookingStateFuture, []int64{rejected.ID, future.ID}},
		{enums.BookingStateWaiting, []int64{future.ID}},
		{enums.BookingStateRejected, []int64{rejected.ID}},
	}
	for _, tc := range cases {
		got, err := repo.ListByBooker(ctx, booker.ID, tc.state, now, pagination.Unbounded())
		require.NoError(t, err, "state %s", tc.state)

		ids := make([]int64, 0, len(got))
		for _, b := range got {
			ids = append(ids, b.ID)
		}
		assert.Equal(t, tc.want, ids, "state %s", tc.state)
	}
}

func TestRepositoryListByOwner_joinsItems(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := newDBUser(t, db, "join-owner")
	other := newDBUser(t, db, "join-other")
	booker := newDBUser(t, db, "join-booker")
	mine := newDBItem(t, db, owner, "join mine")
	theirs := newDBItem(t, db, other, "join theirs")

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	wanted := newDBBooking(t, db, mine, booker, now.AddDate(0, 0, 1), now.AddDate(0, 0, 2), enums.BookingStatusWaiting)
	newDBBooking(t, db, theirs, booker, now.AddDate(0, 0, 1), now.AddDate(0, 0, 2), enums.BookingStatusWaiting)

	got, err := repo.ListByOwner(ctx, owner.ID, enums.BookingStateAll, now, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, wanted.ID, got[0].ID)
	assert.Equal(t, mine.ID, got[0].Item.ID)
	assert.Equal(t, booker.Name, got[0].Booker.Name)
}

func TestRepositoryListByBooker_window(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := newDBUser(t, db, "window-owner")
	booker := newDBUser(t, db, "window-booker")
	item := newDBItem(t, db, owner, "window drill")

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 1; i <= 5; i++ {
		b := newDBBooking(t, db, item, booker, now.AddDate(0, 0, i), now.AddDate(0, 0, i+1), enums.BookingStatusWaiting)
		ids = append(ids, b.ID)
	}

	from, size := 2, 2
	got, err := repo.ListByBooker(ctx, booker.ID, enums.BookingStateAll, now, pagination.Of(&from, &size))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// end_date DESC: ids[4], ids[3] on page zero, then the window lands on
	// ids[2], ids[1].
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
}

func TestRepositoryLastAndNextForItem(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := newDBUser(t, db, "edge-owner")
	booker := newDBUser(t, db, "edge-booker")
	item := newDBItem(t, db, owner, "edge drill")
	bare := newDBItem(t, db, owner, "edge bare")

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	newDBBooking(t, db, item, booker, now.AddDate(0, 0, -10), now.AddDate(0, 0, -9), enums.BookingStatusApproved)
	lastWant := newDBBooking(t, db, item, booker, now.AddDate(0, 0, -3), now.AddDate(0, 0, -2), enums.BookingStatusRejected)
	nextWant := newDBBooking(t, db, item, booker, now.AddDate(0, 0, 2), now.AddDate(0, 0, 3), enums.BookingStatusWaiting)
	newDBBooking(t, db, item, booker, now.AddDate(0, 0, 6), now.AddDate(0, 0, 7), enums.BookingStatusApproved)

	last, err := repo.LastForItem(ctx, item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, last)
	// Selection ignores status; the latest-started candidate wins even when
	// rejected.
	assert.Equal(t, lastWant.ID, last.ID)

	next, err := repo.NextForItem(ctx, item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, nextWant.ID, next.ID)

	last, err = repo.LastForItem(ctx, bare.ID, now)
	require.NoError(t, err)
	assert.Nil(t, last)

	next, err = repo.NextForItem(ctx, bare.ID, now)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestRepositoryHasApprovedStarted(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := newDBUser(t, db, "proof-owner")
	booker := newDBUser(t, db, "proof-booker")
	stranger := newDBUser(t, db, "proof-stranger")
	item := newDBItem(t, db, owner, "proof drill")

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	newDBBooking(t, db, item, booker, now.AddDate(0, 0, 2), now.AddDate(0, 0, 3), enums.BookingStatusApproved)

	ok, err := repo.HasApprovedStarted(ctx, booker.ID, item.ID, now)
	require.NoError(t, err)
	assert.False(t, ok, "future approval must not count")

	newDBBooking(t, db, item, booker, now.AddDate(0, 0, -3), now.AddDate(0, 0, -2), enums.BookingStatusApproved)

	ok, err = repo.HasApprovedStarted(ctx, booker.ID, item.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasApprovedStarted(ctx, stranger.ID, item.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)
}
