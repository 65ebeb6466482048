//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"lab-booking/internal/domain/reservation"
	"lab-booking/internal/domain/window"
	"lab-booking/internal/infra"
	"lab-booking/internal/infra/purge"
	"lab-booking/internal/infra/repository"
	"lab-booking/internal/infra/repository/converter"
	repositorymock "lab-booking/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// =============================================================================
// Helpers
// =============================================================================

// mockDBTX is never reached; every query goes through the mocked Queries.
type mockDBTX struct{}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("mockDBTX.Exec was called unexpectedly. Use the queries mock instead.")
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("mockDBTX.Query was called unexpectedly. Use the queries mock instead.")
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("mockDBTX.QueryRow was called unexpectedly. Use the queries mock instead.")
}

func taipeiWeek(t *testing.T) (*window.CalendarWeek, time.Time) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)
	return window.NewCalendarWeek(loc), time.Date(2024, 6, 5, 10, 0, 0, 0, loc)
}

// =============================================================================
// Book Tests
// =============================================================================

func TestPostgresStore_Book(t *testing.T) {
	ctx := context.Background()
	policy, now := taipeiWeek(t)
	occupant := converter.ReservationRow{ID: uuid.New(), DayKey: "2024-06-05", Slot: "08~12", Name: "Alice", CreatedAt: now.UTC()}

	testCases := []struct {
		name       string
		setupMock  func(*repositorymock.MockReservationQueries, *mockDBTX)
		wantErrIs  error
		expectKind infra.RepositoryErrorKind
	}{
		{
			name: "success: reservation inserted",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "08~12").Return([]converter.ReservationRow{}, nil)
				mock.EXPECT().InsertReservation(ctx, db, gomock.Any()).DoAndReturn(
					func(_ context.Context, _ repository.DBTX, row converter.ReservationRow) error {
						assert.Equal(t, "2024-06-05", row.DayKey)
						assert.Equal(t, "08~12", row.Slot)
						assert.Equal(t, "王小明", row.Name)
						assert.Equal(t, time.UTC, row.CreatedAt.Location())
						return nil
					})
			},
		},
		{
			name: "error: live occupant is SlotTaken without an insert",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "08~12").Return([]converter.ReservationRow{occupant}, nil)
			},
			wantErrIs:  reservation.ErrSlotTaken,
			expectKind: infra.KindDuplicateKey,
		},
		{
			name: "error: unique violation on a lost race becomes SlotTaken",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "08~12").Return([]converter.ReservationRow{}, nil)
				dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
				mock.EXPECT().InsertReservation(ctx, db, gomock.Any()).Return(dup)
			},
			wantErrIs:  reservation.ErrSlotTaken,
			expectKind: infra.KindDuplicateKey,
		},
		{
			name: "error: database error occurs",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "08~12").Return([]converter.ReservationRow{}, nil)
				mock.EXPECT().InsertReservation(ctx, db, gomock.Any()).Return(errors.New("database connection error"))
			},
			expectKind: infra.KindDBFailure,
		},
		{
			name: "error: occupant lookup fails",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "08~12").Return(nil, errors.New("database connection error"))
			},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationQueries(ctrl)
			mockDB := &mockDBTX{}
			store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)
			tc.setupMock(mockQueries, mockDB)

			res, err := store.Book(ctx, "2024-06-05", "08~12", " 王小明 ", now)

			if tc.wantErrIs == nil && tc.expectKind == "" {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, res.ID())
				return
			}
			require.Error(t, err)
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			}
			if tc.expectKind != "" {
				assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got [%T] (%v)", tc.expectKind, err, err)
			}
		})
	}
}

func TestPostgresStore_Book_RollingReplacesExpiredOccupant(t *testing.T) {
	ctx := context.Background()
	policy := window.NewRolling(168 * time.Hour)
	t0 := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	at := t0.Add(168*time.Hour + 10*time.Minute)
	expired := converter.ReservationRow{ID: uuid.New(), DayKey: "Wednesday", Slot: "08~12", Name: "Alice", CreatedAt: t0}

	t.Run("expired occupant is deleted before the insert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := repositorymock.NewMockReservationQueries(ctrl)
		mockDB := &mockDBTX{}
		gomock.InOrder(
			mockQueries.EXPECT().ListReservationsAt(ctx, mockDB, "Wednesday", "08~12").Return([]converter.ReservationRow{expired}, nil),
			mockQueries.EXPECT().DeleteReservation(ctx, mockDB, expired.ID).Return(int64(1), nil),
			mockQueries.EXPECT().InsertReservation(ctx, mockDB, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ repository.DBTX, row converter.ReservationRow) error {
					assert.Equal(t, "Bob", row.Name)
					return nil
				}),
		)

		store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)
		res, err := store.Book(ctx, "Wednesday", "08~12", "Bob", at)
		require.NoError(t, err)
		assert.Equal(t, "Bob", res.OccupantName())
	})

	t.Run("occupant at the cutoff still blocks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := repositorymock.NewMockReservationQueries(ctrl)
		mockDB := &mockDBTX{}
		mockQueries.EXPECT().ListReservationsAt(ctx, mockDB, "Wednesday", "08~12").Return([]converter.ReservationRow{expired}, nil)

		store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)
		_, err := store.Book(ctx, "Wednesday", "08~12", "Bob", t0.Add(168*time.Hour))
		assert.ErrorIs(t, err, reservation.ErrSlotTaken)
	})

	t.Run("error: deleting the expired occupant fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := repositorymock.NewMockReservationQueries(ctrl)
		mockDB := &mockDBTX{}
		mockQueries.EXPECT().ListReservationsAt(ctx, mockDB, "Wednesday", "08~12").Return([]converter.ReservationRow{expired}, nil)
		mockQueries.EXPECT().DeleteReservation(ctx, mockDB, expired.ID).Return(int64(0), errors.New("database connection error"))

		store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)
		_, err := store.Book(ctx, "Wednesday", "08~12", "Bob", at)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

// =============================================================================
// Read Tests
// =============================================================================

func TestPostgresStore_ReadsHideExpiredRows(t *testing.T) {
	ctx := context.Background()
	policy := window.NewRolling(168 * time.Hour)
	t0 := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	at := t0.Add(168*time.Hour + 10*time.Minute)
	expired := converter.ReservationRow{ID: uuid.New(), DayKey: "Wednesday", Slot: "08~12", Name: "Alice", CreatedAt: t0}
	live := converter.ReservationRow{ID: uuid.New(), DayKey: "Wednesday", Slot: "13~17", Name: "Carol", CreatedAt: at.Add(-time.Hour)}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueries := repositorymock.NewMockReservationQueries(ctrl)
	mockDB := &mockDBTX{}
	mockQueries.EXPECT().ListReservationsByDay(ctx, mockDB, "Wednesday").Return([]converter.ReservationRow{expired, live}, nil)
	mockQueries.EXPECT().ListReservationsAt(ctx, mockDB, "Wednesday", "08~12").Return([]converter.ReservationRow{expired}, nil)
	mockQueries.EXPECT().ListReservationsAt(ctx, mockDB, "Wednesday", "13~17").Return([]converter.ReservationRow{live}, nil)

	store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)

	list, err := store.ListByDay(ctx, "Wednesday", at)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID())

	exists, err := store.Exists(ctx, "Wednesday", "08~12", at)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.Exists(ctx, "Wednesday", "13~17", at)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgresStore_Book_ValidationSkipsDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	policy, now := taipeiWeek(t)
	store := repository.NewPostgresStore(repositorymock.NewMockReservationQueries(ctrl), &mockDBTX{}, policy, purge.NewIntervalGate(time.Hour), nil)

	_, err := store.Book(context.Background(), "2024-06-05", "12~13", "Alice", now)
	assert.ErrorIs(t, err, reservation.ErrInvalidSlot)

	_, err = store.Book(context.Background(), "2024-06-12", "08~12", "Alice", now)
	assert.ErrorIs(t, err, reservation.ErrDayNotVisible)
}

// =============================================================================
// Cancel Tests
// =============================================================================

func TestPostgresStore_Cancel(t *testing.T) {
	ctx := context.Background()
	policy, now := taipeiWeek(t)
	existing := converter.ReservationRow{ID: uuid.New(), DayKey: "2024-06-05", Slot: "13~17", Name: "Alice Chen", CreatedAt: now.UTC()}

	testCases := []struct {
		name       string
		caller     string
		setupMock  func(*repositorymock.MockReservationQueries, *mockDBTX)
		want       bool
		expectKind infra.RepositoryErrorKind
	}{
		{
			name:   "success: matching name deletes by id",
			caller: "alice chen ",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "13~17").Return([]converter.ReservationRow{existing}, nil)
				mock.EXPECT().DeleteReservation(ctx, db, existing.ID).Return(int64(1), nil)
			},
			want: true,
		},
		{
			name:   "no match: name differs",
			caller: "Bob",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "13~17").Return([]converter.ReservationRow{existing}, nil)
			},
			want: false,
		},
		{
			name:   "no match: concurrent cancel already removed the row",
			caller: "Alice Chen",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "13~17").Return([]converter.ReservationRow{existing}, nil)
				mock.EXPECT().DeleteReservation(ctx, db, existing.ID).Return(int64(0), nil)
			},
			want: false,
		},
		{
			name:   "error: database error occurs",
			caller: "Alice Chen",
			setupMock: func(mock *repositorymock.MockReservationQueries, db *mockDBTX) {
				mock.EXPECT().ListReservationsAt(ctx, db, "2024-06-05", "13~17").Return(nil, errors.New("database connection error"))
			},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationQueries(ctrl)
			mockDB := &mockDBTX{}
			store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)
			tc.setupMock(mockQueries, mockDB)

			got, err := store.Cancel(ctx, "2024-06-05", "13~17", tc.caller)
			if tc.expectKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// =============================================================================
// Purge Tests
// =============================================================================

func TestPostgresStore_Purge(t *testing.T) {
	ctx := context.Background()

	t.Run("calendar policy deletes outside the visible week", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		policy, now := taipeiWeek(t)
		mockQueries := repositorymock.NewMockReservationQueries(ctrl)
		mockDB := &mockDBTX{}
		mockQueries.EXPECT().DeleteReservationsOutsideDays(ctx, mockDB, "2024-06-03", "2024-06-10").Return(int64(3), nil)

		store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewIntervalGate(time.Hour), nil)
		n, err := store.Purge(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("rolling policy deletes by creation time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		now := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
		mockQueries := repositorymock.NewMockReservationQueries(ctrl)
		mockDB := &mockDBTX{}
		mockQueries.EXPECT().DeleteReservationsCreatedBefore(ctx, mockDB, now.Add(-7*24*time.Hour)).Return(int64(0), nil)

		store := repository.NewPostgresStore(mockQueries, mockDB, window.NewRolling(7*24*time.Hour), purge.NewIntervalGate(time.Hour), nil)
		n, err := store.Purge(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("failed sweep re-arms the gate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		policy, now := taipeiWeek(t)
		mockQueries := repositorymock.NewMockReservationQueries(ctrl)
		mockDB := &mockDBTX{}
		gomock.InOrder(
			mockQueries.EXPECT().DeleteReservationsOutsideDays(ctx, mockDB, gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database connection error")),
			mockQueries.EXPECT().DeleteReservationsOutsideDays(ctx, mockDB, gomock.Any(), gomock.Any()).Return(int64(1), nil),
		)

		store := repository.NewPostgresStore(mockQueries, mockDB, policy, purge.NewAnchorGate(policy.Anchor), nil)
		require.Error(t, store.MaybePurge(ctx, now))
		require.NoError(t, store.MaybePurge(ctx, now.Add(time.Minute)))
		// Same week, gate already consumed.
		require.NoError(t, store.MaybePurge(ctx, now.Add(2*time.Minute)))
	})
}
