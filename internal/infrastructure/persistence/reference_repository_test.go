package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormJournalRepository_FindByOriginalID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the matching journal", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormJournalRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "journals" WHERE original_id = \$1 ORDER BY id ASC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "original_id"}).
				AddRow(3, "Customer Invoices", "INV", 77))

		journal, err := repo.FindByOriginalID(ctx, 77)

		require.NoError(t, err)
		assert.Equal(t, int64(3), journal.ID)
		assert.Equal(t, "INV", journal.Code)
		assert.Equal(t, int64(77), journal.OriginalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not found when no row matches", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormJournalRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "journals" WHERE original_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "original_id"}))

		_, err := repo.FindByOriginalID(ctx, 999)

		assert.ErrorIs(t, err, accounting.ErrNotFound)
	})

	t.Run("reports ambiguity when two rows match", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormJournalRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "journals" WHERE original_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "original_id"}).
				AddRow(3, "Sales", "INV", 77).
				AddRow(4, "Sales (copy)", "INV2", 77))

		_, err := repo.FindByOriginalID(ctx, 77)

		assert.ErrorIs(t, err, accounting.ErrAmbiguousOriginalID)
	})

	t.Run("passes database errors through", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormJournalRepository(db)

		dbErr := errors.New("connection reset")
		mock.ExpectQuery(`SELECT \* FROM "journals"`).WillReturnError(dbErr)

		_, err := repo.FindByOriginalID(ctx, 77)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestReferenceRepositories_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupTargetTestDB(t)

	journals := NewGormJournalRepository(db)
	partners := NewGormPartnerRepository(db)
	products := NewGormProductRepository(db)

	journal := &accounting.Journal{Name: "Customer Invoices", Code: "INV", OriginalID: 77}
	require.NoError(t, journals.Create(ctx, journal))
	assert.NotZero(t, journal.ID)

	partner := &accounting.Partner{Name: "Acme", OriginalID: 12}
	require.NoError(t, partners.Create(ctx, partner))

	product := &accounting.Product{Name: "Widget", UomID: 1, TaxIDs: []int64{5, 2}, OriginalID: 9}
	require.NoError(t, products.Create(ctx, product))

	foundJournal, err := journals.FindByOriginalID(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, journal.ID, foundJournal.ID)

	foundPartner, err := partners.FindByOriginalID(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "Acme", foundPartner.Name)

	foundProduct, err := products.FindByOriginalID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 2}, foundProduct.TaxIDs)
	assert.Equal(t, int64(1), foundProduct.UomID)

	_, err = products.FindByOriginalID(ctx, 10)
	assert.ErrorIs(t, err, accounting.ErrNotFound)
}

func TestReferenceRepositories_DuplicateOriginalID(t *testing.T) {
	ctx := context.Background()
	db := setupTargetTestDB(t)
	partners := NewGormPartnerRepository(db)

	require.NoError(t, partners.Create(ctx, &accounting.Partner{Name: "Acme", OriginalID: 12}))

	err := partners.Create(ctx, &accounting.Partner{Name: "Acme again", OriginalID: 12})

	assert.ErrorIs(t, err, accounting.ErrDuplicateOriginalID)
}

func TestReferenceRepositories_RecordsWithoutOriginalID(t *testing.T) {
	ctx := context.Background()
	db := setupTargetTestDB(t)
	journals := NewGormJournalRepository(db)

	require.NoError(t, journals.Create(ctx, &accounting.Journal{Name: "Misc", Code: "MISC"}))
	require.NoError(t, journals.Create(ctx, &accounting.Journal{Name: "Bank", Code: "BNK"}))

	_, err := journals.FindByOriginalID(ctx, 0)
	assert.ErrorIs(t, err, accounting.ErrNotFound)
}
