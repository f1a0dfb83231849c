package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/chatledger/chatledger/internal/domain/ledger"
)

func TestTagRepo_CreateTag_StoresFoldedName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	tag := &ledger.Tag{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "Кофе с собой",
	}

	mock.ExpectExec("INSERT INTO tags").
		WithArgs(tag.ID, tag.UserID, "Кофе с собой", "кофессобой", 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewTagRepo(mock, testLogger())
	if err := repo.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTagRepo_FindSimilarTag_LooksUpByFoldedName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	userID := uuid.New()
	tagID := uuid.New()

	mock.ExpectQuery("SELECT id, user_id, name, usage_count").
		WithArgs(userID, "кофессобой").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "usage_count"}).
			AddRow(tagID, userID, "Кофе с собой", 3))

	repo := NewTagRepo(mock, testLogger())
	tag, err := repo.FindSimilarTag(context.Background(), userID, "кофессобой")
	if err != nil {
		t.Fatalf("FindSimilarTag: %v", err)
	}
	if tag.ID != tagID {
		t.Fatalf("tag ID = %s, want %s", tag.ID, tagID)
	}
	if tag.Name != "Кофе с собой" {
		t.Fatalf("tag name = %q, want %q", tag.Name, "Кофе с собой")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
