package services

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
)

func TestTeaserDescription(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{
			"long description truncates to five words",
			"the old harbor before the storm of nineteen sixty",
			"the old harbor before the …",
		},
		{
			"short description kept whole",
			"summer 1999",
			"summer 1999 …",
		},
		{
			"empty description",
			"",
			" …",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := teaserDescription(tt.full); got != tt.want {
				t.Errorf("teaserDescription(%q) = %q, want %q", tt.full, got, tt.want)
			}
		})
	}
}

func TestTeaserPostViewMasksContent(t *testing.T) {
	m := &models.Memory{
		ID:          7,
		Title:       "Grandma's bakery",
		Description: "the smell of fresh bread every sunday morning in 1987",
		ImageURL:    "https://cdn.example/img/7.jpg",
	}

	view := teaserPostView(m)

	if !view.Blurred {
		t.Error("teaser must be blurred")
	}
	if view.Title != lockedCaption {
		t.Errorf("teaser title = %q, want %q", view.Title, lockedCaption)
	}
	if strings.Contains(view.Description, "1987") {
		t.Errorf("teaser leaked description tail: %q", view.Description)
	}
	if view.Description == m.Description {
		t.Error("teaser returned the full description")
	}
	if view.ImageURL != m.ImageURL {
		t.Error("teaser must retain the image url")
	}
}

func TestFullPostViewKeepsContent(t *testing.T) {
	m := &models.Memory{
		ID:          7,
		Title:       "Grandma's bakery",
		Description: "the smell of fresh bread",
		ImageURL:    "https://cdn.example/img/7.jpg",
	}

	view := fullPostView(m)

	if view.Blurred {
		t.Error("full view must not be blurred")
	}
	if view.Title != m.Title || view.Description != m.Description {
		t.Error("full view must keep the original text")
	}
}

func TestAdjustPostCountClampsUnderflow(t *testing.T) {
	db, mock := newMockGorm(t)

	// The guarded decrement misses because the stored count has drifted
	// below the delta; the region exists, so the count clamps to zero.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "regions" SET "post_count"=post_count + $1 WHERE id = $2 AND post_count + $3 >= 0`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "regions" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "regions" SET "post_count"=$1 WHERE id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := adjustPostCountTx(db, 3, -1); err != nil {
		t.Fatalf("adjustPostCountTx = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}

func TestAdjustPostCountMissingRegion(t *testing.T) {
	db, mock := newMockGorm(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "regions" SET "post_count"=post_count + $1 WHERE id = $2 AND post_count + $3 >= 0`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "regions" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	if err := adjustPostCountTx(db, 9, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("adjustPostCountTx = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}
