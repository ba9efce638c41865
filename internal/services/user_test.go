package services

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDebitInsufficientCoins(t *testing.T) {
	db, mock := newMockGorm(t)

	// The conditional UPDATE misses because the balance guard fails; the
	// user row exists, so the outcome is ErrInsufficientCoins and nothing
	// else is written.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "coins"=coins - $1 WHERE id = $2 AND coins >= $3`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := debitTx(db, 1, 2)
	if !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("debitTx = %v, want ErrInsufficientCoins", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}

func TestDebitMissingUser(t *testing.T) {
	db, mock := newMockGorm(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "coins"=coins - $1 WHERE id = $2 AND coins >= $3`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := debitTx(db, 42, 2)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("debitTx = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}

func TestDebitSpendsInOneStatement(t *testing.T) {
	db, mock := newMockGorm(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "coins"=coins - $1 WHERE id = $2 AND coins >= $3`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := debitTx(db, 1, 2); err != nil {
		t.Fatalf("debitTx = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}

func TestDebitRejectsNonPositiveAmount(t *testing.T) {
	db, mock := newMockGorm(t)

	for _, amount := range []int{0, -1} {
		if err := debitTx(db, 1, amount); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("debitTx(amount=%d) = %v, want ErrInvalidInput", amount, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("invalid amounts must not touch the database: %v", err)
	}
}

func TestCreditAddsCoins(t *testing.T) {
	db, mock := newMockGorm(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "coins"=coins + $1 WHERE id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := creditTx(db, 1, 50); err != nil {
		t.Fatalf("creditTx = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}
