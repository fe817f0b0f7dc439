package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/eventmate/eventmate-go/internal/model"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *UserRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		db.Close()
	})
	return mock, func() *UserRepository { return NewUserRepository(db) }
}

func TestUserCreate(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, username, password, role)")).
		WithArgs("Alice", "alice", "$2a$10$hash", "user").
		WillReturnResult(sqlmock.NewResult(7, 1))

	user := &model.User{Name: "Alice", Username: "alice", PasswordHash: "$2a$10$hash", Role: model.RoleUser}
	if err := repo().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user.ID = %d, want 7", user.ID)
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'uq_users_username'"})

	err := repo().Create(context.Background(), &model.User{Username: "alice", Role: model.RoleUser})
	if err != ErrDuplicateUsername {
		t.Fatalf("Create() error = %v, want ErrDuplicateUsername", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	mock, repo := newMock(t)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password", "role", "created_at"}).
			AddRow(2, "Bob", "bob", "$2a$10$hash", "admin", created))

	user, err := repo().GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetByUsername() unexpected error: %v", err)
	}
	if user.ID != 2 || user.Role != model.RoleAdmin || !user.CreatedAt.Equal(created) {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password", "role", "created_at"}))

	if _, err := repo().GetByUsername(context.Background(), "nobody"); err != ErrUserNotFound {
		t.Fatalf("GetByUsername() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserGetByUsernameRejectsUnknownRole(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("eve").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password", "role", "created_at"}).
			AddRow(3, "Eve", "eve", "$2a$10$hash", "root", time.Now()))

	if _, err := repo().GetByUsername(context.Background(), "eve"); !errors.Is(err, model.ErrInvalidRole) {
		t.Fatalf("GetByUsername() error = %v, want ErrInvalidRole", err)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	if isDuplicateEntryError(nil) {
		t.Fatal("nil error should not be a duplicate entry error")
	}
	if isDuplicateEntryError(ErrUserNotFound) {
		t.Fatal("ErrUserNotFound should not be a duplicate entry error")
	}
	if isDuplicateEntryError(errors.New("Duplicate entry 'x'")) {
		t.Fatal("only typed MySQL errors should count")
	}
	if !isDuplicateEntryError(&mysql.MySQLError{Number: 1062}) {
		t.Fatal("MySQL error 1062 should be a duplicate entry error")
	}
}

func TestIsForeignKeyError(t *testing.T) {
	eventFK := &mysql.MySQLError{Number: 1452, Message: fkMessage(fkRegistrationsEvent, "event_id", "events")}
	userFK := &mysql.MySQLError{Number: 1452, Message: fkMessage(fkRegistrationsUser, "user_id", "users")}

	if !isForeignKeyError(eventFK, fkRegistrationsEvent) {
		t.Error("event constraint failure should match fk_registrations_event")
	}
	if isForeignKeyError(userFK, fkRegistrationsEvent) {
		t.Error("user constraint failure should not match fk_registrations_event")
	}
	if !isForeignKeyError(userFK, fkRegistrationsUser) {
		t.Error("user constraint failure should match fk_registrations_user")
	}
	if isForeignKeyError(&mysql.MySQLError{Number: 1062, Message: eventFK.Message}, fkRegistrationsEvent) {
		t.Error("only error 1452 is a missing referenced row")
	}
	if isForeignKeyError(nil, fkRegistrationsEvent) {
		t.Error("nil error should not be a foreign key error")
	}
}
