package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/Educertfication/Educert-v2/internal/config"
	"github.com/Educertfication/Educert-v2/internal/database/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: t.TempDir() + "/test.db",
			},
		},
	}

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func testEvent(eventType string) *models.Event {
	return &models.Event{
		ID:        uuid.New().String(),
		EventType: eventType,
		Payload:   "{}",
		CreatedAt: time.Now(),
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	t.Run("Migrations are idempotent", func(t *testing.T) {
		assert.NoError(t, db.Migrate())
	})
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "alice",
		PasswordHash: "hash",
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.CreateUser(user))

	t.Run("Get by username", func(t *testing.T) {
		loaded, err := db.GetUserByUsername("alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, loaded.ID)
	})

	t.Run("Get by id", func(t *testing.T) {
		loaded, err := db.GetUserByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", loaded.Username)
	})

	t.Run("Unknown user returns ErrNoRows", func(t *testing.T) {
		_, err := db.GetUserByUsername("ghost")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("Setup incomplete without admin", func(t *testing.T) {
		complete, err := db.IsSetupComplete()
		require.NoError(t, err)
		assert.False(t, complete)
	})

	t.Run("Setup complete with admin", func(t *testing.T) {
		admin := &models.User{
			ID:           uuid.New().String(),
			Username:     "admin",
			PasswordHash: "hash",
			Role:         "admin",
			CreatedAt:    time.Now(),
		}
		require.NoError(t, db.CreateUser(admin))

		complete, err := db.IsSetupComplete()
		require.NoError(t, err)
		assert.True(t, complete)
	})
}

func TestSystemConfig(t *testing.T) {
	db := newTestDB(t)

	t.Run("Missing key reads as empty", func(t *testing.T) {
		value, err := db.GetSystemConfig("missing")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("Set and get", func(t *testing.T) {
		require.NoError(t, db.SetSystemConfig("key1", "value1"))

		value, err := db.GetSystemConfig("key1")
		require.NoError(t, err)
		assert.Equal(t, "value1", value)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, db.SetSystemConfig("key1", "value2"))

		value, err := db.GetSystemConfig("key1")
		require.NoError(t, err)
		assert.Equal(t, "value2", value)
	})

	t.Run("SetSystemConfigEvent writes the value and the event", func(t *testing.T) {
		require.NoError(t, db.SetSystemConfigEvent("key2", "value3", testEvent("ConfigChanged")))

		value, err := db.GetSystemConfig("key2")
		require.NoError(t, err)
		assert.Equal(t, "value3", value)

		events, err := db.ListEvents("ConfigChanged", 10)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func newAccount(registrant, name string) (*models.Account, *models.Institution) {
	now := time.Now()
	address := uuid.New().String()
	return &models.Account{
			Registrant:     registrant,
			Name:           name,
			AccountAddress: address,
			IsActive:       true,
			CreatedAt:      now,
		}, &models.Institution{
			AccountAddress: address,
			Name:           name,
			Proprietor:     registrant,
			CourseDuration: 90,
			IsActive:       true,
			CreatedAt:      now,
		}
}

func TestAccounts(t *testing.T) {
	db := newTestDB(t)

	account, inst := newAccount("reg-1", "Alpha U")
	require.NoError(t, db.CreateAccount(account, inst, testEvent("AccountCreated")))

	t.Run("Get by registrant and address", func(t *testing.T) {
		byReg, err := db.GetAccount("reg-1")
		require.NoError(t, err)
		assert.Equal(t, account.AccountAddress, byReg.AccountAddress)

		byAddr, err := db.GetAccountByAddress(account.AccountAddress)
		require.NoError(t, err)
		assert.Equal(t, "reg-1", byAddr.Registrant)
	})

	t.Run("Institution row created in the same transaction", func(t *testing.T) {
		loaded, err := db.GetInstitution(account.AccountAddress)
		require.NoError(t, err)
		assert.Equal(t, "reg-1", loaded.Proprietor)
	})

	t.Run("Listing follows insertion order", func(t *testing.T) {
		second, secondInst := newAccount("reg-2", "Beta College")
		require.NoError(t, db.CreateAccount(second, secondInst, testEvent("AccountCreated")))

		accounts, err := db.ListAccounts()
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "Alpha U", accounts[0].Name)
		assert.Equal(t, "Beta College", accounts[1].Name)

		count, err := db.CountAccounts()
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Active flag update", func(t *testing.T) {
		require.NoError(t, db.UpdateAccountActive("reg-1", false, testEvent("AccountDeactivated")))

		loaded, err := db.GetAccount("reg-1")
		require.NoError(t, err)
		assert.False(t, loaded.IsActive)
	})

	t.Run("Ownership transfer updates the proprietor", func(t *testing.T) {
		require.NoError(t, db.TransferInstitutionOwner(account.AccountAddress, "new-owner", testEvent("OwnershipTransferred")))

		loaded, err := db.GetInstitution(account.AccountAddress)
		require.NoError(t, err)
		assert.Equal(t, "new-owner", loaded.Proprietor)
	})
}

func TestCoursesAndEnrollments(t *testing.T) {
	db := newTestDB(t)

	creator := &models.Creator{
		CreatorAddress: "creator-1",
		Name:           "Alpha U",
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateCreator(creator, testEvent("CreatorAuthorized")))

	course := &models.Course{
		Creator:   "creator-1",
		Name:      "Course One",
		IsActive:  true,
		Duration:  30,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.CreateCourse(course, testEvent("CourseCreated")))

	t.Run("Create allocates course and certificate ids", func(t *testing.T) {
		assert.Equal(t, int64(1), course.CourseID)
		assert.Equal(t, int64(1), course.CertificateID)

		second := &models.Course{
			Creator:   "creator-1",
			Name:      "Course Two",
			IsActive:  true,
			Duration:  30,
			CreatedAt: time.Now(),
		}
		require.NoError(t, db.CreateCourse(second, testEvent("CourseCreated")))
		assert.Equal(t, int64(2), second.CourseID)
		assert.Equal(t, int64(2), second.CertificateID)
	})

	t.Run("Create bumps the creator's course count", func(t *testing.T) {
		loaded, err := db.GetCreator("creator-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), loaded.TotalCourses)
	})

	t.Run("Certificate type registered for the course", func(t *testing.T) {
		ct, err := db.GetCertificateType(1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), ct.CourseID)
		assert.Equal(t, "creator-1", ct.Creator)
	})

	t.Run("Enrollment lifecycle updates counters", func(t *testing.T) {
		enrollment := &models.Enrollment{
			Student:    "student-1",
			CourseID:   1,
			EnrolledAt: time.Now(),
		}
		require.NoError(t, db.CreateEnrollment(enrollment, testEvent("StudentEnrolled")))

		completedAt := sql.NullTime{Time: time.Now(), Valid: true}
		require.NoError(t, db.CompleteEnrollment("student-1", 1, completedAt, testEvent("CourseCompleted")))

		loaded, err := db.GetCourse(1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), loaded.TotalEnrollments)
		assert.Equal(t, int64(1), loaded.TotalCompletions)

		record, err := db.GetEnrollment("student-1", 1)
		require.NoError(t, err)
		assert.True(t, record.IsCompleted)
		assert.True(t, record.CompletedAt.Valid)
	})

	t.Run("Rosters replay enrollment order", func(t *testing.T) {
		second := &models.Enrollment{
			Student:    "student-2",
			CourseID:   1,
			EnrolledAt: time.Now(),
		}
		require.NoError(t, db.CreateEnrollment(second, testEvent("StudentEnrolled")))

		students, err := db.ListCourseStudents(1)
		require.NoError(t, err)
		assert.Equal(t, []string{"student-1", "student-2"}, students)

		courses, err := db.ListStudentCourses("student-1")
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, courses)
	})

	t.Run("Issue and revoke adjust balances and counters", func(t *testing.T) {
		// One institution row backs the creator address
		account, inst := newAccount("reg-1", "Alpha U")
		account.AccountAddress = "creator-1"
		inst.AccountAddress = "creator-1"
		require.NoError(t, db.CreateAccount(account, inst, testEvent("AccountCreated")))

		require.NoError(t, db.IssueCertificate("student-1", 1, 1, "creator-1", testEvent("CertificateIssued")))

		balance, err := db.GetBalance("student-1", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), balance)

		loadedInst, err := db.GetInstitution("creator-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), loadedInst.CertMinted)

		record, err := db.GetEnrollment("student-1", 1)
		require.NoError(t, err)
		assert.True(t, record.CertificateIssued)

		require.NoError(t, db.RevokeCertificate("student-1", 1, 1, "creator-1", true, testEvent("CertificateRevoked")))

		balance, err = db.GetBalance("student-1", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)

		record, err = db.GetEnrollment("student-1", 1)
		require.NoError(t, err)
		assert.False(t, record.CertificateIssued)
	})
}

func TestEvents(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SetSystemConfigEvent("k1", "v1", testEvent("TypeA")))
	require.NoError(t, db.SetSystemConfigEvent("k2", "v2", testEvent("TypeB")))
	require.NoError(t, db.SetSystemConfigEvent("k3", "v3", testEvent("TypeA")))

	t.Run("List newest first", func(t *testing.T) {
		events, err := db.ListEvents("", 10)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "TypeA", events[0].EventType)
		assert.Equal(t, int64(3), events[0].Seq)
		assert.Equal(t, int64(1), events[2].Seq)
	})

	t.Run("Filter by type", func(t *testing.T) {
		events, err := db.ListEvents("TypeA", 10)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("Limit applies", func(t *testing.T) {
		events, err := db.ListEvents("", 1)
		require.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, int64(3), events[0].Seq)
	})
}
