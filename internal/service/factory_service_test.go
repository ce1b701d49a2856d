package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryService_CreateAccount(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	setupOwner(t, db, cfg)
	factory := NewFactoryService(db, cfg)

	t.Run("Create account successfully", func(t *testing.T) {
		account, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-1",
			Name:         "Test University",
			DurationDays: 120,
		})
		require.NoError(t, err)
		assert.Equal(t, "Test University", account.Name)
		assert.Equal(t, "registrant-1", account.Registrant)
		assert.NotEmpty(t, account.AccountAddress)
		assert.True(t, account.IsActive)

		// An institution profile is created alongside the directory entry
		inst, err := db.GetInstitution(account.AccountAddress)
		require.NoError(t, err)
		assert.Equal(t, "Test University", inst.Name)
		assert.Equal(t, "registrant-1", inst.Proprietor)
		assert.Equal(t, int64(120), inst.CourseDuration)
		assert.True(t, inst.IsActive)
	})

	t.Run("Duplicate registrant fails", func(t *testing.T) {
		_, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-1",
			Name:         "Second University",
			DurationDays: 90,
		})
		require.Error(t, err)
		assert.Equal(t, "Account already exists", err.Error())
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindStateConflict, kind)
	})

	t.Run("Empty name fails", func(t *testing.T) {
		_, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-2",
			Name:         "",
			DurationDays: 90,
		})
		require.Error(t, err)
		assert.Equal(t, "Name cannot be empty", err.Error())
	})

	t.Run("Zero duration fails", func(t *testing.T) {
		_, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-2",
			Name:         "Zero U",
			DurationDays: 0,
		})
		require.Error(t, err)
		assert.Equal(t, "Duration must be greater than 0", err.Error())
	})

	t.Run("Empty registrant fails", func(t *testing.T) {
		_, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "",
			Name:         "Nobody U",
			DurationDays: 90,
		})
		require.Error(t, err)
		assert.Equal(t, "Invalid address", err.Error())
	})

	t.Run("Account creation emits AccountCreated", func(t *testing.T) {
		events, err := db.ListEvents(EventAccountCreated, 10)
		require.NoError(t, err)
		require.NotEmpty(t, events)
		assert.Contains(t, events[0].Payload, "Test University")
	})
}

func TestFactoryService_PauseUnpause(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	owner := setupOwner(t, db, cfg)
	factory := NewFactoryService(db, cfg)

	t.Run("Not paused initially", func(t *testing.T) {
		paused, err := factory.Paused()
		require.NoError(t, err)
		assert.False(t, paused)
	})

	t.Run("Non-owner cannot pause", func(t *testing.T) {
		err := factory.Pause("stranger")
		require.Error(t, err)
		assert.Equal(t, "Not authorized", err.Error())
	})

	t.Run("Paused factory rejects creation", func(t *testing.T) {
		require.NoError(t, factory.Pause(owner))

		paused, err := factory.Paused()
		require.NoError(t, err)
		assert.True(t, paused)

		_, err = factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-1",
			Name:         "Paused U",
			DurationDays: 90,
		})
		require.Error(t, err)
		assert.Equal(t, "Factory is paused", err.Error())
	})

	t.Run("Unpause restores creation", func(t *testing.T) {
		require.NoError(t, factory.Unpause(owner))

		_, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-1",
			Name:         "Resumed U",
			DurationDays: 90,
		})
		require.NoError(t, err)
	})
}

func TestFactoryService_AccountLifecycle(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	owner := setupOwner(t, db, cfg)
	factory := NewFactoryService(db, cfg)

	account, err := factory.CreateAccount(&CreateAccountRequest{
		Registrant:   "registrant-1",
		Name:         "Lifecycle U",
		DurationDays: 90,
	})
	require.NoError(t, err)

	t.Run("Non-owner cannot deactivate", func(t *testing.T) {
		err := factory.DeactivateAccount("registrant-1", "registrant-1")
		require.Error(t, err)
		assert.Equal(t, "Not authorized", err.Error())
	})

	t.Run("Deactivate flips the directory flag", func(t *testing.T) {
		require.NoError(t, factory.DeactivateAccount(owner, "registrant-1"))

		loaded, err := factory.GetAccount("registrant-1")
		require.NoError(t, err)
		assert.False(t, loaded.IsActive)

		authorized, err := factory.IsAccountAuthorized(account.AccountAddress)
		require.NoError(t, err)
		assert.False(t, authorized)
	})

	t.Run("Activate restores authorization", func(t *testing.T) {
		require.NoError(t, factory.ActivateAccount(owner, "registrant-1"))

		authorized, err := factory.IsAccountAuthorized(account.AccountAddress)
		require.NoError(t, err)
		assert.True(t, authorized)
	})

	t.Run("Unknown registrant not found", func(t *testing.T) {
		err := factory.DeactivateAccount(owner, "ghost")
		require.Error(t, err)
		assert.Equal(t, "Account does not exist", err.Error())
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindNotFound, kind)
	})
}

func TestFactoryService_Directory(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	owner := setupOwner(t, db, cfg)
	factory := NewFactoryService(db, cfg)

	names := []string{"Alpha U", "Beta College", "Gamma Institute"}
	for i, name := range names {
		_, err := factory.CreateAccount(&CreateAccountRequest{
			Registrant:   "registrant-" + string(rune('a'+i)),
			Name:         name,
			DurationDays: 90,
		})
		require.NoError(t, err)
	}

	t.Run("Listings preserve creation order", func(t *testing.T) {
		accounts, err := factory.ListAccounts()
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		for i, account := range accounts {
			assert.Equal(t, names[i], account.Name)
		}
	})

	t.Run("Active listing filters without reordering", func(t *testing.T) {
		require.NoError(t, factory.DeactivateAccount(owner, "registrant-b"))

		active, err := factory.ListActiveAccounts()
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Alpha U", active[0].Name)
		assert.Equal(t, "Gamma Institute", active[1].Name)
	})

	t.Run("Total counts all entries including inactive", func(t *testing.T) {
		total, err := factory.TotalAccounts()
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("HasUserAccount reflects the directory", func(t *testing.T) {
		has, err := factory.HasUserAccount("registrant-a")
		require.NoError(t, err)
		assert.True(t, has)

		has, err = factory.HasUserAccount("ghost")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("GetUserAccount resolves the account address", func(t *testing.T) {
		address, err := factory.GetUserAccount("registrant-a")
		require.NoError(t, err)
		assert.NotEmpty(t, address)

		_, err = factory.GetUserAccount("ghost")
		require.Error(t, err)
		assert.Equal(t, "Account does not exist", err.Error())
	})
}

func TestFactoryService_SetCourseManager(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	owner := setupOwner(t, db, cfg)
	factory := NewFactoryService(db, cfg)

	t.Run("Non-owner rejected", func(t *testing.T) {
		err := factory.SetCourseManager("stranger", "cm-address")
		require.Error(t, err)
		assert.Equal(t, "Not authorized", err.Error())
	})

	t.Run("Empty address rejected", func(t *testing.T) {
		err := factory.SetCourseManager(owner, "")
		require.Error(t, err)
		assert.Equal(t, "Invalid address", err.Error())
	})

	t.Run("Owner sets the address", func(t *testing.T) {
		require.NoError(t, factory.SetCourseManager(owner, "cm-address"))

		address, err := factory.CourseManagerAddress()
		require.NoError(t, err)
		assert.Equal(t, "cm-address", address)
	})
}
