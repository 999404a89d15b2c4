package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() NewUser {
	return NewUser{
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		Password:      "analytical",
		HeightCM:      168,
		WeightKG:      58.5,
		Gender:        "Female",
		ActivityLevel: "Moderate",
		Goal:          "Maintain weight",
	}
}

func TestCreateUser_RoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)

		created, err := accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC).Equal(created.CreatedAt))
		assert.Equal(t, time.UTC, created.CreatedAt.Location())

		got, err := accounts.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Ada Lovelace", got.Name)
		assert.Equal(t, 168.0, got.HeightCM)
		assert.Equal(t, 58.5, got.WeightKG)
		assert.Equal(t, models.GenderFemale, got.Gender)
		assert.Equal(t, models.ActivityModerate, got.ActivityLevel)
		assert.Equal(t, models.GoalMaintenance, got.Goal)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

		// The password is only stored hashed
		assert.NotEqual(t, "analytical", got.PasswordHash)
		assert.True(t, strings.HasPrefix(got.PasswordHash, "$2"))
	})
}

func TestCreateUser_Defaults(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		in := validUser()
		in.Gender, in.ActivityLevel, in.Goal = "", "", ""

		user, err := newTestAccounts(tables).CreateUser(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, models.GenderPreferNotToSay, user.Gender)
		assert.Equal(t, models.ActivityLow, user.ActivityLevel)
		assert.Equal(t, models.GoalMaintenance, user.Goal)
	})
}

func TestCreateUser_Uniqueness(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)

		_, err := accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)

		again := validUser()
		again.Name = "Someone Else"
		_, err = accounts.CreateUser(ctx, again)
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		users, err := tables.Users.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Ada Lovelace", users[0].Name)

		// Emails match exactly, so a different case is a different account
		upper := validUser()
		upper.Email = "Ada@example.com"
		_, err = accounts.CreateUser(ctx, upper)
		assert.NoError(t, err)
	})
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewUser)
	}{
		{"empty name", func(u *NewUser) { u.Name = "" }},
		{"blank name", func(u *NewUser) { u.Name = "   " }},
		{"empty email", func(u *NewUser) { u.Email = "" }},
		{"empty password", func(u *NewUser) { u.Password = "" }},
		{"zero height", func(u *NewUser) { u.HeightCM = 0 }},
		{"negative weight", func(u *NewUser) { u.WeightKG = -1 }},
		{"unknown gender", func(u *NewUser) { u.Gender = "robot" }},
		{"unknown activity", func(u *NewUser) { u.ActivityLevel = "extreme" }},
		{"unknown goal", func(u *NewUser) { u.Goal = "fly" }},
		{"password too long", func(u *NewUser) { u.Password = strings.Repeat("x", 73) }},
		{"line break in name", func(u *NewUser) { u.Name = "Ann\r\nLee" }},
		{"line break in email", func(u *NewUser) { u.Email = "x\r\ny@example.com" }},
		{"tab in email", func(u *NewUser) { u.Email = "ada\t@example.com" }},
	}

	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		accounts := newTestAccounts(tables)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := validUser()
				tt.mutate(&in)

				_, err := accounts.CreateUser(context.Background(), in)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}

		users, err := tables.Users.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestAuthenticate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)
		_, err := accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)

		user, err := accounts.Authenticate(ctx, "ada@example.com", "analytical")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "ada@example.com", user.Email)

		user, err = accounts.Authenticate(ctx, "ada@example.com", "wrong")
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = accounts.Authenticate(ctx, "nobody@example.com", "analytical")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestGetByEmail_Absent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		user, err := newTestAccounts(tables).GetByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUpdateUser_MergesOnlySetFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)
		_, err := accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)

		before, err := accounts.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)

		weight := 80.0
		require.NoError(t, accounts.UpdateUser(ctx, "ada@example.com", UserUpdate{WeightKG: &weight}))

		after, err := accounts.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)

		expected := *before
		expected.WeightKG = 80
		assert.Equal(t, expected.Name, after.Name)
		assert.Equal(t, expected.Email, after.Email)
		assert.Equal(t, expected.PasswordHash, after.PasswordHash)
		assert.Equal(t, expected.HeightCM, after.HeightCM)
		assert.Equal(t, expected.WeightKG, after.WeightKG)
		assert.Equal(t, expected.Gender, after.Gender)
		assert.Equal(t, expected.ActivityLevel, after.ActivityLevel)
		assert.Equal(t, expected.Goal, after.Goal)
		assert.True(t, expected.CreatedAt.Equal(after.CreatedAt))
	})
}

func TestUpdateUser_Password(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)
		_, err := accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)

		password := "difference engine"
		require.NoError(t, accounts.UpdateUser(ctx, "ada@example.com", UserUpdate{Password: &password}))

		user, err := accounts.Authenticate(ctx, "ada@example.com", "analytical")
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = accounts.Authenticate(ctx, "ada@example.com", password)
		require.NoError(t, err)
		assert.NotNil(t, user)
	})
}

func TestUpdateUser_Errors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)

		name := "Nobody"
		err := accounts.UpdateUser(ctx, "nobody@example.com", UserUpdate{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)

		// An invalid field rejects the whole update
		goal := "fly"
		err = accounts.UpdateUser(ctx, "ada@example.com", UserUpdate{Name: &name, Goal: &goal})
		assert.ErrorIs(t, err, ErrValidation)

		broken := "Ann\r\nLee"
		err = accounts.UpdateUser(ctx, "ada@example.com", UserUpdate{Name: &broken})
		assert.ErrorIs(t, err, ErrValidation)

		user, err := accounts.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", user.Name)
	})
}

func TestDeleteUser_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)
		_, err := accounts.CreateUser(ctx, validUser())
		require.NoError(t, err)

		require.NoError(t, accounts.DeleteUser(ctx, "ada@example.com"))
		require.NoError(t, accounts.DeleteUser(ctx, "ada@example.com"))

		user, err := accounts.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)

		// The email can be registered again
		_, err = accounts.CreateUser(ctx, validUser())
		assert.NoError(t, err)
	})
}

func TestCreateUser_ConcurrentSignups(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		accounts := newTestAccounts(tables)

		const workers = 8
		var created, duplicates atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				in := validUser()
				in.Name = fmt.Sprintf("worker %d", i)
				_, err := accounts.CreateUser(ctx, in)
				switch {
				case err == nil:
					created.Add(1)
				case errors.Is(err, ErrDuplicateEmail):
					duplicates.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, int32(workers-1), duplicates.Load())

		users, err := tables.Users.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
