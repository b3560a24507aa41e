package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage/memory"
)

func newTestUserService(store *memory.Store) (UserService, AuthService) {
	auth := newTestAuthService(store)
	return NewUserService(zerolog.Nop(), auth, store, store), auth
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users, _ := newTestUserService(store)

	user, err := users.CreateUser(ctx, CreateUserParams{
		Name:     "  Jane ",
		Email:    " Jane@Example.COM",
		Password: "secret123",
		Age:      floatPtr(30),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	require.NotNil(t, user.Age)
	assert.Equal(t, 30.0, *user.Age)

	match, err := argon2id.ComparePasswordAndHash("secret123", user.Password)
	require.NoError(t, err)
	assert.True(t, match)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Password, stored.Password)

	_, err = users.CreateUser(ctx, CreateUserParams{
		Name:     "Other Jane",
		Email:    "jane@example.com",
		Password: "secret456",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_CreateUserValidation(t *testing.T) {
	valid := CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret123"}

	tests := []struct {
		name    string
		modify  func(p *CreateUserParams)
		field   string
		message string
	}{
		{
			name:    "blank name",
			modify:  func(p *CreateUserParams) { p.Name = "   " },
			field:   "name",
			message: "Name is required",
		},
		{
			name:    "invalid email",
			modify:  func(p *CreateUserParams) { p.Email = "not-an-email" },
			field:   "email",
			message: "Email is invalid",
		},
		{
			name:    "negative age",
			modify:  func(p *CreateUserParams) { p.Age = floatPtr(-1) },
			field:   "age",
			message: "Age must be a positive number",
		},
		{
			name:    "short password",
			modify:  func(p *CreateUserParams) { p.Password = " 12345 " },
			field:   "password",
			message: "Password must be at least 6 characters long",
		},
		{
			name:    "password contains password",
			modify:  func(p *CreateUserParams) { p.Password = "mypassword1" },
			field:   "password",
			message: `Word "Password" isn't a valid password`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _ := newTestUserService(memory.New())
			params := valid
			tt.modify(&params)

			_, err := users.CreateUser(context.Background(), params)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestUserService_CreateUserPasswordCase(t *testing.T) {
	users, _ := newTestUserService(memory.New())

	user, err := users.CreateUser(context.Background(), CreateUserParams{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "MyPassword1",
		Age:      floatPtr(30.5),
	})
	require.NoError(t, err)
	require.NotNil(t, user.Age)
	assert.Equal(t, 30.5, *user.Age)

	match, err := argon2id.ComparePasswordAndHash("MyPassword1", user.Password)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users, auth := newTestUserService(store)

	user, err := users.CreateUser(ctx, CreateUserParams{
		Name: "Jane", Email: "jane@example.com", Password: "secret123", Age: floatPtr(30),
	})
	require.NoError(t, err)

	updated, err := users.UpdateUser(ctx, user, UpdateUserParams{
		Name:     strPtr("Janet"),
		Password: strPtr("another-secret"),
		ClearAge: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Janet", updated.Name)
	assert.Nil(t, updated.Age)
	assert.Equal(t, "Jane", user.Name, "the given user is left untouched")

	_, err = auth.VerifyCredentials(ctx, "jane@example.com", "another-secret")
	assert.NoError(t, err)
	_, err = auth.VerifyCredentials(ctx, "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnableToLogin)
}

func TestUserService_UpdateUserRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users, _ := newTestUserService(store)

	jane, err := users.CreateUser(ctx, CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, CreateUserParams{Name: "John", Email: "john@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = users.UpdateUser(ctx, jane, UpdateUserParams{Email: strPtr("JOHN@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = users.UpdateUser(ctx, jane, UpdateUserParams{Name: strPtr("Janet"), Age: floatPtr(-5)})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "age", validationErr.Field)

	stored, err := store.GetUserByID(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "jane@example.com", stored.Email)
}

func TestUserService_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users, _ := newTestUserService(store)

	jane, err := users.CreateUser(ctx, CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	john, err := users.CreateUser(ctx, CreateUserParams{Name: "John", Email: "john@example.com", Password: "secret123"})
	require.NoError(t, err)

	for _, owner := range []string{jane.ID, jane.ID, john.ID} {
		require.NoError(t, store.CreateTask(ctx, &models.Task{Description: "task", Owner: owner}))
	}

	require.NoError(t, users.DeleteUser(ctx, jane))

	_, err = store.GetUserByID(ctx, jane.ID)
	assert.Error(t, err)

	left, err := store.ListTasks(ctx, storageQuery(jane.ID))
	require.NoError(t, err)
	assert.Empty(t, left)

	left, err = store.ListTasks(ctx, storageQuery(john.ID))
	require.NoError(t, err)
	assert.Len(t, left, 1)

	assert.ErrorIs(t, users.DeleteUser(ctx, jane), ErrUserNotFound)
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUserService_Avatar(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users, _ := newTestUserService(store)

	user, err := users.CreateUser(ctx, CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = users.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, ErrAvatarNotFound)

	require.NoError(t, users.SetAvatar(ctx, user, bytes.NewReader(encodeTestPNG(t, 600, 400))))
	assert.NotEmpty(t, user.Avatar)

	avatar, err := users.GetAvatar(ctx, user.ID)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(avatar))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, AvatarSize, cfg.Width)
	assert.Equal(t, AvatarSize, cfg.Height)

	require.NoError(t, users.RemoveAvatar(ctx, user))
	assert.Nil(t, user.Avatar)
	_, err = users.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, ErrAvatarNotFound)

	_, err = users.GetAvatar(ctx, "missing")
	assert.ErrorIs(t, err, ErrAvatarNotFound)
}

func TestUserService_AvatarInvalidImage(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users, _ := newTestUserService(store)

	user, err := users.CreateUser(ctx, CreateUserParams{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = users.SetAvatar(ctx, user, strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = users.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, ErrAvatarNotFound)
}
