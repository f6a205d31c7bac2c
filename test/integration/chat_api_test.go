package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"legalchat-be/internal/bootstrap"
	"legalchat-be/internal/config"
	"legalchat-be/internal/dto"
	"legalchat-be/internal/server"
	"legalchat-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// setupApp wires the full application against the database from .env.
// Tests skip when no database is reachable.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		t.Skipf("Skipping: could not connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	return srv.GetApp()
}

func signToken(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestChatEndpointsRequireAuth(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("GET", "/api/chat/v1", nil)
	resp, err := app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChatLifecycle(t *testing.T) {
	app := setupApp(t)
	token := signToken(t, uuid.New())

	// Create a research chat
	body, _ := json.Marshal(dto.NewChatRequest{
		Message:  "integration test chat",
		ChatType: "RESEARCH",
	})
	req := httptest.NewRequest("POST", "/api/chat/v1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var created dto.NewChatResponse
	json.NewDecoder(resp.Body).Decode(&created)
	assert.NotEqual(t, uuid.Nil, created.ChatId)

	// The new chat shows up in the list
	req = httptest.NewRequest("GET", "/api/chat/v1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var chats []dto.ChatResponse
	json.NewDecoder(resp.Body).Decode(&chats)
	assert.Len(t, chats, 1)
	assert.Equal(t, created.ChatId, chats[0].Id)
	assert.Equal(t, "integration test chat", chats[0].ChatName)

	// An empty message page exists for it
	req = httptest.NewRequest("GET", "/api/chat/v1/"+created.ChatId.String()+"/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page dto.GetMessagesResponse
	json.NewDecoder(resp.Body).Decode(&page)
	assert.Empty(t, page.Messages)
	assert.Nil(t, page.NextCursor)

	// Delete it again
	req = httptest.NewRequest("DELETE", "/api/chat/v1/"+created.ChatId.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Gone from the list
	req = httptest.NewRequest("GET", "/api/chat/v1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, 10000)
	assert.NoError(t, err)

	chats = nil
	json.NewDecoder(resp.Body).Decode(&chats)
	assert.Empty(t, chats)
}

func TestDeleteForeignChatIsNotFound(t *testing.T) {
	app := setupApp(t)
	token := signToken(t, uuid.New())

	req := httptest.NewRequest("DELETE", "/api/chat/v1/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
