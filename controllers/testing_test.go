package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"estatedesk/config"
	"estatedesk/models"
	"estatedesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	DB        *gorm.DB
	App       *fiber.App
	Scheduler *utils.FollowUpScheduler
	Notifier  *utils.Notifier
	Mailer    *utils.Mailer
}

// newTestEnv builds an in-memory database plus the wired controller stack
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	mailer := utils.NewMailer(config.SMTPConfig{}, nil) // unconfigured, sends are no-ops
	notifier := utils.NewNotifier(db, mailer, utils.NewAdminEmailResolver("", db), nil)
	scheduler := utils.NewFollowUpScheduler(db, notifier, log.New(io.Discard, "", 0))

	return &testEnv{
		DB:        db,
		App:       fiber.New(),
		Scheduler: scheduler,
		Notifier:  notifier,
		Mailer:    mailer,
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

// asUser injects an authenticated user the way the JWT middleware would
func asUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}
