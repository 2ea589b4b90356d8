package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
	"github.com/nexusfeed/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newFriendshipTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.FriendRequest{},
		&models.Notification{},
	))

	require.NoError(t, db.Create(&models.User{Name: "Alice", Email: "alice@example.com"}).Error)
	require.NoError(t, db.Create(&models.User{Name: "Bob", Email: "bob@example.com"}).Error)
	return db
}

func newFriendshipHandler(t *testing.T, db *gorm.DB) *FriendshipHandler {
	t.Helper()
	notifier := notify.New(repositories.NewPostgresNotificationRepository(db), zap.NewNop(), 8)
	t.Cleanup(notifier.Close)
	return NewFriendshipHandler(
		repositories.NewPostgresFriendshipRepository(db),
		repositories.NewPostgresUserRepository(db),
		visibility.NewFilter(db),
		notifier,
	)
}

func sendFriendRequest(h *FriendshipHandler, senderID uint, body string) error {
	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", senderID)
	return h.SendFriendRequest(c)
}

func TestSendFriendRequestCreates(t *testing.T) {
	db := newFriendshipTestDB(t)
	h := newFriendshipHandler(t, db)

	require.NoError(t, sendFriendRequest(h, 1, `{"receiver_id":2}`))

	var row models.FriendRequest
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, uint(1), row.SenderID)
	assert.Equal(t, uint(2), row.ReceiverID)
	assert.Equal(t, models.FriendPending, row.Status)
}

func TestSendFriendRequestDuplicateIsBadRequest(t *testing.T) {
	db := newFriendshipTestDB(t)
	h := newFriendshipHandler(t, db)

	require.NoError(t, sendFriendRequest(h, 1, `{"receiver_id":2}`))

	// A second attempt, from either side, reports the pending request
	err := sendFriendRequest(h, 2, `{"receiver_id":1}`)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, repositories.ErrFriendRequestPending.Error(), httpErr.Message)
}

func TestSendFriendRequestAlreadyFriendsIsBadRequest(t *testing.T) {
	db := newFriendshipTestDB(t)
	h := newFriendshipHandler(t, db)

	require.NoError(t, db.Create(&models.FriendRequest{
		SenderID: 1, ReceiverID: 2, Status: models.FriendAccepted,
	}).Error)

	err := sendFriendRequest(h, 1, `{"receiver_id":2}`)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, repositories.ErrAlreadyFriends.Error(), httpErr.Message)
}

func TestSendFriendRequestStoreFailureIsInternal(t *testing.T) {
	db := newFriendshipTestDB(t)
	h := newFriendshipHandler(t, db)

	require.NoError(t, db.Migrator().DropTable(&models.FriendRequest{}))

	err := sendFriendRequest(h, 1, `{"receiver_id":2}`)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	assert.Equal(t, "internal server error", httpErr.Message)
}
