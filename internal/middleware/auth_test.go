package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardbox_backend/database"
	"cardbox_backend/internal/auth"
	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return tokens
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID:  "ext-" + string(role) + "-" + t.Name(),
		DisplayName: "Middleware User",
		Role:        role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// sessionRouter mounts a probe endpoint behind the middleware chain the
// real server uses for protected routes.
func sessionRouter(db *gorm.DB, tokens *auth.TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.DBMiddleware(db))
	r.Use(middleware.AttachIdentity(tokens))
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": middleware.CurrentUserID(c)})
	})
	r.GET("/probe", handlers...)
	return r
}

func doProbe(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession_RejectsAnonymous(t *testing.T) {
	db := newTestDB(t)
	tokens := newTokens(t)
	r := sessionRouter(db, tokens, middleware.RequireSession())

	w := doProbe(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_AcceptsValidCookie(t *testing.T) {
	db := newTestDB(t)
	tokens := newTokens(t)
	user := createUser(t, db, models.UserRoleUser)
	r := sessionRouter(db, tokens, middleware.RequireSession())

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	w := doProbe(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)
}

func TestAttachIdentity_GarbageCookieIsAnonymous(t *testing.T) {
	db := newTestDB(t)
	tokens := newTokens(t)
	r := sessionRouter(db, tokens, middleware.RequireSession())

	// Public routes would pass through; protected ones reject.
	w := doProbe(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_ReChecksStore(t *testing.T) {
	db := newTestDB(t)
	tokens := newTokens(t)
	userService := services.NewUserService(repositories.NewUserRepository())
	r := sessionRouter(db, tokens, middleware.RequireAdmin(userService))

	admin := createUser(t, db, models.UserRoleAdmin)
	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)

	w := doProbe(r, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// The store is authoritative: a demotion takes effect even though
	// the still-valid token claims the admin role.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("role", models.UserRoleUser).Error)

	w = doProbe(r, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_DeletedUserIsUnauthorized(t *testing.T) {
	db := newTestDB(t)
	tokens := newTokens(t)
	userService := services.NewUserService(repositories.NewUserRepository())
	r := sessionRouter(db, tokens, middleware.RequireAdmin(userService))

	admin := createUser(t, db, models.UserRoleAdmin)
	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", admin.ID).Error)

	// The cookie is still valid but its subject is gone.
	w := doProbe(r, adminToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_AnonymousIsUnauthorized(t *testing.T) {
	db := newTestDB(t)
	tokens := newTokens(t)
	userService := services.NewUserService(repositories.NewUserRepository())
	r := sessionRouter(db, tokens, middleware.RequireAdmin(userService))

	w := doProbe(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
