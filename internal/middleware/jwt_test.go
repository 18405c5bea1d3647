package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/campusadvisor/advisor-api/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/students/:id/records", handlers...)
	return router
}

func studentClaims(studentID string, role models.Role) *models.JWTClaims {
	return &models.JWTClaims{
		StudentID: studentID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	router := protectedRouter()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/stu-1/records", nil)
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/stu-1/records", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	router := protectedRouter()
	claims := studentClaims("stu-1", models.RoleStudent)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/stu-1/records", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	router := protectedRouter()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/stu-1/records", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("stu-1", models.RoleStudent)))
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRBACSelfAndRoles(t *testing.T) {
	router := protectedRouter(RBAC(string(models.RoleAdvisor), "SELF"))

	// Students reach their own records.
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/stu-1/records", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("stu-1", models.RoleStudent)))
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	// But not someone else's.
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/stu-2/records", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("stu-1", models.RoleStudent)))
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	// Advisors reach everyone.
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/stu-2/records", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("adv-1", models.RoleAdvisor)))
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)
}
