package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kareemashraf12/YallaR7la/pkg/config"
	"github.com/Kareemashraf12/YallaR7la/pkg/db"
	"github.com/Kareemashraf12/YallaR7la/pkg/log"
	"github.com/Kareemashraf12/YallaR7la/pkg/models"
	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 0},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Database:     ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Security: config.SecurityConfig{
			JWTSecret:          "test-secret-key",
			JWTExpirationHours: 1,
			RateLimitEnabled:   false,
		},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "text",
			Output: "stdout",
		},
		Booking: config.BookingConfig{
			CapReleases: false,
			RatingMin:   1,
			RatingMax:   5,
		},
	}

	logger, err := log.New(&cfg.Logging)
	require.NoError(t, err)

	database, err := db.New(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() {
		_ = database.Close()
	})

	server, err := New(cfg, database, logger)
	require.NoError(t, err)
	return server
}

func (s *Server) performRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()

	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func (s *Server) seedUser(t *testing.T, name, email string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, s.repo.CreateUser(user))

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func (s *Server) seedDestination(t *testing.T, name, category string, slots int, ownerID uint) *models.Destination {
	t.Helper()

	destination := &models.Destination{
		Name:            name,
		Description:     name + " description",
		Category:        category,
		Cost:            100,
		Capacity:        slots,
		AvailableSlots:  slots,
		IsAvailable:     slots > 0,
		BusinessOwnerID: ownerID,
	}
	require.NoError(t, s.repo.CreateDestination(destination))
	return destination
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	recorder := s.performRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	recorder := s.performRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Sara",
		"email":    "sara@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, recorder.Code)

	// Duplicate email
	recorder = s.performRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Sara Again",
		"email":    "sara@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = s.performRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "sara@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	data := response.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	recorder = s.performRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "sara@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestBookAndUnbookEndpoints(t *testing.T) {
	s := newTestServer(t)
	destination := s.seedDestination(t, "Dahab Camp", "Beach", 1, 1)

	recorder := s.performRequest(t, http.MethodPut, "/api/v1/destinations/"+destination.DestinationID+"/book", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	assert.Equal(t, "Booking successful.", response.Message)

	// Pool exhausted: the destination is now unavailable
	recorder = s.performRequest(t, http.MethodPut, "/api/v1/destinations/"+destination.DestinationID+"/book", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = s.performRequest(t, http.MethodPut, "/api/v1/destinations/"+destination.DestinationID+"/unbook", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	response = decodeResponse(t, recorder)
	assert.Equal(t, "Unbooking successful. Slot released.", response.Message)

	recorder = s.performRequest(t, http.MethodPut, "/api/v1/destinations/3f0c8d5e-0000-4000-8000-000000000000/book", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCategoryEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedDestination(t, "Sharm Resort", "Beach", 5, 1)

	recorder := s.performRequest(t, http.MethodGet, "/api/v1/destinations/category?category=beach", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = s.performRequest(t, http.MethodGet, "/api/v1/destinations/category?category=", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = s.performRequest(t, http.MethodGet, "/api/v1/destinations/category?category=cruise", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedDestination(t, "Sharm Resort", "Beach", 5, 1)

	recorder := s.performRequest(t, http.MethodGet, "/api/v1/destinations/search?input=Sharm,+sunny!", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = s.performRequest(t, http.MethodGet, "/api/v1/destinations/search?input=", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = s.performRequest(t, http.MethodGet, "/api/v1/destinations/search?input=atlantis", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDestinationDetailsNotFound(t *testing.T) {
	s := newTestServer(t)

	// Well-formed but absent identifier
	recorder := s.performRequest(t, http.MethodGet, "/api/v1/destinations/3f0c8d5e-0000-4000-8000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddDestinationRequiresOwnerRole(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.seedUser(t, "Sara", "sara@example.com", models.RoleUser)
	_, ownerToken := s.seedUser(t, "Owner", "owner@example.com", models.RoleBusinessOwner)

	body := map[string]interface{}{
		"name":            "Siwa Trek",
		"category":        "Adventure",
		"cost":            200,
		"discount":        25,
		"available_slots": 10,
	}

	recorder := s.performRequest(t, http.MethodPost, "/api/v1/destinations", "", body)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = s.performRequest(t, http.MethodPost, "/api/v1/destinations", userToken, body)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = s.performRequest(t, http.MethodPost, "/api/v1/destinations", ownerToken, body)
	require.Equal(t, http.StatusCreated, recorder.Code)

	response := decodeResponse(t, recorder)
	data := response.Data.(map[string]interface{})
	// 200 with 25% off is stored as 150
	assert.InDelta(t, 150.0, data["cost"].(float64), 0.001)
	assert.Equal(t, true, data["is_available"])
}

func TestFeedbackEndpoint(t *testing.T) {
	s := newTestServer(t)
	user, token := s.seedUser(t, "Nadia", "nadia@example.com", models.RoleUser)
	destination := s.seedDestination(t, "Luxor Cruise", "Historical", 5, user.ID)

	path := "/api/v1/destinations/" + destination.DestinationID + "/feedback"

	recorder := s.performRequest(t, http.MethodPost, path, "", map[string]interface{}{
		"content": "wonderful",
		"rating":  5,
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = s.performRequest(t, http.MethodPost, path, token, map[string]interface{}{
		"content": "wonderful",
		"rating":  6,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = s.performRequest(t, http.MethodPost, path, token, map[string]interface{}{
		"content": "wonderful",
		"rating":  5,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	data := response.Data.(map[string]interface{})
	assert.Equal(t, float64(5), data["new_average_rating"])
	assert.Equal(t, float64(1), data["total_comments"])

	// Comment listing carries the author's name
	recorder = s.performRequest(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	response = decodeResponse(t, recorder)
	comments := response.Data.([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "Nadia", comments[0].(map[string]interface{})["username"])
}

func TestCommentsUnknownDestinationIsEmptyList(t *testing.T) {
	s := newTestServer(t)

	recorder := s.performRequest(t, http.MethodGet,
		"/api/v1/destinations/3f0c8d5e-0000-4000-8000-000000000000/feedback", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	response := decodeResponse(t, recorder)
	assert.True(t, response.Success)
	assert.Empty(t, response.Data)
}

func TestListDestinationsPaginated(t *testing.T) {
	s := newTestServer(t)
	s.seedDestination(t, "Sharm Resort", "Beach", 5, 1)
	s.seedDestination(t, "Siwa Trek", "Adventure", 5, 1)
	s.seedDestination(t, "Luxor Cruise", "Historical", 5, 1)

	recorder := s.performRequest(t, http.MethodGet, "/api/v1/destinations?page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	response := decodeResponse(t, recorder)
	summaries := response.Data.([]interface{})
	assert.Len(t, summaries, 1)

	meta := response.Meta.(map[string]interface{})
	assert.Equal(t, float64(3), meta["total_count"])
	assert.Equal(t, float64(2), meta["total_pages"])
	assert.Equal(t, float64(2), meta["page"])
}

func TestFavoritesEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "Sara", "sara@example.com", models.RoleUser)
	destination := s.seedDestination(t, "Sharm Resort", "Beach", 5, 1)

	path := "/api/v1/destinations/" + destination.DestinationID + "/favorites"

	recorder := s.performRequest(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = s.performRequest(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = s.performRequest(t, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	favorites := response.Data.([]interface{})
	assert.Len(t, favorites, 1)
}

func TestOwnerStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	owner, ownerToken := s.seedUser(t, "Owner", "owner@example.com", models.RoleBusinessOwner)
	_, userToken := s.seedUser(t, "Sara", "sara@example.com", models.RoleUser)
	s.seedDestination(t, "Sharm Resort", "Beach", 5, owner.ID)

	recorder := s.performRequest(t, http.MethodGet, "/api/v1/owner/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = s.performRequest(t, http.MethodGet, "/api/v1/owner/stats", ownerToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	data := response.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["destination_count"])
	assert.Equal(t, float64(5), data["slots_remaining"])
}
