package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"melodix/internal/db"
	"melodix/internal/middleware"
	"melodix/internal/mocks"
	"melodix/internal/models"
	"melodix/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Abcd123!"

type authEnv struct {
	handler  *AuthHandler
	users    *mocks.MockUserStore
	notifier *mocks.MockNotifier
	service  *services.UserService
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	users := mocks.NewMockUserStore()
	notifier := mocks.NewMockNotifier()
	tokens := services.NewAuthService("test-secret", time.Hour, zerolog.Nop())
	svc := services.NewUserService(users, tokens, notifier, zerolog.Nop(), services.UserServiceConfig{
		BcryptCost:    bcrypt.MinCost,
		ResetTokenTTL: time.Hour,
		FrontendURL:   "https://melodix.test",
	})
	return &authEnv{
		handler:  NewAuthHandler(svc, zerolog.Nop()),
		users:    users,
		notifier: notifier,
		service:  svc,
	}
}

func (e *authEnv) seed(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return e.users.Seed(&models.User{FirstName: "Ada", LastName: "Lovelace", Email: email, PasswordHash: string(hash), Role: "user"})
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	env := newAuthEnv(t)
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"A@B.com","password":"Abcd123!",
		"confirmPassword":"Abcd123!","address":"1 rue de la Paix","phone":"0600000000"}`

	rec := post(t, env.handler.Register, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, msgRegistered, resp["message"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "token")

	rec = post(t, env.handler.Register, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already exists", decode(t, rec)["errorMessage"])
}

func TestAuthHandler_Register_Failures(t *testing.T) {
	env := newAuthEnv(t)

	rec := post(t, env.handler.Register, `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidBody, decode(t, rec)["errorMessage"])

	rec = post(t, env.handler.Register, `{"firstName":"Ada","lastName":"L","email":"a@b.com","password":"Abcd123!",
		"confirmPassword":"Abcd123?","address":"x","phone":"y"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "passwords do not match", decode(t, rec)["errorMessage"])
	assert.Equal(t, 0, env.users.Count())

	env.users.FindByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return nil, errors.New("mongo: no reachable servers")
	}
	rec = post(t, env.handler.Register, `{"firstName":"Ada","lastName":"L","email":"a@b.com","password":"Abcd123!",
		"confirmPassword":"Abcd123!","address":"x","phone":"y"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgServerError, decode(t, rec)["errorMessage"])
	assert.NotContains(t, rec.Body.String(), "mongo")
}

func TestAuthHandler_Login(t *testing.T) {
	env := newAuthEnv(t)
	seeded := env.seed(t, "ada@example.com")

	rec := post(t, env.handler.Login, `{"email":"ADA@example.com","password":"Abcd123!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, seeded.ID, resp.User.ID)
	assert.Equal(t, "user", resp.User.Role)
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestAuthHandler_Login_ResponsesDoNotRevealAccounts(t *testing.T) {
	env := newAuthEnv(t)
	env.seed(t, "ada@example.com")

	unknown := post(t, env.handler.Login, `{"email":"nobody@example.com","password":"Abcd123!"}`)
	wrong := post(t, env.handler.Login, `{"email":"ada@example.com","password":"Wrong123!"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.Bytes(), wrong.Body.Bytes())
	assert.JSONEq(t, `{"errorMessage":"incorrect email or password"}`, unknown.Body.String())
}

func TestAuthHandler_ForgotPassword_ResponsesDoNotRevealAccounts(t *testing.T) {
	env := newAuthEnv(t)
	env.seed(t, "ada@example.com")

	unknown := post(t, env.handler.ForgotPassword, `{"email":"nobody@example.com"}`)
	known := post(t, env.handler.ForgotPassword, `{"email":"ada@example.com"}`)

	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, unknown.Code, known.Code)
	assert.Equal(t, unknown.Body.Bytes(), known.Body.Bytes())
	assert.Equal(t, 1, env.users.SetResetTokenCalls)
	assert.Len(t, env.notifier.ResetEvents, 1)

	rec := post(t, env.handler.ForgotPassword, `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec), "errorMessage")
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	env := newAuthEnv(t)
	seeded := env.seed(t, "ada@example.com")
	post(t, env.handler.ForgotPassword, `{"email":"ada@example.com"}`)
	token := env.users.Get(seeded.ID).ResetPasswordToken
	require.NotEmpty(t, token)

	body := `{"token":"` + token + `","password":"Newpass1!","confirmPassword":"Newpass1!"}`

	rec := post(t, env.handler.ResetPassword, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "message")

	rec = post(t, env.handler.ResetPassword, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reset token is invalid or has expired", decode(t, rec)["errorMessage"])

	rec = post(t, env.handler.Login, `{"email":"ada@example.com","password":"Newpass1!"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func withUser(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := newAuthEnv(t)
	seeded := env.seed(t, "ada@example.com")

	rec := httptest.NewRecorder()
	env.handler.Refresh(rec, withUser(httptest.NewRequest(http.MethodPost, "/", nil), seeded.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["token"])

	rec = httptest.NewRecorder()
	env.handler.Refresh(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	env.handler.Refresh(rec, withUser(httptest.NewRequest(http.MethodPost, "/", nil), "gone"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_Me(t *testing.T) {
	env := newAuthEnv(t)
	seeded := env.seed(t, "ada@example.com")
	h := NewUserHandler(env.service, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Me(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), seeded.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])

	rec = httptest.NewRecorder()
	h.Me(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), "missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

var productRowColumns = []string{
	"id", "brand", "model", "slug", "id_category", "price", "monthly", "badge", "image",
	"description", "specifications", "category_name", "category_slug", "available_stock",
}

func newProductHandler(t *testing.T) (*ProductHandler, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	svc := services.NewProductService(conn, db.MySQL, zerolog.Nop())
	return NewProductHandler(svc, zerolog.Nop()), mock
}

func serveProducts(h *ProductHandler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/products", h.List).Methods("GET")
	r.HandleFunc("/api/products/{slug}", h.Get).Methods("GET")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestProductHandler_List(t *testing.T) {
	h, mock := newProductHandler(t)
	mock.ExpectQuery("FROM products_with_stock WHERE 1=1 AND category_slug = \\?").
		WithArgs("basses").
		WillReturnRows(sqlmock.NewRows(productRowColumns).AddRow(
			int64(3), "Fender", "Jazz Bass", "fender-jazz-bass", int64(2), []byte("1299.00"), nil, nil,
			"jazz.jpg", "Alder body", nil, "Basses", "basses", int64(1)))

	rec := serveProducts(h, "/api/products?category=basses")
	require.Equal(t, http.StatusOK, rec.Code)

	products := decode(t, rec)["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "fender-jazz-bass", products[0].(map[string]interface{})["slug"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductHandler_List_EmptyIsArray(t *testing.T) {
	h, mock := newProductHandler(t)
	mock.ExpectQuery("FROM products_with_stock").WillReturnRows(sqlmock.NewRows(productRowColumns))

	rec := serveProducts(h, "/api/products?search=theremin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[]}`, rec.Body.String())
}

func TestProductHandler_List_DatabaseErrorIsGeneric(t *testing.T) {
	h, mock := newProductHandler(t)
	mock.ExpectQuery("FROM products_with_stock").WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	rec := serveProducts(h, "/api/products")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"failed to fetch products","error":"internal server error"}`, rec.Body.String())
}

func TestProductHandler_Get(t *testing.T) {
	h, mock := newProductHandler(t)
	mock.ExpectQuery("WHERE slug = \\?").WithArgs("nonexistent-slug").WillReturnRows(sqlmock.NewRows(productRowColumns))

	rec := serveProducts(h, "/api/products/nonexistent-slug")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"product not found"}`, rec.Body.String())

	mock.ExpectQuery("WHERE slug = \\?").WithArgs("fender-jazz-bass").
		WillReturnRows(sqlmock.NewRows(productRowColumns).AddRow(
			int64(3), "Fender", "Jazz Bass", "fender-jazz-bass", int64(2), []byte("1299.00"), nil, nil,
			"jazz.jpg", "Alder body", nil, "Basses", "basses", int64(1)))

	rec = serveProducts(h, "/api/products/fender-jazz-bass")
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode(t, rec)["product"].(map[string]interface{})
	assert.Equal(t, "Jazz Bass", product["model"])
	assert.Equal(t, 1299.0, product["price"])
}

func TestContactHandler_Submit(t *testing.T) {
	contacts := mocks.NewMockContactStore()
	notifier := mocks.NewMockNotifier()
	h := NewContactHandler(services.NewContactService(contacts, notifier, zerolog.Nop()), zerolog.Nop())

	rec := post(t, h.Submit, `{"firstname":"Jimi","lastname":"Hendrix","email":"jimi@example.com","message":"Hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"message sent successfully"}`, rec.Body.String())
	assert.Len(t, notifier.ContactEvents, 1)

	rec = post(t, h.Submit, `{"firstname":"Jimi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	notifier.ContactReceivedFunc = func(ctx context.Context, evt models.ContactEvent) error {
		return errors.New("smtp down")
	}
	rec = post(t, h.Submit, `{"firstname":"Jimi","lastname":"Hendrix","email":"jimi@example.com","content":"Hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"failed to send message"}`, rec.Body.String())
}

func newFavoriteRouter() *mux.Router {
	products := mocks.NewMockProductLookup(models.Product{ID: 7, Slug: "fender-player-stratocaster"})
	h := NewFavoriteHandler(services.NewFavoriteService(mocks.NewMockFavoriteStore(), products, zerolog.Nop()), zerolog.Nop())

	r := mux.NewRouter()
	r.HandleFunc("/api/favorites", h.List).Methods("GET")
	r.HandleFunc("/api/favorites", h.Add).Methods("POST")
	r.HandleFunc("/api/favorites/{productId}", h.Remove).Methods("DELETE")
	return r
}

func serveAs(r http.Handler, userID, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = withUser(req, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestFavoriteHandler(t *testing.T) {
	r := newFavoriteRouter()

	rec := serveAs(r, "u1", http.MethodPost, "/api/favorites", `{"productId":7}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serveAs(r, "u1", http.MethodPost, "/api/favorites", `{"productId":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serveAs(r, "u1", http.MethodPost, "/api/favorites", `{"productId":99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveAs(r, "u1", http.MethodGet, "/api/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["favorites"], 1)

	rec = serveAs(r, "u1", http.MethodDelete, "/api/favorites/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serveAs(r, "u1", http.MethodDelete, "/api/favorites/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serveAs(r, "u1", http.MethodDelete, "/api/favorites/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveAs(r, "", http.MethodGet, "/api/favorites", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReviewHandler(t *testing.T) {
	products := mocks.NewMockProductLookup(models.Product{ID: 7, Slug: "fender-player-stratocaster"})
	h := NewReviewHandler(services.NewReviewService(mocks.NewMockReviewStore(), products, zerolog.Nop()), zerolog.Nop())

	r := mux.NewRouter()
	r.HandleFunc("/api/products/{slug}/reviews", h.List).Methods("GET")
	r.HandleFunc("/api/products/{slug}/reviews", h.Create).Methods("POST")

	rec := serveAs(r, "u1", http.MethodPost, "/api/products/fender-player-stratocaster/reviews", `{"rating":5,"comment":"Superbe"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serveAs(r, "u1", http.MethodPost, "/api/products/fender-player-stratocaster/reviews", `{"rating":9,"comment":"?"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rating must be between 1 and 5", decode(t, rec)["message"])

	rec = serveAs(r, "", http.MethodGet, "/api/products/fender-player-stratocaster/reviews", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["reviews"], 1)

	rec = serveAs(r, "", http.MethodGet, "/api/products/unknown/reviews", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
