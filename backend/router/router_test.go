package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"star-songs/backend/app/controllers"
	"star-songs/backend/app/db"
	"star-songs/backend/app/dto"
	jwtutil "star-songs/backend/app/jwt"
	"star-songs/backend/app/middleware"
	"star-songs/backend/app/repo"
	"star-songs/backend/app/services"
	"star-songs/backend/app/throttle"
	"star-songs/backend/global"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	global.Logger = zerolog.New(io.Discard)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	signer := &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "star-songs-test", AccessMin: 15, RefreshDays: 7}
	artistRepo := repo.NewArtistRepository(gdb)
	songRepo := repo.NewSongRepository(gdb)
	userRepo := repo.NewUserRepository(gdb)
	tokenRepo := repo.NewRefreshTokenRepository(gdb)

	catalogSvc := services.NewCatalogService(artistRepo, songRepo)
	authSvc := services.NewAuthService(userRepo, tokenRepo, signer, throttle.NewMemory(100, time.Minute), bcrypt.MinCost)
	adminSvc := services.NewAdminService(userRepo, authSvc)
	if err := authSvc.EnsureAdmin("admin", "admin@example.com", "super-secret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	h := NewRouter(
		controllers.NewHealthController(gdb, nil),
		controllers.NewArtistController(catalogSvc),
		controllers.NewSongController(catalogSvc),
		controllers.NewAuthController(authSvc),
		controllers.NewAdminController(adminSvc),
		&middleware.Auth{Signer: signer, Accounts: authSvc},
		Config{AuthRPS: 0, AuthBurst: 0},
	)
	h = middleware.CORS([]string{"*"})(h)
	h = middleware.Logging(h)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, in any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func wantStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, body)
	}
}

func wantDetail(t *testing.T, body []byte, want string) {
	t.Helper()
	var er dto.ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("error body is not the envelope: %s", body)
	}
	if er.Detail != want {
		t.Errorf("expected detail %q, got %q", want, er.Detail)
	}
}

func login(t *testing.T, base, username, password string) dto.TokenResponse {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	wantStatus(t, resp, body, http.StatusOK)
	var tokens dto.TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		t.Fatalf("token body: %v", err)
	}
	return tokens
}

func TestServiceMetaAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/", "", nil)
	wantStatus(t, resp, body, http.StatusOK)
	var meta dto.ServiceInfoResponse
	if err := json.Unmarshal(body, &meta); err != nil || meta.Name != "star-songs" {
		t.Errorf("unexpected service meta: %s", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("responses must carry a request id")
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	wantStatus(t, resp, body, http.StatusOK)
	var h dto.HealthResponse
	if err := json.Unmarshal(body, &h); err != nil || h.Status != "healthy" {
		t.Errorf("unexpected health body: %s", body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/health/db", "", nil)
	wantStatus(t, resp, body, http.StatusOK)
	var dbh dto.DBHealthResponse
	if err := json.Unmarshal(body, &dbh); err != nil || dbh.Database != "connected" {
		t.Errorf("unexpected db health body: %s", body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/health/pool", "", nil)
	wantStatus(t, resp, body, http.StatusOK)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/no/such/route", "", nil)
	wantStatus(t, resp, body, http.StatusNotFound)
	wantDetail(t, body, "Not found")
}

func TestArtistContract(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/artists", "", dto.ArtistIn{Name: "David Bowie"})
	wantStatus(t, resp, body, http.StatusCreated)
	var created dto.ArtistOut
	if err := json.Unmarshal(body, &created); err != nil || created.ID == 0 {
		t.Fatalf("create body: %s", body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+fmt.Sprintf("/v1/artists/%d", created.ID), "", nil)
	wantStatus(t, resp, body, http.StatusOK)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/artists/9999", "", nil)
	wantStatus(t, resp, body, http.StatusNotFound)
	wantDetail(t, body, "Artist with id 9999 not found")

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/artists/abc", "", nil)
	wantStatus(t, resp, body, http.StatusUnprocessableEntity)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v1/artists", "", dto.ArtistIn{Name: "  "})
	wantStatus(t, resp, body, http.StatusUnprocessableEntity)

	// PUT creates at the given id
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/v1/artists/77", "", dto.ArtistIn{Name: "Muse"})
	wantStatus(t, resp, body, http.StatusOK)
	var upserted dto.ArtistOut
	if err := json.Unmarshal(body, &upserted); err != nil || upserted.ID != 77 {
		t.Fatalf("upsert body: %s", body)
	}

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/v1/artists/77", "", nil)
	wantStatus(t, resp, body, http.StatusNoContent)
	if len(body) != 0 {
		t.Errorf("delete must return an empty body, got %s", body)
	}
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/v1/artists/77", "", nil)
	wantStatus(t, resp, body, http.StatusNotFound)
	wantDetail(t, body, "Artist with id 77 not found")
}

func TestArtistPagination(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 12; i++ {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/artists", "", dto.ArtistIn{Name: fmt.Sprintf("Artist %02d", i)})
		wantStatus(t, resp, body, http.StatusCreated)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/artists?page=2&page_size=5", "", nil)
	wantStatus(t, resp, body, http.StatusOK)
	var page dto.Page[dto.ArtistOut]
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("page body: %v", err)
	}
	p := page.Pagination
	if p.TotalItems != 12 || p.TotalPages != 3 || !p.HasNext || !p.HasPrev || len(page.Items) != 5 {
		t.Errorf("unexpected pagination: %+v with %d items", p, len(page.Items))
	}

	// past the end: 200 with empty items
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/artists?page=9&page_size=5", "", nil)
	wantStatus(t, resp, body, http.StatusOK)
	if err := json.Unmarshal(body, &page); err != nil || len(page.Items) != 0 {
		t.Errorf("expected empty page, got %s", body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/artists?page=0", "", nil)
	wantStatus(t, resp, body, http.StatusUnprocessableEntity)
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/artists?page_size=500", "", nil)
	wantStatus(t, resp, body, http.StatusUnprocessableEntity)
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/artists?page=abc", "", nil)
	wantStatus(t, resp, body, http.StatusUnprocessableEntity)
}

func TestSongContract(t *testing.T) {
	srv := newTestServer(t)

	missing := 404
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/songs", "", dto.SongIn{Title: "Orphan", ArtistID: &missing})
	wantStatus(t, resp, body, http.StatusNotFound)
	wantDetail(t, body, "Artist with id 404 not found")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v1/artists", "", dto.ArtistIn{Name: "Elton John"})
	wantStatus(t, resp, body, http.StatusCreated)
	var artist dto.ArtistOut
	if err := json.Unmarshal(body, &artist); err != nil {
		t.Fatalf("artist body: %v", err)
	}

	released := dto.NewDate(time.Date(1972, 4, 17, 0, 0, 0, 0, time.UTC))
	distance := 0.0000158 // the song's rocket never left the solar system
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v1/songs", "", dto.SongIn{
		Title: "Rocket Man", ArtistID: &artist.ID, ReleaseDate: released, Distance: &distance,
	})
	wantStatus(t, resp, body, http.StatusCreated)
	var song dto.SongOut
	if err := json.Unmarshal(body, &song); err != nil {
		t.Fatalf("song body: %v", err)
	}
	if song.ReleaseDate == nil || song.ReleaseDate.String() != "1972-04-17" {
		t.Errorf("expected release_date 1972-04-17, got %s", body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+fmt.Sprintf("/v1/songs/%d", song.ID), "", nil)
	wantStatus(t, resp, body, http.StatusOK)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/songs/9999", "", nil)
	wantStatus(t, resp, body, http.StatusNotFound)
	wantDetail(t, body, "Song with id 9999 not found")

	resp, body = doJSON(t, http.MethodPut, srv.URL+fmt.Sprintf("/v1/songs/%d", song.ID), "", dto.SongIn{Title: "Rocket Man (Remaster)", ArtistID: &artist.ID})
	wantStatus(t, resp, body, http.StatusOK)

	resp, body = doJSON(t, http.MethodDelete, srv.URL+fmt.Sprintf("/v1/songs/%d", song.ID), "", nil)
	wantStatus(t, resp, body, http.StatusNoContent)
}

func TestAuthContract(t *testing.T) {
	srv := newTestServer(t)

	reg := dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "correct-horse"}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", reg)
	wantStatus(t, resp, body, http.StatusCreated)
	var u dto.UserResponse
	if err := json.Unmarshal(body, &u); err != nil || u.Role != "user" {
		t.Fatalf("register body: %s", body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", reg)
	wantStatus(t, resp, body, http.StatusBadRequest)
	wantDetail(t, body, "Username already registered")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", dto.LoginRequest{Username: "alice", Password: "wrong"})
	wantStatus(t, resp, body, http.StatusUnauthorized)
	wantDetail(t, body, "Incorrect username or password")

	tokens := login(t, srv.URL, "alice", "correct-horse")

	// me requires the access token
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/auth/me", "", nil)
	wantStatus(t, resp, body, http.StatusUnauthorized)
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/auth/me", tokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusOK)
	if err := json.Unmarshal(body, &u); err != nil || u.Username != "alice" {
		t.Errorf("me body: %s", body)
	}
	// a refresh token is not an access token
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/auth/me", tokens.RefreshToken, nil)
	wantStatus(t, resp, body, http.StatusUnauthorized)

	// rotation over HTTP
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/refresh", "", dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	wantStatus(t, resp, body, http.StatusOK)
	var rotated dto.TokenResponse
	if err := json.Unmarshal(body, &rotated); err != nil {
		t.Fatalf("refresh body: %v", err)
	}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/refresh", "", dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	wantStatus(t, resp, body, http.StatusUnauthorized)
	wantDetail(t, body, "Invalid refresh token")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/logout", "", dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	wantStatus(t, resp, body, http.StatusOK)
	var msg dto.MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil || msg.Message != "Logged out successfully" {
		t.Errorf("logout body: %s", body)
	}
}

func TestAdminRBAC(t *testing.T) {
	srv := newTestServer(t)

	reg := dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "correct-horse"}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", reg)
	wantStatus(t, resp, body, http.StatusCreated)

	// no token
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users", "", nil)
	wantStatus(t, resp, body, http.StatusUnauthorized)

	// non-admin token
	userTokens := login(t, srv.URL, "alice", "correct-horse")
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users", userTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusForbidden)
	wantDetail(t, body, "Admin privileges required")

	adminTokens := login(t, srv.URL, "admin", "super-secret")
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users", adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusOK)
	var list dto.UserListResponse
	if err := json.Unmarshal(body, &list); err != nil || list.Total != 2 {
		t.Errorf("expected 2 users, got %s", body)
	}

	// an explicit zero limit is out of range; only an absent one defaults
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users?limit=0", adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusUnprocessableEntity)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users?role=superuser", adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusBadRequest)
	wantDetail(t, body, "Invalid role: superuser")

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users/search/username/alice", adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusOK)
	var alice dto.UserResponse
	if err := json.Unmarshal(body, &alice); err != nil {
		t.Fatalf("search body: %v", err)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users/search/username/nobody", adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusNotFound)
	wantDetail(t, body, "User not found")

	// admin creates another admin via the role query param
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/admin/users?role=admin", adminTokens.AccessToken,
		dto.RegisterRequest{Username: "boss2", Email: "boss2@example.com", Password: "correct-horse"})
	wantStatus(t, resp, body, http.StatusCreated)
	var boss2 dto.UserResponse
	if err := json.Unmarshal(body, &boss2); err != nil || boss2.Role != "admin" {
		t.Errorf("expected admin role, got %s", body)
	}

	// self-delete refused
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/auth/me", adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusOK)
	var self dto.UserResponse
	if err := json.Unmarshal(body, &self); err != nil {
		t.Fatalf("me body: %v", err)
	}
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/admin/users/"+self.ID, adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusBadRequest)
	wantDetail(t, body, "Cannot delete your own account")

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/admin/users/"+alice.ID, adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusOK)
	var msg dto.MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil || msg.Message != "User alice deleted successfully" {
		t.Errorf("delete body: %s", body)
	}
}

func TestDisabledAccountLosesAccess(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		dto.RegisterRequest{Username: "mallory", Email: "mallory@example.com", Password: "correct-horse"})
	wantStatus(t, resp, body, http.StatusCreated)
	var mallory dto.UserResponse
	if err := json.Unmarshal(body, &mallory); err != nil {
		t.Fatalf("register body: %v", err)
	}
	malloryTokens := login(t, srv.URL, "mallory", "correct-horse")

	adminTokens := login(t, srv.URL, "admin", "super-secret")
	inactive := false
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/admin/users/"+mallory.ID, adminTokens.AccessToken,
		dto.UserUpdateRequest{IsActive: &inactive})
	wantStatus(t, resp, body, http.StatusOK)

	// the pre-disable access token stops working immediately
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/auth/me", malloryTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusForbidden)
	wantDetail(t, body, "User account is disabled")

	// a disabled admin is locked out of admin routes as well
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/admin/users?role=admin", adminTokens.AccessToken,
		dto.RegisterRequest{Username: "exboss", Email: "exboss@example.com", Password: "correct-horse"})
	wantStatus(t, resp, body, http.StatusCreated)
	var exboss dto.UserResponse
	if err := json.Unmarshal(body, &exboss); err != nil {
		t.Fatalf("create body: %v", err)
	}
	exbossTokens := login(t, srv.URL, "exboss", "correct-horse")
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/admin/users/"+exboss.ID, adminTokens.AccessToken,
		dto.UserUpdateRequest{IsActive: &inactive})
	wantStatus(t, resp, body, http.StatusOK)
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/users", exbossTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusForbidden)
	wantDetail(t, body, "User account is disabled")

	// a deleted account's token reads as an unknown user
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/admin/users/"+mallory.ID, adminTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusOK)
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/auth/me", malloryTokens.AccessToken, nil)
	wantStatus(t, resp, body, http.StatusUnauthorized)
	wantDetail(t, body, "User not found")
}

func TestAuthRateLimit(t *testing.T) {
	srv := newTestServerWithRate(t, 1, 2)

	// the bucket holds 2; the third immediate request trips the limiter
	var last *http.Response
	var lastBody []byte
	for i := 0; i < 3; i++ {
		last, lastBody = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", dto.LoginRequest{Username: "x", Password: "y"})
	}
	wantStatus(t, last, lastBody, http.StatusTooManyRequests)
}

func newTestServerWithRate(t *testing.T, rps float64, burst int) *httptest.Server {
	t.Helper()
	global.Logger = zerolog.New(io.Discard)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	signer := &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "star-songs-test", AccessMin: 15, RefreshDays: 7}
	userRepo := repo.NewUserRepository(gdb)
	authSvc := services.NewAuthService(userRepo, repo.NewRefreshTokenRepository(gdb), signer, throttle.NewMemory(100, time.Minute), bcrypt.MinCost)
	catalogSvc := services.NewCatalogService(repo.NewArtistRepository(gdb), repo.NewSongRepository(gdb))

	h := NewRouter(
		controllers.NewHealthController(gdb, nil),
		controllers.NewArtistController(catalogSvc),
		controllers.NewSongController(catalogSvc),
		controllers.NewAuthController(authSvc),
		controllers.NewAdminController(services.NewAdminService(userRepo, authSvc)),
		&middleware.Auth{Signer: signer, Accounts: authSvc},
		Config{AuthRPS: rps, AuthBurst: burst},
	)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
