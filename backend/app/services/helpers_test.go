package services

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"star-songs/backend/app/db"
	jwtutil "star-songs/backend/app/jwt"
	"star-songs/backend/app/repo"
	"star-songs/backend/app/throttle"
	"star-songs/backend/global"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	global.Logger = zerolog.New(io.Discard)
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestCatalog(t *testing.T) *CatalogService {
	t.Helper()
	gdb := newTestDB(t)
	return NewCatalogService(repo.NewArtistRepository(gdb), repo.NewSongRepository(gdb))
}

func testSigner() *jwtutil.Signer {
	return &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "star-songs-test", AccessMin: 15, RefreshDays: 7}
}

func newTestAuth(t *testing.T, maxFailures int) (*AuthService, *AdminService) {
	t.Helper()
	gdb := newTestDB(t)
	users := repo.NewUserRepository(gdb)
	tokens := repo.NewRefreshTokenRepository(gdb)
	th := throttle.NewMemory(maxFailures, time.Minute)
	auth := NewAuthService(users, tokens, testSigner(), th, bcrypt.MinCost)
	return auth, NewAdminService(users, auth)
}
