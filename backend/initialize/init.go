package initialize

import (
	"fmt"
	"net/http"

	"star-songs/backend/app/controllers"
	"star-songs/backend/app/db"
	jwtutil "star-songs/backend/app/jwt"
	"star-songs/backend/app/middleware"
	"star-songs/backend/app/repo"
	"star-songs/backend/app/services"
	"star-songs/backend/app/throttle"
	"star-songs/backend/config"
	"star-songs/backend/global"
	"star-songs/backend/router"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Router  http.Handler
	Auth    *services.AuthService
	Admin   *services.AdminService
	Catalog *services.CatalogService
}

func Build(configPath string) (*App, error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = cfg
	SetLogLevel(cfg.Log.Level)

	// Connect DB
	gdb, err := db.Connect(db.Config{
		Driver:          cfg.DB.Driver,
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Pass,
		DBName:          cfg.DB.Name,
		Path:            cfg.DB.Path,
		MaxRetries:      cfg.DB.MaxRetries,
		RetryDelay:      cfg.DB.RetryDelay,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	// Migrate
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Login throttle: redis when configured, in-process otherwise
	var th throttle.Throttle
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		global.Rdb = rdb
		th = throttle.NewRedis(rdb, cfg.Auth.Throttle.MaxFailures, cfg.Auth.Throttle.Window)
	} else {
		th = throttle.NewMemory(cfg.Auth.Throttle.MaxFailures, cfg.Auth.Throttle.Window)
	}

	// Services
	artistRepo := repo.NewArtistRepository(gdb)
	songRepo := repo.NewSongRepository(gdb)
	userRepo := repo.NewUserRepository(gdb)
	tokenRepo := repo.NewRefreshTokenRepository(gdb)

	signer := &jwtutil.Signer{Secret: []byte(cfg.Auth.Secret), Issuer: cfg.Auth.Issuer, AccessMin: cfg.Auth.AccessMin, RefreshDays: cfg.Auth.RefreshDays}
	catalogSvc := services.NewCatalogService(artistRepo, songRepo)
	authSvc := services.NewAuthService(userRepo, tokenRepo, signer, th, cfg.Auth.BcryptCost)
	adminSvc := services.NewAdminService(userRepo, authSvc)
	if err := authSvc.EnsureAdmin(cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		global.Logger.Warn().Err(err).Msg("admin seed failed")
	}

	// Controllers
	healthCtrl := controllers.NewHealthController(gdb, rdb)
	artistCtrl := controllers.NewArtistController(catalogSvc)
	songCtrl := controllers.NewSongController(catalogSvc)
	authCtrl := controllers.NewAuthController(authSvc)
	adminCtrl := controllers.NewAdminController(adminSvc)
	mw := &middleware.Auth{Signer: signer, Accounts: authSvc}

	// Router
	h := router.NewRouter(healthCtrl, artistCtrl, songCtrl, authCtrl, adminCtrl, mw, router.Config{AuthRPS: cfg.Auth.RateLimit.RPS, AuthBurst: cfg.Auth.RateLimit.Burst})
	// Wrap with CORS and logging middleware
	h = middleware.CORS(cfg.Server.CORSOrigins)(h)
	h = middleware.Logging(h)

	return &App{Cfg: cfg, DB: gdb, Router: h, Auth: authSvc, Admin: adminSvc, Catalog: catalogSvc}, nil
}
