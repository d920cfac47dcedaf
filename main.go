package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/access"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/activity"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/auth"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/config"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/documents"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/export"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/facilities"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/handlers/api"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/handlers/web"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/csrf"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/iprestrict"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/resources"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/security"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/settings"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/store"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/users"
	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/Izumi-Yuya/shicecal-sub015/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/gofiber/template/html/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

//go:embed templates/*.html templates/errors/*.html
var templateFS embed.FS

var (
	app       *cli.App
	gitCommit string
	gitDate   string
	gitTag    string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "shisecal - facility document management service"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Printf("shisecal %s (%s %s)\n", gitTag, gitCommit, gitDate)
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitHtmlEngine(templateDir string) *html.Engine {
	if templateDir != "" {
		return html.NewFileSystem(http.Dir(templateDir), ".html")
	}
	renderFS, _ := fs.Sub(templateFS, "templates")
	return html.NewFileSystem(http.FS(renderFS), ".html")
}

func mustInitRedisStorage(redisCfg config.RedisConfig) *redis.Storage {
	return redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	debug := cfg.Debug || ctx.IsSet(debugFlag.Name)
	mustInitLogger(debug)
	securityLogger := slog.Default().With("channel", "security")

	db := mustInitDatabase(cfg.MySQL)

	// storage backends: redis in production, in-process memory otherwise
	var sessionStorage fiber.Storage
	var counterStorage store.Storage
	var redisStorage *redis.Storage
	if cfg.Redis.URL != "" {
		redisStorage = mustInitRedisStorage(cfg.Redis)
		sessionStorage = redisStorage
		// namespace the counters, the redis instance may be shared
		counterStorage = store.StorageWithPrefix(store.NewRedisStorage(redisStorage.Conn()), "shisecal:")
	} else {
		slog.Warn("Redis not configured, using in-process storage")
		sessionStorage = memory.New()
		counterStorage = store.NewMemoryStorage()
	}

	// repositories
	var (
		userRepo      = users.NewUserRepository(db)
		facilityRepo  = facilities.NewFacilityRepository(db)
		grantRepo     = facilities.NewAccessRepository(db)
		folderRepo    = documents.NewFolderRepository(db)
		fileRepo      = documents.NewFileRepository(db)
		activityRepo  = activity.NewRepository(db)
		settingsRepo  = settings.NewRepository(db)
		resourceRepos = resources.NewRepositories(db)
	)

	// services
	var (
		userService     = users.NewUserService(userRepo)
		documentService = documents.NewDocumentService(folderRepo, fileRepo, cfg.UploadDir)
		activityService = activity.NewService(activityRepo)
		settingsService = settings.NewService(settingsRepo)
		exportService   = export.NewService(db)
		tokenIssuer     = auth.NewTokenIssuer(cfg.TokenSecret, cfg.SiteName)
	)

	// access control and policies
	accessControl := access.NewAccessControl(grantRepo)
	policies := access.NewPolicies(accessControl)
	if debug {
		traceHook := func(d access.Decision) {
			slog.Debug("policy decision", "policy", d.Policy, "action", d.Action,
				"user_id", d.UserID, "facility_id", d.FacilityID, "allowed", d.Allowed)
		}
		policies.Contract = access.WithTrace("contract", policies.Contract, traceHook)
	}

	// security pipeline
	securityEvents := security.NewEventLogger(securityLogger, slog.Default())
	documentSecurity := security.New(security.Config{
		Events:   securityEvents,
		Limiter:  security.NewLimiter(counterStorage),
		Detector: security.NewSuspiciousDetector(counterStorage),
	})

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		Views:         mustInitHtmlEngine(cfg.TemplateDir),
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-CSRF-TOKEN, X-Requested-With",
	}))
	router.Use(iprestrict.New(iprestrict.Config{
		Provider: settingsService,
		Skip:     cfg.IsLocal(),
	}))
	router.Use(sessions.New(sessions.Config{
		Storage:        sessionStorage,
		SessionMaxAge:  cfg.Session.SessionMaxAge,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHttpOnly: cfg.Session.CookieHttpOnly,
		CookieName:     cfg.Session.CookieName,
	}))
	router.Use(auth.TokenAuth(tokenIssuer))
	router.Use(activity.Middleware(activityService))

	// handlers
	var (
		loginHandler      = web.NewLoginHandler(userService)
		apiAuthHandler    = api.NewAuthHandler(userService, tokenIssuer)
		documentsHandler  = api.NewDocumentsHandler(documentService, policies.Document)
		exportHandler     = api.NewExportHandler(exportService, policies.Maintenance)
		adminHandler      = api.NewAdminHandler(activityService, settingsService)
		facilitiesHandler = api.NewFacilitiesHandler(facilityRepo)
	)

	// web routes
	router.Static("/static", cfg.StaticDir)
	router.Use(csrf.New(csrf.Config{}))
	router.Get("/", loginHandler.GetHome)
	router.Get("/login", loginHandler.GetLogin)
	router.Post("/login", loginHandler.PostLogin)
	router.Post("/logout", loginHandler.PostLogout)
	router.Post("/api/token", apiAuthHandler.PostToken)

	// facility-scoped routes
	authed := middlewares.RequireRole(userService)
	facilitiesHandler.Register(router.Group("/facilities", authed))
	facilityGroup := router.Group("/facilities/:facility")
	documentsHandler.Register(facilityGroup.Group("/documents", documentSecurity, authed))
	exportHandler.Register(facilityGroup.Group("/export", authed))

	api.NewResourceHandler(resourceRepos.LandInfo, policies.LandInfo,
		func(r *model.LandInfo) uint { return r.FacilityID },
		[]string{"parcel_number", "site_area", "building_area", "ownership"},
	).Register(facilityGroup.Group("/land-info", authed))
	api.NewResourceHandler(resourceRepos.Lifeline, policies.Lifeline,
		func(r *model.LifelineEquipment) uint { return r.FacilityID },
		[]string{"category", "vendor", "model_number"},
	).Register(facilityGroup.Group("/lifeline-equipment", authed))
	api.NewResourceHandler(resourceRepos.Maintenance, policies.Maintenance,
		func(r *model.MaintenanceHistory) uint { return r.FacilityID },
		[]string{"title", "detail", "cost"},
	).Register(facilityGroup.Group("/maintenance", authed))
	api.NewResourceHandler(resourceRepos.Contract, policies.Contract,
		func(r *model.Contract) uint { return r.FacilityID },
		[]string{"title", "vendor", "auto_renew"},
	).Register(facilityGroup.Group("/contracts", authed))
	api.NewResourceHandler(resourceRepos.Drawing, policies.Drawing,
		func(r *model.Drawing) uint { return r.FacilityID },
		[]string{"title", "drawing_number"},
	).Register(facilityGroup.Group("/drawings", authed))

	// admin routes
	adminHandler.Register(router.Group("/admin",
		middlewares.RequireRole(userService, model.RoleAdmin, model.RoleApprover)))

	var redisConn goredis.UniversalClient
	if redisStorage != nil {
		redisConn = redisStorage.Conn()
	}
	go startHealthCheckServer(params.HealthCheckServerAddr, redisConn, db)
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
