package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funnel/config"
	"funnel/internal/agents"
	"funnel/internal/auth"
	"funnel/internal/categories"
	"funnel/internal/db"
	"funnel/internal/health"
	"funnel/internal/leads"
	"funnel/internal/logs"
	"funnel/internal/mailer"
	"funnel/internal/middleware"
	"funnel/internal/models"
	"funnel/internal/repo"
	"funnel/internal/web"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(
			&models.User{},
			&models.Organization{},
			&models.Agent{},
			&models.Category{},
			&models.Lead{},
		); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	// stores: gorm-backed with a DB, shared in-memory without one
	var (
		userStore  auth.UserStore
		leadStore  leads.Store
		agentStore agents.Store
		catStore   categories.Store
	)
	if a.db != nil {
		userStore = repo.NewUserStore(a.db)
		leadStore = repo.NewLeadStore(a.db)
		agentStore = repo.NewAgentStore(a.db)
		catStore = repo.NewCategoryStore(a.db)
	} else {
		mem := repo.NewMemory()
		userStore, leadStore, agentStore, catStore = mem, mem, mem, mem
	}

	var mail mailer.Mailer = mailer.Log{}
	if a.cfg.Mail.Host != "" {
		mail = mailer.NewSMTP(a.cfg.Mail.Host, a.cfg.Mail.Port)
	}

	tokens := auth.NewTokenIssuer(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL)
	authed := auth.RequireAuth(userStore, tokens)
	organisor := auth.RequireOrganisor(userStore, tokens)

	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router) // /healthz only
	}

	web.RegisterLanding(a.Router)
	auth.RegisterRoutes(a.Router, auth.NewHandler(userStore, tokens))
	leads.RegisterRoutes(a.Router,
		leads.NewHandler(leadStore, mail, a.cfg.Mail.From, a.cfg.Mail.NotifyAddress),
		authed, organisor)
	agents.RegisterRoutes(a.Router,
		agents.NewHandler(agentStore, mail, a.cfg.Mail.From),
		organisor)
	categories.RegisterRoutes(a.Router,
		categories.NewHandler(catStore),
		authed, organisor)

	// log the known routes at startup
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
