package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/CodeMaverick-143/Project-Manager/internal/api/http"
	apimw "github.com/CodeMaverick-143/Project-Manager/internal/api/http/middleware"
	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
	authhttp "github.com/CodeMaverick-143/Project-Manager/internal/auth/http"
	authmw "github.com/CodeMaverick-143/Project-Manager/internal/auth/middleware"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/cache"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/collection"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/form"
	projecthttp "github.com/CodeMaverick-143/Project-Manager/internal/projects/http"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/repository"
	"github.com/CodeMaverick-143/Project-Manager/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *pgxpool.Pool
	LegacyDB       *sql.DB
	Redis          *redis.Client
	Provider       auth.Provider
	Uploader       form.Uploader
	MaxUploadBytes int64
	AllowOrigins   []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestID())

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = dep.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(apimw.RateLimit(30, 10))
	authhttp.New(dep.Provider).Register(authGroup, dep.Provider)

	var store cache.Store = repository.NewRepo(dep.DB)
	if dep.Redis != nil {
		store = cache.NewListCache(store, dep.Redis)
	}
	manager := collection.NewManager(store)

	userRepo := users.NewRepo(dep.LegacyDB)

	projectsGroup := api.Group("/projects")
	projectsGroup.Use(authmw.RequireSession(dep.Provider))
	projectsGroup.Use(auth.WithUser(userRepo))
	projecthttp.New(manager, dep.Uploader, dep.MaxUploadBytes).Register(projectsGroup)

	return r
}
