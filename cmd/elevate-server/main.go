package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-elevate/pkg/dispatch"
	"github.com/tendant/simple-elevate/pkg/elevate"
	"github.com/tendant/simple-elevate/pkg/elevate/api"
	"github.com/tendant/simple-elevate/pkg/identity"
	"github.com/tendant/simple-elevate/pkg/params"
	"github.com/tendant/simple-elevate/pkg/session"
)

type ElevateDbConfig struct {
	Host     string `env:"ELEVATE_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"ELEVATE_PG_PORT" env-default:"5432"`
	Database string `env:"ELEVATE_PG_DATABASE" env-default:"elevate_db"`
	User     string `env:"ELEVATE_PG_USER" env-default:"elevate"`
	Password string `env:"ELEVATE_PG_PASSWORD" env-default:"pwd"`
}

type JwtConfig struct {
	JwtSecret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
}

type ElevateConfig struct {
	SessionRole      string `env:"ELEVATE_SESSION_ROLE" env-default:"app"`
	LogStatement     string `env:"ELEVATE_LOG_STATEMENT" env-default:"none"`
	BlockAlterSystem bool   `env:"ELEVATE_BLOCK_ALTER_SYSTEM" env-default:"false"`
	BlockCopyProgram bool   `env:"ELEVATE_BLOCK_COPY_PROGRAM" env-default:"false"`
}

func (d ElevateDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type Config struct {
	ElevateDbConfig ElevateDbConfig
	AppConfig       app.AppConfig
	JwtConfig       JwtConfig
	ElevateConfig   ElevateConfig
}

func main() {

	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.ElevateDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	registry := identity.NewPostgresRegistry(pool)

	store := params.NewInMemoryStore()
	store.DefineString(elevate.LogStatementParameter, "Sets the type of statements logged", config.ElevateConfig.LogStatement, params.PrivilegeSuperuser)
	elevate.DefinePolicyParameters(store)

	// Apply the policy switches from the environment, reload-style.
	err = store.Reload(map[string]string{
		elevate.BlockAlterSystemParameter: strconv.FormatBool(config.ElevateConfig.BlockAlterSystem),
		elevate.BlockCopyProgramParameter: strconv.FormatBool(config.ElevateConfig.BlockCopyProgram),
	})
	if err != nil {
		slog.Error("Failed applying policy switches", "err", err)
		os.Exit(-1)
	}

	sessionRole, err := registry.Lookup(context.Background(), config.ElevateConfig.SessionRole)
	if err != nil {
		slog.Error("Failed resolving session role", "role", config.ElevateConfig.SessionRole, "err", err)
		os.Exit(-1)
	}
	sess := session.New(sessionRole)

	elevateService := elevate.NewService(registry, store, sess)

	chain := dispatch.NewChain(dispatch.NewPgxDispatcher(pool))
	chain.Install(elevate.NewGate(elevateService, store))

	elevateHandler := api.NewHandler(elevateService, chain)

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.JwtSecret), nil)

	server.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Route("/elevation", elevateHandler.RegisterRoutes)
	})

	server.Run()

}
