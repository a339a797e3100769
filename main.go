package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/attache-labs/attache/agent/agents/orchestrator"
	"github.com/attache-labs/attache/agent/assembler"
	"github.com/attache-labs/attache/agent/chat"
	"github.com/attache-labs/attache/agent/classifier"
	contractx "github.com/attache-labs/attache/agent/contract"
	"github.com/attache-labs/attache/agent/directory"
	"github.com/attache-labs/attache/agent/extractor"
	llmx "github.com/attache-labs/attache/agent/llm"
	"github.com/attache-labs/attache/agent/profile"
	promptx "github.com/attache-labs/attache/agent/prompt"
	"github.com/attache-labs/attache/agent/qa"
	"github.com/attache-labs/attache/agent/resolver"
	"github.com/attache-labs/attache/agent/search"
	statex "github.com/attache-labs/attache/agent/state"
	bingsearchx "github.com/attache-labs/attache/pkg/bingsearch"
	configx "github.com/attache-labs/attache/pkg/config"
	gcalendarx "github.com/attache-labs/attache/pkg/gcalendar"
	_ "github.com/attache-labs/attache/pkg/logger/autoload"
	mailerx "github.com/attache-labs/attache/pkg/mailer"
	serverx "github.com/attache-labs/attache/server"
)

type AppConfig struct {
	SessionBackend string `split_words:"true" default:"memory"` // memory | upstash
	ContactBackend string `split_words:"true" default:"file"`   // file | postgres
	ContactsPath   string `split_words:"true" default:"data/contacts.json"`
	PostgresDSN    string `envconfig:"POSTGRES_DSN"`
	ProfilePath    string `split_words:"true" default:"data/profile.json"`

	MailerEnabled   bool `split_words:"true"`
	CalendarEnabled bool `split_words:"true"`
}

// defaultContacts seeds a fresh contact file so the resolver has something
// to work with before the first upsert.
var defaultContacts = map[string]string{
	"Jeff": "jeff@tamu.edu",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("APP")

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	gateway, err := llmx.NewGateway(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize model gateway")
	}

	store := newSessionStore(appCfg)
	dir := newContactDirectory(ctx, appCfg)

	profileSrc, err := profile.NewFileSource(appCfg.ProfilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("load sender profile")
	}

	prompts := promptx.Load()

	contactResolver, err := resolver.New(gateway, dir, prompts)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize contact resolver")
	}

	bingCfg := configx.MustNew[bingsearchx.Config]("BING")
	searcher, err := bingsearchx.NewClient(*bingCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize web search client")
	}

	orch, err := orchestrator.New(
		store,
		classifier.New(gateway, prompts),
		extractor.New(gateway, prompts),
		assembler.New(contactResolver, profileSrc),
		chat.New(gateway, prompts),
		search.New(gateway, searcher, prompts),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize orchestrator")
	}

	var mailer contractx.EmailTransport
	if appCfg.MailerEnabled {
		smtpCfg := configx.MustNew[mailerx.Config]("SMTP")
		sender, err := mailerx.NewSender(*smtpCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize smtp sender")
		}
		mailer = sender
	}

	var calendar contractx.Calendar
	if appCfg.CalendarEnabled {
		calCfg := configx.MustNew[gcalendarx.Config]("GCAL")
		client, err := gcalendarx.NewClient(ctx, *calCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize calendar client")
		}
		calendar = client
	}

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	srv, err := serverx.New(*serverCfg, orch, qa.New(gateway, prompts), contactResolver.Directory(), mailer, calendar)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize http server")
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("shutdown complete")
}

func newSessionStore(cfg *AppConfig) statex.Store {
	switch cfg.SessionBackend {
	case "upstash":
		redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH")
		store, err := statex.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize upstash session store")
		}
		return store
	case "memory":
		return statex.NewMemoryStore()
	default:
		log.Fatal().Str("backend", cfg.SessionBackend).Msg("unknown session backend")
		return nil
	}
}

func newContactDirectory(ctx context.Context, cfg *AppConfig) contractx.Directory {
	switch cfg.ContactBackend {
	case "postgres":
		store, err := directory.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize postgres contact directory")
		}
		return store
	case "file":
		store, err := directory.NewFileStore(cfg.ContactsPath, defaultContacts)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize file contact directory")
		}
		return store
	default:
		log.Fatal().Str("backend", cfg.ContactBackend).Msg("unknown contact backend")
		return nil
	}
}
