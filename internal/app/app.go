// README: Composition root; builds the resolver, token cache, airline client, dispatcher, audit sink and chat service from Config.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"airchat/internal/ai"
	"airchat/internal/config"
	httptransport "airchat/internal/http"
	"airchat/internal/infra"
	"airchat/internal/modules/airline"
	"airchat/internal/modules/chat"
	"airchat/internal/modules/chatlog"
	"airchat/internal/modules/dispatch"
	"airchat/internal/modules/token"
)

type App struct {
	Config     config.Config
	Logger     *zap.Logger
	Resolver   ai.IntentResolver
	Dispatcher *dispatch.Service
	Chat       *chat.Service

	closers []func()
}

// New wires every component. Call Close when done, also after an error.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	resolver, err := a.newResolver(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Resolver = resolver

	store, err := a.newTokenStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	apiURL := cfg.Airline.APIURL()
	loginClient := airline.NewClient(apiURL, cfg.Airline.Timeout, nil, logger.Named("airline"))
	tokens := token.NewCache(
		airline.NewAuthenticator(loginClient, cfg.Airline.Username, cfg.Airline.Password),
		store,
		token.WithTTL(cfg.Airline.TokenTTL),
		token.WithLogger(logger.Named("token")),
	)
	client := airline.NewClient(apiURL, cfg.Airline.Timeout, tokens, logger.Named("airline"))
	a.Dispatcher = dispatch.NewService(client, dispatch.WithLogger(logger.Named("dispatch")))

	sink, err := a.newAuditSink(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	recorder := chatlog.NewRecorder(sink, cfg.Audit.Timeout, chatlog.WithLogger(logger.Named("chatlog")))

	a.Chat = chat.NewService(resolver, a.Dispatcher, recorder, logger.Named("chat"))

	logger.Info("app ready",
		zap.String("airline", apiURL),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("token_store", cfg.Tokens.Store),
		zap.String("audit_sink", sink.Name()),
	)
	return a, nil
}

// Handler returns the HTTP routes for the chat service.
func (a *App) Handler() *gin.Engine {
	return httptransport.NewRouter(a.Chat, a.Logger.Named("http"))
}

// Close releases clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) newResolver(ctx context.Context) (ai.IntentResolver, error) {
	cfg := a.Config.AI
	prompt, err := ai.LoadPrompt(cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	opts := ai.Options{
		Prompt:      prompt,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts.APIKey = cfg.OpenAIKey
		opts.Model = cfg.OpenAIModel
		opts.BaseURL = cfg.OpenAIBaseURL
		r, err := ai.NewOpenAIResolver(opts)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.ProviderGemini:
		opts.APIKey = cfg.GeminiKey
		opts.Model = cfg.GeminiModel
		r, err := ai.NewGeminiResolver(ctx, opts)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

func (a *App) newTokenStore(ctx context.Context) (token.Store, error) {
	switch a.Config.Tokens.Store {
	case config.TokenStoreMemory, "":
		return token.NewMemoryStore(), nil
	case config.TokenStoreRedis:
		rdb, err := infra.NewRedis(ctx, a.Config.Redis.Addr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		return token.NewRedisStore(rdb, a.Config.Tokens.RedisKey), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", a.Config.Tokens.Store)
	}
}

func (a *App) newAuditSink(ctx context.Context) (chatlog.Sink, error) {
	switch a.Config.Audit.Sink {
	case config.SinkNone, "":
		return chatlog.NopSink{}, nil
	case config.SinkFirebase:
		client, err := infra.NewFirebaseDatabase(ctx, a.Config.Firebase.DatabaseURL, a.Config.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return chatlog.NewFirebaseSink(client), nil
	case config.SinkPostgres:
		pool, err := infra.NewDB(ctx, a.Config.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		sink := chatlog.NewPostgresSink(pool)
		if err := sink.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown audit sink %q", a.Config.Audit.Sink)
	}
}
