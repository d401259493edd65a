package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"

	"multilingual-bot/handler"
	"multilingual-bot/internal/bot"
	"multilingual-bot/internal/config"
	"multilingual-bot/internal/integrations/lambdatranslator"
	"multilingual-bot/internal/integrations/openai"
	"multilingual-bot/internal/integrations/paramstore"
	"multilingual-bot/internal/repository"
	"multilingual-bot/internal/state"
	"multilingual-bot/internal/transcript"
	"multilingual-bot/internal/translation"
	"multilingual-bot/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	// A .env file is only present for local runs.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		fatal("failed to load AWS config", err)
	}

	// ---- Clients ----
	params, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		fatal("failed to create SSM client", err)
	}
	store, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
	if err != nil {
		fatal("failed to create state client", err)
	}

	// ---- Bot ----
	languagePreference, err := state.NewPropertyAccessor(store, state.LanguagePreference)
	if err != nil {
		fatal("failed to create language preference accessor", err)
	}
	multilingual, err := bot.New(languagePreference)
	if err != nil {
		fatal("failed to create bot", err)
	}

	// ---- Middleware ----
	var middleware []usecase.Middleware
	if cfg.TranscriptEnabled {
		tm, err := transcript.NewMiddleware(store, logger)
		if err != nil {
			fatal("failed to create transcript middleware", err)
		}
		middleware = append(middleware, tm)
	}
	translator, err := newTranslator(ctx, cfg, awsCfg, params)
	if err != nil {
		fatal("failed to create translator", err)
	}
	if translator != nil {
		tm, err := translation.NewMiddleware(translator, languagePreference)
		if err != nil {
			fatal("failed to create translation middleware", err)
		}
		middleware = append(middleware, tm)
	}

	// ---- Handler ----
	turns, err := usecase.NewTurnService(multilingual, middleware...)
	if err != nil {
		fatal("failed to create turn service", err)
	}
	h, err := handler.NewHandler(turns, logger)
	if err != nil {
		fatal("failed to create handler", err)
	}

	logger.Info("multilingual bot ready", "translator", cfg.Translator, "transcript", cfg.TranscriptEnabled)
	lambda.Start(h.Handle)
}

func newTranslator(ctx context.Context, cfg config.Config, awsCfg aws.Config, params *paramstore.Client) (translation.Translator, error) {
	switch cfg.Translator {
	case config.TranslatorOpenAI:
		var opts []openai.Option
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.NewClient(params, cfg.ParamPrefix, cfg.OpenAIModel, opts...)
	case config.TranslatorLambda:
		function := cfg.TranslatorFunction
		if function == "" {
			v, err := params.GetParameter(ctx, cfg.TranslatorFunctionParam())
			if err != nil {
				return nil, err
			}
			function = v
		}
		return lambdatranslator.New(awslambda.NewFromConfig(awsCfg), function)
	default:
		return nil, nil
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
