package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/identity/directory"
	directorymemory "github.com/w-h-a/identity/directory/memory"
	directorysqlite "github.com/w-h-a/identity/directory/sqlite"
	"github.com/w-h-a/identity/events"
	slogemitter "github.com/w-h-a/identity/events/slog"
	"github.com/w-h-a/identity/index"
	indexmemory "github.com/w-h-a/identity/index/memory"
	indexpostgres "github.com/w-h-a/identity/index/postgres"
	"github.com/w-h-a/identity/internal/service/resolver"
	"github.com/w-h-a/identity/matcher"
	"github.com/w-h-a/identity/matcher/extractor"
	openaiextractor "github.com/w-h-a/identity/matcher/extractor/openai"
	"github.com/w-h-a/identity/pipeline"
	httpserver "github.com/w-h-a/identity/server/http"
	"github.com/w-h-a/identity/session"
)

var (
	cfg struct {
		// Server config
		Addr string `help:"Address to serve the identity API on" default:":8090"`

		// Directory config
		DirectoryLocation string `help:"Path of the sqlite user directory; empty keeps users in memory" default:""`

		// Index config
		FaceIndexLocation  string `help:"Postgres DSN for the face embedding index; empty keeps embeddings in memory" default:""`
		VoiceIndexLocation string `help:"Postgres DSN for the voice embedding index; empty keeps embeddings in memory" default:""`

		// Extractor config
		ExtractorBaseURL string `help:"Base URL of an OpenAI-compatible embeddings endpoint" default:""`
		ExtractorAPIKey  string `help:"API key for the embeddings endpoint" default:""`
		FaceModel        string `help:"Model identifier for face embeddings" default:"face-embedding"`
		VoiceModel       string `help:"Model identifier for voice embeddings" default:"voice-embedding"`

		// Matcher config
		FaceThreshold  float64 `help:"Maximum cosine distance for a face match" default:"0.75"`
		VoiceThreshold float64 `help:"Maximum cosine distance for a voice match" default:"0.75"`
		TopK           int     `help:"Neighbors fetched per identification query" default:"3"`

		// Pipeline config
		IgnoreDefaultSession bool `help:"Skip preference merging for the default session" default:"false"`
		IgnoreRemoteSessions bool `help:"Skip preference merging for remote sessions" default:"false"`
	}
)

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	// Create directory
	var dir directory.Directory
	if len(cfg.DirectoryLocation) > 0 {
		dir = directorysqlite.NewDirectory(
			directory.WithLocation(cfg.DirectoryLocation),
		)
	} else {
		dir = directorymemory.NewDirectory()
	}

	// Create event emitter
	var emitter events.Emitter = slogemitter.NewEmitter()

	// Create matchers
	faces := newMatcher(cfg.FaceIndexLocation, cfg.FaceModel, cfg.FaceThreshold)
	voices := newMatcher(cfg.VoiceIndexLocation, cfg.VoiceModel, cfg.VoiceThreshold)

	// Create pipeline
	stages := []pipeline.Stage{
		pipeline.NewPassphraseStage(dir, emitter),
		pipeline.NewSessionPreferenceStage(
			dir,
			session.NewMerger(),
			pipeline.WithIgnoreDefaultSession(cfg.IgnoreDefaultSession),
			pipeline.WithIgnoreRemoteSessions(cfg.IgnoreRemoteSessions),
		),
	}

	// Biometric stages need device collaborators; they are registered by
	// the hosting system via camera/mic transports, so the daemon only
	// exposes enrollment and passphrase/session stages out of the box.
	p := pipeline.New(stages...)

	service := resolver.New(p, dir, faces, voices)

	// Serve
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpserver.NewRouter(service),
	}

	go func() {
		slog.InfoContext(ctx, "identity api listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "failed to shut down cleanly", "error", err)
	}
}

func newMatcher(location string, model string, threshold float64) *matcher.Matcher {
	var idx index.Index
	if strings.HasPrefix(location, "postgres://") {
		idx = indexpostgres.NewIndex(
			index.WithLocation(location),
		)
	} else {
		idx = indexmemory.NewIndex()
	}

	var ext extractor.Extractor
	if len(cfg.ExtractorBaseURL) > 0 {
		ext = openaiextractor.NewExtractor(
			extractor.WithBaseUrl(cfg.ExtractorBaseURL),
			extractor.WithApiKey(cfg.ExtractorAPIKey),
			extractor.WithModel(model),
		)
	}

	return matcher.New(
		matcher.WithIndex(idx),
		matcher.WithExtractor(ext),
		matcher.WithThreshold(threshold),
		matcher.WithTopK(cfg.TopK),
	)
}
