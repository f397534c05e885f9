package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/alecthomas/kong"
	devicememory "github.com/w-h-a/identity/device/memory"
	"github.com/w-h-a/identity/directory"
	directorymemory "github.com/w-h-a/identity/directory/memory"
	eventsmemory "github.com/w-h-a/identity/events/memory"
	indexmemory "github.com/w-h-a/identity/index/memory"
	"github.com/w-h-a/identity/matcher"
	"github.com/w-h-a/identity/matcher/extractor"
	openaiextractor "github.com/w-h-a/identity/matcher/extractor/openai"
	"github.com/w-h-a/identity/pipeline"
	"github.com/w-h-a/identity/session"
)

var (
	cfg struct {
		// Extractor config
		BaseURL string `help:"Base URL of an OpenAI-compatible embeddings endpoint" default:""`
		APIKey  string `help:"API key for the embeddings endpoint" default:""`
		Model   string `help:"Model identifier for face embeddings" default:"face-embedding"`

		// Matcher config
		Threshold float64 `help:"Maximum cosine distance for a match" default:"0.75"`
	}
)

// echoExtractor hashes the signal bytes into a crude embedding so the demo
// runs without a model server.
type echoExtractor struct{}

func (e *echoExtractor) Extract(ctx context.Context, signal []byte) ([]float32, error) {
	vec := make([]float32, 8)
	for i, b := range signal {
		vec[i%8] += float32(b)
	}
	return vec, nil
}

func main() {
	// Parse inputs
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	// Create directory
	dir := directorymemory.NewDirectory()

	alice, err := dir.Add(ctx, &directory.User{
		Name:          "Alice",
		Discriminator: directory.DiscriminatorUser,
		AuthPhrase:    "open sesame",
		Lang:          "en-us",
		SiteID:        "kitchen",
		City:          "Lisbon",
		Country:       "Portugal",
		CountryCode:   "PT",
		Timezone:      "Europe/Lisbon",
	})
	if err != nil {
		log.Fatalf("failed to add user: %v", err)
	}

	// Create extractor
	var ext extractor.Extractor = &echoExtractor{}
	if len(cfg.BaseURL) > 0 {
		ext = openaiextractor.NewExtractor(
			extractor.WithBaseUrl(cfg.BaseURL),
			extractor.WithApiKey(cfg.APIKey),
			extractor.WithModel(cfg.Model),
		)
	}

	// Create face matcher
	faces := matcher.New(
		matcher.WithIndex(indexmemory.NewIndex()),
		matcher.WithExtractor(ext),
		matcher.WithThreshold(cfg.Threshold),
	)

	frame := []byte("alice-at-the-kitchen-camera")
	if err := faces.Enroll(ctx, alice.UserID, frame); err != nil {
		log.Fatalf("failed to enroll face: %v", err)
	}

	// Create devices and emitter
	devices := devicememory.NewDevices()
	devices.SetFrame("cam-kitchen", frame)

	emitter := eventsmemory.NewEmitter()

	// Create pipeline
	p := pipeline.New(
		pipeline.NewPassphraseStage(dir, emitter),
		pipeline.NewFaceStage(devices, faces, dir, emitter),
		pipeline.NewSessionPreferenceStage(dir, session.NewMerger()),
	)

	fmt.Println("--- Identity Resolution Demo ---")

	// 1. Resolve by passphrase
	out := p.Run(ctx, pipeline.Context{
		Utterances: []string{"open sesame", "turn on the lights"},
	})
	fmt.Printf("passphrase: user_id=%s remaining_utterances=%v\n", out.UserID, out.Utterances)

	// 2. Resolve by face
	out = p.Run(ctx, pipeline.Context{
		CameraID:   "cam-kitchen",
		Utterances: []string{"what time is it"},
	})
	fmt.Printf("face: user_id=%s\n", out.UserID)

	// 3. Session enrichment
	sess, _ := session.Deserialize(out.Session)
	pretty, _ := json.MarshalIndent(sess, "", "  ")
	fmt.Printf("session:\n%s\n", pretty)

	for _, event := range emitter.Emitted() {
		fmt.Printf("event: %s %v\n", event.Type, event.Data)
	}
}
