// Package publish uploads model artifacts and the feature schema to the model store.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/forecast"
	"github.com/electrotech/salesforecaster/internal/logger"
	"github.com/electrotech/salesforecaster/registry"
	"github.com/electrotech/salesforecaster/schema"
)

// DefaultTimeout bounds a whole publish run
const DefaultTimeout = 5 * time.Minute

var (
	ErrNoStoreURL       = errors.New("no model store url configured")
	ErrUnexpectedStatus = errors.New("unexpected status from model store")
	ErrNothingToPublish = errors.New("no artifacts to publish")
)

// DefaultArtifacts lists the model artifacts produced by training. The weekly model is
// published for offline use only and is never served.
var DefaultArtifacts = []string{"annual", "monthly", "quarterly", "weekly"}

// Artifact is a single file to upload
type Artifact struct {
	Name string
	Path string
}

// Publisher uploads artifacts with HTTP PUT to <StoreURL>/<file name>
type Publisher struct {
	StoreURL string
	Token    string
	Client   *http.Client
	Timeout  time.Duration
	logger   *logger.Logger
}

// New creates a publisher for the given store
func New(storeURL, token string, log *logger.Logger) *Publisher {
	return &Publisher{
		StoreURL: strings.TrimRight(storeURL, "/"),
		Token:    token,
		Client:   &http.Client{},
		Timeout:  DefaultTimeout,
		logger:   log,
	}
}

// Artifacts returns the files of a model directory in upload order: the named model
// artifacts followed by the feature schema
func Artifacts(dir string, names ...string) []Artifact {
	if len(names) == 0 {
		names = DefaultArtifacts
	}
	arts := make([]Artifact, 0, len(names)+1)
	for _, name := range names {
		file := name + registry.ArtifactSuffix
		arts = append(arts, Artifact{Name: file, Path: filepath.Join(dir, file)})
	}
	arts = append(arts, Artifact{Name: schema.DefaultFileName, Path: filepath.Join(dir, schema.DefaultFileName)})
	return arts
}

// Publish validates and uploads every artifact. A failing artifact does not stop the
// others; all failures are returned joined together.
func (p *Publisher) Publish(ctx context.Context, arts []Artifact) error {
	if p.StoreURL == "" {
		return ErrNoStoreURL
	}
	if len(arts) == 0 {
		return ErrNothingToPublish
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	for _, art := range arts {
		log := p.logger.WithFields(map[string]interface{}{
			"artifact": art.Name,
			"path":     art.Path,
		})
		if err := p.publish(ctx, art); err != nil {
			log.WithError(err).Error("Upload failed")
			errs = append(errs, fmt.Errorf("%s, %w", art.Name, err))
			continue
		}
		log.Info("Uploaded artifact")
	}
	return errors.Join(errs...)
}

func (p *Publisher) publish(ctx context.Context, art Artifact) error {
	if err := Check(art); err != nil {
		return err
	}

	file, err := os.Open(art.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	target := p.StoreURL + "/" + url.PathEscape(art.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload to %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d, %w", target, resp.StatusCode, ErrUnexpectedStatus)
	}
	return nil
}

// Check parses an artifact before it is uploaded. Schemas and the model artifacts of
// servable cadences must decode; other model artifacts are uploaded as they are.
func Check(art Artifact) error {
	if art.Name == schema.DefaultFileName {
		_, err := schema.ReadFile(art.Path)
		return err
	}

	name, ok := strings.CutSuffix(art.Name, registry.ArtifactSuffix)
	if !ok {
		return nil
	}
	c, err := cadence.ParseName(name)
	if err != nil {
		return nil
	}

	file, err := os.Open(art.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	m, err := forecast.ReadModel(file)
	if err != nil {
		return err
	}
	if m.Cadence != c {
		return fmt.Errorf("artifact is %s, file name says %s, %w", m.Cadence, c, registry.ErrCadenceMismatch)
	}
	return nil
}
