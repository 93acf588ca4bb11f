package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/forecast"
)

const DefaultDownloadTimeout = 60 * time.Second

// ArtifactSuffix ends the file name of every model artifact, e.g. monthly_sales_model.json
const ArtifactSuffix = "_sales_model.json"

var (
	ErrNoSource         = errors.New("no model path or url configured")
	ErrCadenceMismatch  = errors.New("model cadence does not match its slot")
	ErrUnexpectedStatus = errors.New("unexpected download status")
)

// Source locates the artifact of one cadence. The local path is tried first and the URL
// only when the path did not produce a model.
type Source struct {
	Cadence cadence.Cadence
	Path    string
	URL     string
}

// Loader reads model artifacts from disk or downloads them
type Loader struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewLoader returns a loader with the default download timeout
func NewLoader() *Loader {
	return &Loader{
		Client:  &http.Client{},
		Timeout: DefaultDownloadTimeout,
	}
}

// ArtifactFileName returns the conventional artifact file name of a cadence
func ArtifactFileName(c cadence.Cadence) string {
	return c.String() + ArtifactSuffix
}

// LoadAll fills a slot for every source that yields a model. Failures are logged and leave
// the slot unset. The cadences that remain unset are returned.
func (l *Loader) LoadAll(ctx context.Context, reg *Registry, sources []Source) []cadence.Cadence {
	for _, src := range sources {
		f, origin, err := l.Load(ctx, src)
		if err != nil {
			slog.Error("model not loaded", "cadence", src.Cadence.String(), "error", err)
			continue
		}
		if err := reg.Set(src.Cadence, f, origin); err != nil {
			slog.Error("model not registered", "cadence", src.Cadence.String(), "error", err)
			continue
		}
		slog.Info("model loaded", "cadence", src.Cadence.String(), "source", origin, "train_end_time", f.TrainEndTime())
	}

	missing := reg.Missing()
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, c := range missing {
			names = append(names, c.String())
		}
		slog.Warn("some forecast models are unavailable", "cadences", names)
	}
	return missing
}

// Load returns the model of a source and where it was loaded from
func (l *Loader) Load(ctx context.Context, src Source) (*forecast.Forecast, string, error) {
	if src.Path == "" && src.URL == "" {
		return nil, "", fmt.Errorf("%s, %w", src.Cadence, ErrNoSource)
	}

	var errs []error
	if src.Path != "" {
		f, err := l.loadFile(src)
		if err == nil {
			return f, src.Path, nil
		}
		if src.URL != "" {
			slog.Warn("local model unusable, falling back to download",
				"cadence", src.Cadence.String(), "path", src.Path, "error", err)
		}
		errs = append(errs, err)
	}

	if src.URL != "" {
		f, err := l.download(ctx, src)
		if err == nil {
			return f, src.URL, nil
		}
		errs = append(errs, err)
	}
	return nil, "", errors.Join(errs...)
}

func (l *Loader) loadFile(src Source) (*forecast.Forecast, error) {
	file, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := decode(file, src.Cadence)
	if err != nil {
		return nil, fmt.Errorf("%s, %w", src.Path, err)
	}
	return f, nil
}

func (l *Loader) download(ctx context.Context, src Source) (*forecast.Forecast, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create download request, %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download %s, %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s returned %d, %w", src.URL, resp.StatusCode, ErrUnexpectedStatus)
	}

	f, err := decode(resp.Body, src.Cadence)
	if err != nil {
		return nil, fmt.Errorf("%s, %w", src.URL, err)
	}
	return f, nil
}

func decode(r io.Reader, c cadence.Cadence) (*forecast.Forecast, error) {
	m, err := forecast.ReadModel(r)
	if err != nil {
		return nil, err
	}
	if m.Cadence != c {
		return nil, fmt.Errorf("artifact is %s, slot is %s, %w", m.Cadence, c, ErrCadenceMismatch)
	}
	return forecast.NewFromModel(m)
}
