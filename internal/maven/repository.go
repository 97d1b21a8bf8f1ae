package maven

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/toby1984/license-check/internal/core"
	"github.com/toby1984/license-check/internal/types"
)

// Compile-time interface satisfaction check.
var _ core.ArtifactResolver = (*Repository)(nil)

// Repository resolves artifacts by coordinates: first against a local
// Maven-layout repository, then by downloading the pom from the configured
// remote repositories in order. Downloaded poms are cached in the local
// repository so parent-chain walks only hit the network once per artifact.
type Repository struct {
	localRoot string
	remotes   []string
	client    *http.Client
	log       *zap.SugaredLogger
}

// NewRepository creates a repository resolver. A nil client falls back to
// a default with a 30s timeout; a hung remote therefore cannot hang the
// run forever even though callers treat Resolve as a blocking call.
func NewRepository(localRoot string, remotes []string, client *http.Client, log *zap.SugaredLogger) *Repository {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Repository{
		localRoot: localRoot,
		remotes:   remotes,
		client:    client,
		log:       log,
	}
}

// DefaultLocalRepository returns the conventional ~/.m2/repository path.
func DefaultLocalRepository() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}

// Resolve locates the artifact's pom and returns the artifact with File
// set to its on-disk path.
func (r *Repository) Resolve(coords string) (types.Artifact, error) {
	artifact, err := ParseCoordinates(coords)
	if err != nil {
		return types.Artifact{}, err
	}

	dir := filepath.Join(r.localRoot, filepath.FromSlash(RelativeDir(artifact)))
	pomFile := filepath.Join(dir, PomName(artifact))
	if _, statErr := os.Stat(pomFile); statErr == nil {
		artifact.File = pomFile
		return artifact, nil
	}

	for _, remote := range r.remotes {
		url := remote + "/" + RelativeDir(artifact) + "/" + PomName(artifact)
		data, fetchErr := r.fetch(url)
		if fetchErr != nil {
			r.log.Debugw("remote lookup failed", "url", url, "error", fetchErr)
			continue
		}
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return types.Artifact{}, fmt.Errorf("create local repository dir %s: %w", dir, mkErr)
		}
		if writeErr := os.WriteFile(pomFile, data, 0644); writeErr != nil {
			return types.Artifact{}, fmt.Errorf("cache pom %s: %w", pomFile, writeErr)
		}
		artifact.File = pomFile
		return artifact, nil
	}

	return types.Artifact{}, fmt.Errorf("artifact %s not found in local repository or %d remote(s)", coords, len(r.remotes))
}

// fetch downloads a URL, retrying transient failures with exponential
// backoff. A 404 is final for this remote and is not retried.
func (r *Repository) fetch(url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s
			time.Sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "license-check")

		resp, err := r.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return data, nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, fmt.Errorf("not found: %s", url)
		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
		}
	}
	return nil, lastErr
}
