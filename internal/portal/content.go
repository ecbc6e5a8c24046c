package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/pkg/formats"
	"github.com/Faultbox/arportal/pkg/math"
)

// ContentScene is one loaded splat scene, ready to attach to the
// assembly's content container.
type ContentScene struct {
	URL  string
	Node *scene.Node
}

// Bounds returns the content's local-space bounding volume. Invalid
// until decoding has produced geometry.
func (c *ContentScene) Bounds() math.Box3 {
	if c.Node == nil || c.Node.Mesh == nil {
		return math.EmptyBox3()
	}
	return c.Node.Mesh.Bounds
}

// Mesh returns the content's drawable, or nil.
func (c *ContentScene) Mesh() *scene.Mesh {
	if c.Node == nil {
		return nil
	}
	return c.Node.Mesh
}

// ContentLoader fetches and decodes a splat scene. Implementations run
// on a background goroutine; they must not touch the scene graph.
type ContentLoader interface {
	Load(ctx context.Context, url string) (*ContentScene, error)
}

// SplatLoader loads .splat scenes from http(s) URLs or local paths.
type SplatLoader struct {
	// Client is the HTTP client for remote scenes. Nil uses
	// http.DefaultClient.
	Client *http.Client
}

// Load fetches and decodes a splat scene.
func (l *SplatLoader) Load(ctx context.Context, url string) (*ContentScene, error) {
	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	cloud, err := formats.ParseSplat(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}

	node := scene.NewNode("content")
	node.Mesh = buildContentMesh(cloud)

	return &ContentScene{URL: url, Node: node}, nil
}

func (l *SplatLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		data, err := os.ReadFile(url)
		if err != nil {
			return nil, fmt.Errorf("reading scene: %w", err)
		}
		return data, nil
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching scene: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching scene %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scene body: %w", err)
	}
	return data, nil
}
