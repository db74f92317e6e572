package publisher

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const simulatedAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// SimulatedPublisher reports success without contacting the platform.
type SimulatedPublisher struct {
	platform string
}

func NewSimulatedPublisher(platform string) *SimulatedPublisher {
	return &SimulatedPublisher{platform: platform}
}

func (p *SimulatedPublisher) Platform() string {
	return p.platform
}

func (p *SimulatedPublisher) Publish(ctx context.Context, target Target, _ Content) (*PublishedRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := gonanoid.Generate(simulatedAlphabet, 16)
	if err != nil {
		return nil, err
	}

	handle := target.ExternalID
	if handle == "" {
		handle = target.AccountName
	}

	return &PublishedRef{
		PlatformPostID: fmt.Sprintf("sim_%s", id),
		URL:            fmt.Sprintf("https://%s.example/%s/posts/%s", p.platform, handle, id),
	}, nil
}

// NewSimulatedRegistry registers a simulated publisher for each platform.
func NewSimulatedRegistry(platforms []string) *Registry {
	r := NewRegistry()
	for _, platform := range platforms {
		r.Register(NewSimulatedPublisher(platform))
	}
	return r
}
