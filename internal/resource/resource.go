package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wertwang/theia/internal/output"
)

// Scheme is the URI scheme for channel resources
const Scheme = "output"

// EmptyURI is the reserved sentinel for the empty placeholder buffer
const EmptyURI = "output:/empty"

var (
	// ErrInvalidURI marks a URI with the wrong scheme or shape
	ErrInvalidURI = errors.New("invalid output resource URI")
	// ErrNotFound marks a well-formed URI with no registered channel
	ErrNotFound = errors.New("output channel not found")
)

// URI identifies a channel resource
type URI struct {
	Name string
}

// Empty reports whether the URI is the reserved placeholder sentinel
func (u URI) Empty() bool {
	return u.Name == ""
}

// String renders the URI in output:<name> form
func (u URI) String() string {
	if u.Empty() {
		return EmptyURI
	}
	return Scheme + ":" + u.Name
}

// ParseURI parses raw into a channel resource URI. A scheme other than
// "output" is an invalid-argument error.
func ParseURI(raw string) (URI, error) {
	scheme, rest, ok := strings.Cut(raw, ":")
	if !ok || scheme != Scheme {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalidURI, raw)
	}
	if raw == EmptyURI {
		return URI{}, nil
	}
	if rest == "" {
		return URI{}, fmt.Errorf("%w: missing channel name in %q", ErrInvalidURI, raw)
	}
	return URI{Name: rest}, nil
}

// Registry is the channel lookup surface the resolver needs
type Registry interface {
	Lookup(name string) (*output.Channel, bool)
}

// Resolver maps output: URIs to readable channel resources
type Resolver struct {
	registry Registry
}

// NewResolver creates a resolver over the given channel registry
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns the resource addressed by raw. Wrong scheme fails with
// ErrInvalidURI; a well-formed URI for an unregistered channel fails with
// ErrNotFound.
func (r *Resolver) Resolve(raw string) (*Resource, error) {
	uri, err := ParseURI(raw)
	if err != nil {
		return nil, err
	}
	if uri.Empty() {
		return &Resource{uri: uri}, nil
	}
	ch, ok := r.registry.Lookup(uri.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, uri.Name)
	}
	return &Resource{uri: uri, channel: ch}, nil
}

// Resource is a read-only, URI-addressed view over a channel's live
// content. Reads against a channel whose model is still resolving are
// deferred, not dropped.
type Resource struct {
	uri     URI
	channel *output.Channel
	tokens  []string
}

// URI returns the resource's address
func (r *Resource) URI() URI {
	return r.uri
}

// Content returns the channel's current text. The empty sentinel resolves
// to the empty string.
func (r *Resource) Content(ctx context.Context) (string, error) {
	if r.channel == nil {
		return "", nil
	}
	return r.channel.ReadText(ctx)
}

// OnDidChange registers fn to run on every content mutation of the
// underlying buffer. The placeholder resource never fires.
func (r *Resource) OnDidChange(fn func(output.ContentChange)) {
	if r.channel == nil {
		return
	}
	token := r.channel.AddContentListener(fn)
	r.tokens = append(r.tokens, token)
}

// Dispose detaches all change listeners registered through this resource
func (r *Resource) Dispose() {
	if r.channel == nil {
		return
	}
	for _, token := range r.tokens {
		r.channel.RemoveContentListener(token)
	}
	r.tokens = nil
}
