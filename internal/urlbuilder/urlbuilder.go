// Package urlbuilder turns operation kinds into fully qualified URLs.
//
// Building happens in two phases. A Controller knows the environment and can
// build every control-plane URL. Binding the project name returned by WhoAmI
// yields a Project, the only type that can build data-plane URLs.
package urlbuilder

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kailas-cloud/pinecone-go/internal/operation"
)

// Sentinel errors.
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingResource  = errors.New("resource name required")
	ErrDataPlaneUnbound = errors.New("data plane url requires project metadata")
	ErrInvalidConfig    = errors.New("invalid url builder config")
	ErrInvalidIndexName = errors.New("index name must be a DNS label of [a-z0-9-]")
)

// maxIndexName is the longest DNS label.
const maxIndexName = 63

// Endpoint is the scheme and base domain shared by every host.
type Endpoint struct {
	Scheme string
	Domain string
}

// DefaultEndpoint is https on pinecone.io.
func DefaultEndpoint() Endpoint {
	return Endpoint{Scheme: "https", Domain: "pinecone.io"}
}

// Controller builds control-plane URLs for one environment.
// It is immutable after NewController.
type Controller struct {
	environment string
	endpoint    Endpoint
	host        string
	fixed       map[operation.Kind]string
}

// NewController validates the environment and precomputes every control-plane
// URL that takes no resource name.
func NewController(environment string, ep Endpoint) (*Controller, error) {
	if environment == "" {
		return nil, fmt.Errorf("%w: environment is empty", ErrInvalidConfig)
	}
	if ep.Scheme == "" || ep.Domain == "" {
		return nil, fmt.Errorf("%w: scheme and domain are required", ErrInvalidConfig)
	}
	if strings.ContainsAny(environment, "/.:") {
		return nil, fmt.Errorf("%w: environment %q", ErrInvalidConfig, environment)
	}

	c := &Controller{
		environment: environment,
		endpoint:    ep,
		host:        ep.Scheme + "://controller." + environment + "." + ep.Domain,
		fixed:       make(map[operation.Kind]string),
	}
	for _, k := range operation.All {
		d := operation.MustDescribe(k)
		if d.Surface == operation.Controller && d.Category != operation.ResourcePath {
			c.fixed[k] = c.host + d.Fragment
		}
	}
	return c, nil
}

// Environment returns the environment the builder was created for.
func (c *Controller) Environment() string { return c.environment }

// Endpoint returns the scheme and domain.
func (c *Controller) Endpoint() Endpoint { return c.endpoint }

// Host returns the controller base URL, e.g. https://controller.us-west1-gcp.pinecone.io.
func (c *Controller) Host() string { return c.host }

// Build returns the URL of a control-plane operation. resource is ignored
// for fixed and collection paths and required for resource paths.
// Data-plane kinds fail with ErrDataPlaneUnbound.
func (c *Controller) Build(k operation.Kind, resource string) (string, error) {
	d, ok := operation.Describe(k)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownOperation, k)
	}
	if d.Surface == operation.DataPlane {
		return "", fmt.Errorf("%s: %w", d.Name, ErrDataPlaneUnbound)
	}
	if d.Category != operation.ResourcePath {
		return c.fixed[k], nil
	}
	if resource == "" {
		return "", fmt.Errorf("%s: %w", d.Name, ErrMissingResource)
	}
	return c.host + d.Fragment + url.PathEscape(resource), nil
}

// WithProject binds the project name from WhoAmI and returns a builder that
// also serves data-plane operations. c is not modified.
func (c *Controller) WithProject(project string) (*Project, error) {
	if project == "" {
		return nil, fmt.Errorf("%w: project name is empty", ErrInvalidConfig)
	}
	return &Project{
		Controller: c,
		project:    project,
		svcSuffix:  ".svc." + c.environment + "." + c.endpoint.Domain,
	}, nil
}

// Project builds control-plane and data-plane URLs.
type Project struct {
	*Controller
	project   string
	svcSuffix string
}

// ProjectName returns the bound project name.
func (p *Project) ProjectName() string { return p.project }

// Build returns the URL of any operation. For data-plane kinds resource is
// the index name and selects the host:
// <scheme>://<index>-<project>.svc.<environment>.<domain><fragment>.
func (p *Project) Build(k operation.Kind, resource string) (string, error) {
	d, ok := operation.Describe(k)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownOperation, k)
	}
	if d.Surface == operation.Controller {
		return p.Controller.Build(k, resource)
	}
	if resource == "" {
		return "", fmt.Errorf("%s: %w", d.Name, ErrMissingResource)
	}
	host, err := p.IndexHost(resource)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.Name, err)
	}
	return p.endpoint.Scheme + "://" + host + d.Fragment, nil
}

// IndexHost returns the data-plane host name of an index, without scheme.
// The index name becomes part of the host, so it must be a DNS label.
func (p *Project) IndexHost(index string) (string, error) {
	if err := ValidateIndexName(index); err != nil {
		return "", err
	}
	return index + "-" + p.project + p.svcSuffix, nil
}

// ValidateIndexName reports whether name can be used in a data-plane host:
// 1 to 63 characters of [a-z0-9-], not starting or ending with '-'.
func ValidateIndexName(name string) error {
	if name == "" || len(name) > maxIndexName {
		return fmt.Errorf("%w: %q", ErrInvalidIndexName, name)
	}
	if name[0] == '-' || name[len(name)-1] == '-' {
		return fmt.Errorf("%w: %q", ErrInvalidIndexName, name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("%w: %q", ErrInvalidIndexName, name)
		}
	}
	return nil
}
