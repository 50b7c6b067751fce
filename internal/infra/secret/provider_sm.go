// Package secret resolves runtime secrets (the database password) from
// Google Secret Manager.
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var ErrNotConfigured = errors.New("secret: provider not configured")

type fetchFunc func(ctx context.Context, name string) ([]byte, error)

// Provider reads secret payloads. Names may be a full resource name
// ("projects/p/secrets/s/versions/v") or a bare secret id resolved against
// the project's latest version.
type Provider struct {
	projectID string
	fetch     fetchFunc
}

func NewProvider(sm *secretmanager.Client, projectID string) *Provider {
	if sm == nil {
		return &Provider{projectID: projectID}
	}
	return &Provider{
		projectID: projectID,
		fetch: func(ctx context.Context, name string) ([]byte, error) {
			resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
			if err != nil {
				return nil, err
			}
			if resp == nil || resp.Payload == nil {
				return nil, nil
			}
			return resp.Payload.Data, nil
		},
	}
}

// ResourceName expands a bare secret id into a versioned resource name.
func (p *Provider) ResourceName(secret string) (string, error) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return "", errors.New("secret: name is empty")
	}
	if strings.HasPrefix(s, "projects/") {
		if !strings.Contains(s, "/versions/") {
			s += "/versions/latest"
		}
		return s, nil
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", fmt.Errorf("secret: project id is empty (secret=%s)", s)
	}
	return "projects/" + prj + "/secrets/" + s + "/versions/latest", nil
}

// Get returns the trimmed payload of secret.
func (p *Provider) Get(ctx context.Context, secret string) (string, error) {
	if p == nil || p.fetch == nil {
		return "", ErrNotConfigured
	}
	name, err := p.ResourceName(secret)
	if err != nil {
		return "", err
	}
	data, err := p.fetch(ctx, name)
	if err != nil {
		return "", fmt.Errorf("secret: AccessSecretVersion failed (%s): %w", name, err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("secret: empty payload (%s)", name)
	}
	return v, nil
}
