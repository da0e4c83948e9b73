package backoffice

import (
	"github.com/splinxplanet/go-backoffice/pkg/client"
	"github.com/splinxplanet/go-backoffice/pkg/resource"
	"github.com/splinxplanet/go-backoffice/pkg/scene"
	"github.com/splinxplanet/go-backoffice/pkg/session"
)

// Descriptor aliases the per-resource configuration exported via the root
// package for convenience.
type Descriptor = resource.Descriptor

// FieldSpec describes one viewable/editable field of a record.
type FieldSpec = resource.FieldSpec

// FieldSchema is the ordered field list describing one resource's records.
type FieldSchema = resource.FieldSchema

// Record is one instance of a resource.
type Record = resource.Record

// Scene wires a resource's store, actions, and grid view together.
type Scene = scene.Controller

// Session holds the process-wide bearer token.
type Session = session.Session

// NewSession creates a session with an existing token, empty for logged-out.
func NewSession(token string) *Session {
	return session.New(token)
}

// NewClient builds a resource client bound to the session's token.
func NewClient(baseURL string, desc Descriptor, tokens client.TokenSource, options ...client.Option) (*client.Client, error) {
	return client.New(baseURL, desc, tokens, options...)
}

// NewScene is the simplest entry point: a client plus a controller for one
// resource, ready to Mount.
func NewScene(baseURL string, desc Descriptor, tokens client.TokenSource, options ...scene.Option) (*Scene, error) {
	rc, err := client.New(baseURL, desc, tokens)
	if err != nil {
		return nil, err
	}
	return scene.New(desc, rc, options...)
}
