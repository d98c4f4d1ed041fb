package overlay

import (
	"context"

	"github.com/goliatone/go-overlay/internal/di"
	"github.com/goliatone/go-overlay/internal/node"
	"github.com/goliatone/go-overlay/internal/overrides"
	"github.com/goliatone/go-overlay/internal/session"
	"github.com/goliatone/go-overlay/pkg/interfaces"
)

// Store exports the override store for consumers of the overlay package.
type Store = overrides.Store

// Override exports the persisted override record.
type Override = overrides.Override

// CommitRequest exports the store commit payload.
type CommitRequest = overrides.CommitRequest

// Repository exports the override repository contract.
type Repository = overrides.Repository

// ChangeEvent exports repository change notifications.
type ChangeEvent = overrides.ChangeEvent

// Session exports the editing session state machine.
type Session = session.Session

// NodeFactory exports the editable node factory.
type NodeFactory = node.Factory

// Node exports the per-element rendering binding.
type Node = node.Node

// NodeConfig exports the editable node declaration.
type NodeConfig = node.Config

// View exports one resolved node render.
type View = node.View

// EditPermission is the permission token gating every mutating operation.
const EditPermission = session.EditPermission

// Module represents the top level overlay runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an overlay module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Store returns the configured override store.
func (m *Module) Store() *Store {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Store()
}

// Session returns the configured editing session.
func (m *Module) Session() *Session {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Session()
}

// Nodes returns the configured node factory.
func (m *Module) Nodes() *NodeFactory {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Nodes()
}

// Subscribe delivers override change events when the configured repository
// supports subscriptions.
func (m *Module) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if m == nil || m.container == nil {
		return nil, overrides.ErrRepositoryNil
	}
	sub, ok := m.container.Repository().(overrides.Subscriber)
	if !ok {
		return nil, overrides.ErrNoSubscriptions
	}
	return sub.Subscribe(ctx)
}

// LoggerProvider returns the logger provider the module was wired with.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LoggerProvider()
}
