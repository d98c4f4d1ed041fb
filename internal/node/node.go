package node

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-overlay/internal/logging"
	"github.com/goliatone/go-overlay/pkg/interfaces"
)

var (
	ErrSessionRequired   = errors.New("node: editing session is required")
	ErrElementIDRequired = errors.New("node: element id is required")
)

// Mode describes how a node should present itself.
type Mode string

const (
	// ModeStatic is a plain read-only render with no affordances.
	ModeStatic Mode = "static"
	// ModeEditable renders read-only with a hover affordance that starts
	// an edit on click.
	ModeEditable Mode = "editable"
	// ModeEditing renders an editable surface with commit and cancel
	// affordances.
	ModeEditing Mode = "editing"
)

// Direction is the text directionality for a locale.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// DefaultRTLLocales lists the locales rendered right-to-left out of the box.
var DefaultRTLLocales = []string{"ar", "he"}

const defaultTag = "span"

// Session is the slice of the editing session a node binds to.
type Session interface {
	Privileged(ctx context.Context) bool
	Enabled() bool
	Locale() string
	LiveContent(elementID string) (string, bool)
	CachedContent(elementID string) (string, bool)
	StartEditing(ctx context.Context, elementID, displayed, defaultText string)
	UpdateContent(ctx context.Context, elementID, text string)
	SaveContent(ctx context.Context, elementID string) error
	CancelEditing(ctx context.Context, elementID string)
}

// Factory binds nodes to one session and one directionality policy.
type Factory struct {
	session Session
	rtl     map[string]struct{}
	logger  interfaces.Logger
}

// FactoryOption mutates the factory configuration.
type FactoryOption func(*Factory)

// WithRTLLocales overrides the set of right-to-left locales.
func WithRTLLocales(locales []string) FactoryOption {
	return func(f *Factory) {
		f.rtl = map[string]struct{}{}
		for _, locale := range locales {
			if trimmed := strings.TrimSpace(locale); trimmed != "" {
				f.rtl[trimmed] = struct{}{}
			}
		}
	}
}

// WithLogger overrides the factory logger.
func WithLogger(logger interfaces.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory constructs a node factory bound to a session.
func NewFactory(session Session, opts ...FactoryOption) (*Factory, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}
	factory := &Factory{
		session: session,
		logger:  logging.NoOp(),
	}
	WithRTLLocales(DefaultRTLLocales)(factory)
	for _, opt := range opts {
		opt(factory)
	}
	return factory, nil
}

// Config declares one editable text location.
type Config struct {
	ElementID string
	Default   string
	Tag       string
}

// Node is the rendering contract for one element within a page. It holds no
// durable state of its own; everything resolves through the session.
type Node struct {
	factory   *Factory
	elementID string
	def       string
	tag       string
}

// Node binds a config to the factory's session.
func (f *Factory) Node(cfg Config) (*Node, error) {
	if strings.TrimSpace(cfg.ElementID) == "" {
		return nil, ErrElementIDRequired
	}
	tag := strings.TrimSpace(cfg.Tag)
	if tag == "" {
		tag = defaultTag
	}
	return &Node{
		factory:   f,
		elementID: cfg.ElementID,
		def:       cfg.Default,
		tag:       tag,
	}, nil
}

// Resolve returns the content to display: in-progress live text while the
// element is being edited, else the cached override, else the compiled-in
// default.
func (n *Node) Resolve(ctx context.Context) string {
	sess := n.factory.session
	if live, editing := sess.LiveContent(n.elementID); editing && sess.Privileged(ctx) && sess.Enabled() {
		return live
	}
	if cached, ok := sess.CachedContent(n.elementID); ok {
		return cached
	}
	return n.def
}

// Mode is a pure function of privilege, the global switch, and the element's
// edit state.
func (n *Node) Mode(ctx context.Context) Mode {
	sess := n.factory.session
	if !sess.Privileged(ctx) || !sess.Enabled() {
		return ModeStatic
	}
	if _, editing := sess.LiveContent(n.elementID); editing {
		return ModeEditing
	}
	return ModeEditable
}

// Direction resolves text directionality from the session locale.
func (n *Node) Direction() Direction {
	if _, ok := n.factory.rtl[n.factory.session.Locale()]; ok {
		return DirectionRTL
	}
	return DirectionLTR
}

// View is one resolved render of a node.
type View struct {
	ElementID string
	Tag       string
	Content   string
	Mode      Mode
	Direction Direction
}

// Render produces the resolved view for the current session state.
func (n *Node) Render(ctx context.Context) View {
	return View{
		ElementID: n.elementID,
		Tag:       n.tag,
		Content:   n.Resolve(ctx),
		Mode:      n.Mode(ctx),
		Direction: n.Direction(),
	}
}

// BeginEdit starts editing this node, seeding the live content with what is
// currently displayed.
func (n *Node) BeginEdit(ctx context.Context) {
	n.factory.logger.Debug("begin edit", "element_id", n.elementID)
	n.factory.session.StartEditing(ctx, n.elementID, n.Resolve(ctx), n.def)
}

// Input forwards an input event's text into the live edit state.
func (n *Node) Input(ctx context.Context, text string) {
	n.factory.session.UpdateContent(ctx, n.elementID, text)
}

// Commit persists the live content. Bound to the confirm key-combination.
func (n *Node) Commit(ctx context.Context) error {
	if err := n.factory.session.SaveContent(ctx, n.elementID); err != nil {
		n.factory.logger.Error("commit failed", "element_id", n.elementID, "error", err)
		return err
	}
	return nil
}

// Abort discards the live content. Bound to the cancel key.
func (n *Node) Abort(ctx context.Context) {
	n.factory.session.CancelEditing(ctx, n.elementID)
}
