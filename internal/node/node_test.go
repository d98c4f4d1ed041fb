package node

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-overlay/pkg/interfaces"
)

type fakeSession struct {
	privileged bool
	enabled    bool
	locale     string
	live       map[string]string
	cached     map[string]string

	started   []string
	displayed string
	def       string
	updated   string
	saved     []string
	cancelled []string
	saveErr   error
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		locale: "en",
		live:   map[string]string{},
		cached: map[string]string{},
	}
}

func (s *fakeSession) Privileged(context.Context) bool { return s.privileged }
func (s *fakeSession) Enabled() bool                   { return s.enabled }
func (s *fakeSession) Locale() string                  { return s.locale }

func (s *fakeSession) LiveContent(elementID string) (string, bool) {
	live, ok := s.live[elementID]
	return live, ok
}

func (s *fakeSession) CachedContent(elementID string) (string, bool) {
	cached, ok := s.cached[elementID]
	return cached, ok
}

func (s *fakeSession) StartEditing(_ context.Context, elementID, displayed, defaultText string) {
	s.started = append(s.started, elementID)
	s.displayed = displayed
	s.def = defaultText
	s.live[elementID] = displayed
}

func (s *fakeSession) UpdateContent(_ context.Context, elementID, text string) {
	s.updated = text
	s.live[elementID] = text
}

func (s *fakeSession) SaveContent(_ context.Context, elementID string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, elementID)
	delete(s.live, elementID)
	return nil
}

func (s *fakeSession) CancelEditing(_ context.Context, elementID string) {
	s.cancelled = append(s.cancelled, elementID)
	delete(s.live, elementID)
}

func newTestNode(t *testing.T, sess Session, cfg Config, opts ...FactoryOption) *Node {
	t.Helper()
	factory, err := NewFactory(sess, opts...)
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	n, err := factory.Node(cfg)
	if err != nil {
		t.Fatalf("Node() error = %v", err)
	}
	return n
}

func TestNode_FallbackToDefault(t *testing.T) {
	// With no override, every privilege/mode combination renders the default.
	for name, setup := range map[string]func(*fakeSession){
		"anonymous":           func(s *fakeSession) {},
		"privileged mode off": func(s *fakeSession) { s.privileged = true },
		"privileged mode on":  func(s *fakeSession) { s.privileged = true; s.enabled = true },
	} {
		t.Run(name, func(t *testing.T) {
			sess := newFakeSession()
			setup(sess)
			n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us"})
			if got := n.Resolve(context.Background()); got != "About Us" {
				t.Fatalf("Resolve() = %q, want default", got)
			}
		})
	}
}

func TestNode_ResolutionOrder(t *testing.T) {
	sess := newFakeSession()
	sess.privileged = true
	sess.enabled = true
	sess.cached["footer-about"] = "cached override"
	n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us"})
	ctx := context.Background()

	if got := n.Resolve(ctx); got != "cached override" {
		t.Fatalf("Resolve() = %q, want cached override", got)
	}

	sess.live["footer-about"] = "live draft"
	if got := n.Resolve(ctx); got != "live draft" {
		t.Fatalf("Resolve() = %q, want live draft while editing", got)
	}
}

func TestNode_LiveContentHiddenFromUnprivileged(t *testing.T) {
	sess := newFakeSession()
	sess.cached["footer-about"] = "cached override"
	sess.live["footer-about"] = "someone's draft"
	n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us"})

	if got := n.Resolve(context.Background()); got != "cached override" {
		t.Fatalf("Resolve() = %q, unprivileged render must not expose live drafts", got)
	}
}

func TestNode_Mode(t *testing.T) {
	cases := []struct {
		name       string
		privileged bool
		enabled    bool
		editing    bool
		want       Mode
	}{
		{"anonymous", false, false, false, ModeStatic},
		{"anonymous mode on", false, true, false, ModeStatic},
		{"privileged mode off", true, false, false, ModeStatic},
		{"privileged viewing", true, true, false, ModeEditable},
		{"privileged editing", true, true, true, ModeEditing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess := newFakeSession()
			sess.privileged = tc.privileged
			sess.enabled = tc.enabled
			if tc.editing {
				sess.live["footer-about"] = "draft"
			}
			n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us"})
			if got := n.Mode(context.Background()); got != tc.want {
				t.Fatalf("Mode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNode_Direction(t *testing.T) {
	sess := newFakeSession()
	n := newTestNode(t, sess, Config{ElementID: "footer-about"})

	if got := n.Direction(); got != DirectionLTR {
		t.Fatalf("Direction() = %q for en", got)
	}

	sess.locale = "ar"
	if got := n.Direction(); got != DirectionRTL {
		t.Fatalf("Direction() = %q for ar", got)
	}

	sess.locale = "he"
	if got := n.Direction(); got != DirectionRTL {
		t.Fatalf("Direction() = %q for he", got)
	}
}

func TestNode_DirectionCustomRTLSet(t *testing.T) {
	sess := newFakeSession()
	sess.locale = "ar"
	n := newTestNode(t, sess, Config{ElementID: "footer-about"}, WithRTLLocales([]string{"fa"}))

	if got := n.Direction(); got != DirectionLTR {
		t.Fatalf("Direction() = %q, custom set should exclude ar", got)
	}
}

func TestNode_RenderView(t *testing.T) {
	sess := newFakeSession()
	sess.privileged = true
	sess.enabled = true
	n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us", Tag: "p"})

	view := n.Render(context.Background())
	if view.ElementID != "footer-about" || view.Tag != "p" {
		t.Fatalf("Render() view = %+v", view)
	}
	if view.Content != "About Us" || view.Mode != ModeEditable || view.Direction != DirectionLTR {
		t.Fatalf("Render() view = %+v", view)
	}
}

func TestNode_TagDefaultsToSpan(t *testing.T) {
	sess := newFakeSession()
	n := newTestNode(t, sess, Config{ElementID: "footer-about"})
	if view := n.Render(context.Background()); view.Tag != "span" {
		t.Fatalf("Render() tag = %q", view.Tag)
	}
}

func TestNode_BeginEditSeedsDisplayedContent(t *testing.T) {
	sess := newFakeSession()
	sess.privileged = true
	sess.enabled = true
	sess.cached["footer-about"] = "cached override"
	n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us"})
	ctx := context.Background()

	n.BeginEdit(ctx)
	if len(sess.started) != 1 || sess.displayed != "cached override" || sess.def != "About Us" {
		t.Fatalf("BeginEdit() forwarded displayed=%q default=%q", sess.displayed, sess.def)
	}

	n.Input(ctx, "typed text")
	if sess.updated != "typed text" {
		t.Fatalf("Input() forwarded %q", sess.updated)
	}

	if err := n.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(sess.saved) != 1 {
		t.Fatalf("Commit() saved = %v", sess.saved)
	}
}

func TestNode_CommitPropagatesError(t *testing.T) {
	sess := newFakeSession()
	sess.privileged = true
	sess.enabled = true
	sess.saveErr = errors.New("backend down")
	n := newTestNode(t, sess, Config{ElementID: "footer-about"})

	if err := n.Commit(context.Background()); err == nil {
		t.Fatal("Commit() expected error")
	}
}

func TestNode_AbortCancels(t *testing.T) {
	sess := newFakeSession()
	sess.privileged = true
	sess.enabled = true
	sess.live["footer-about"] = "draft"
	n := newTestNode(t, sess, Config{ElementID: "footer-about"})

	n.Abort(context.Background())
	if len(sess.cancelled) != 1 {
		t.Fatalf("Abort() cancelled = %v", sess.cancelled)
	}
}

type capturingLogger struct {
	debugs []string
	errs   []string
}

func (l *capturingLogger) Trace(string, ...any) {}
func (l *capturingLogger) Debug(msg string, _ ...any) {
	l.debugs = append(l.debugs, msg)
}
func (l *capturingLogger) Info(string, ...any) {}
func (l *capturingLogger) Warn(string, ...any) {}
func (l *capturingLogger) Error(msg string, _ ...any) {
	l.errs = append(l.errs, msg)
}
func (l *capturingLogger) Fatal(string, ...any) {}

func (l *capturingLogger) WithContext(context.Context) interfaces.Logger { return l }
func (l *capturingLogger) WithFields(map[string]any) interfaces.Logger   { return l }

func TestNode_EditLifecycleIsLogged(t *testing.T) {
	sess := newFakeSession()
	sess.privileged = true
	sess.enabled = true
	logger := &capturingLogger{}
	n := newTestNode(t, sess, Config{ElementID: "footer-about", Default: "About Us"}, WithLogger(logger))
	ctx := context.Background()

	n.BeginEdit(ctx)
	if len(logger.debugs) != 1 {
		t.Fatalf("BeginEdit() debug logs = %v", logger.debugs)
	}

	sess.saveErr = errors.New("backend down")
	if err := n.Commit(ctx); err == nil {
		t.Fatal("Commit() expected error")
	}
	if len(logger.errs) != 1 {
		t.Fatalf("failed Commit() error logs = %v", logger.errs)
	}
}

func TestNewFactory_RequiresSession(t *testing.T) {
	if _, err := NewFactory(nil); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestFactory_NodeRequiresElementID(t *testing.T) {
	factory, err := NewFactory(newFakeSession())
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	if _, err := factory.Node(Config{}); !errors.Is(err, ErrElementIDRequired) {
		t.Fatalf("expected ErrElementIDRequired, got %v", err)
	}
}
