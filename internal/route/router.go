package route

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/yndnr/authfront/internal/core/service"
	"github.com/yndnr/authfront/internal/flash"
	"github.com/yndnr/authfront/internal/form"
)

// maxRedirects bounds guard redirect chains.
const maxRedirects = 4

// Auth is the session state consulted by the router.
type Auth interface {
	Refresh() service.Snapshot
	Subscribe(fn func(service.Snapshot)) (unsubscribe func())
	Logout(ctx context.Context)
}

type routeDef struct {
	access Access
	kind   func(q url.Values, authenticated bool) Kind
	build  func(r *Router, q url.Values, k Kind) Page
}

func fixed(k Kind) func(url.Values, bool) Kind {
	return func(url.Values, bool) Kind { return k }
}

// Router resolves the navigator's current location into a page.
type Router struct {
	auth  Auth
	nav   *Navigator
	deps  form.Deps
	flash *flash.Store

	routes map[string]routeDef

	mu      sync.Mutex
	current Page
	// pending, when set, is called with the placeholder page before a
	// guard decision.
	pending func(Page)
}

// NewRouter creates a router over nav. Forms on resolved pages are
// built with deps; fl feeds the login page's flash message.
func NewRouter(auth Auth, nav *Navigator, deps form.Deps, fl *flash.Store) *Router {
	if fl == nil {
		fl = flash.New()
	}
	if deps.Flash == nil {
		deps.Flash = fl
	}
	r := &Router{
		auth:  auth,
		nav:   nav,
		deps:  deps,
		flash: fl,
	}
	r.routes = map[string]routeDef{
		PathRoot:           {Public, rootKind, buildRoot},
		PathDashboard:      {Protected, fixed(Dashboard), buildDashboard},
		PathLogin:          {GuestOnly, fixed(Login), buildLogin},
		PathSignup:         {GuestOnly, fixed(Signup), buildSignup},
		PathPasswordReset:  {Public, fixed(PasswordReset), buildPasswordReset},
		PathPasswordUpdate: {Public, passwordUpdateKind, buildPasswordUpdate},
	}
	return r
}

// OnPending sets the callback receiving the "Authenticating..."
// placeholder shown while a guarded route is being decided.
func (r *Router) OnPending(fn func(Page)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = fn
}

// Navigator returns the history.
func (r *Router) Navigator() *Navigator {
	return r.nav
}

// Open navigates to location and resolves it.
func (r *Router) Open(location string) Page {
	r.nav.Navigate(location)
	return r.Resolve()
}

// Back returns to the previous location. ok is false at the first entry.
func (r *Router) Back() (p Page, ok bool) {
	if !r.nav.Back() {
		return r.Current(), false
	}
	return r.Resolve(), true
}

// Current returns the last resolved page.
func (r *Router) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Follow applies a form result's redirect, if any.
func (r *Router) Follow(res form.Result) Page {
	// A watcher may already have redirected.
	if res.Redirect == "" || r.nav.Current() == res.Redirect {
		return r.Resolve()
	}
	return r.Open(res.Redirect)
}

// Logout ends the session and navigates to the page's logout target.
func (r *Router) Logout(ctx context.Context) Page {
	to := r.Current().LogoutTo
	r.auth.Logout(ctx)
	// A watcher may already have redirected.
	if to == "" || r.nav.Current() == to {
		return r.Resolve()
	}
	return r.Open(to)
}

// Resolve evaluates the guard for the current location, following
// redirects, and returns the page to render. The page is reused when
// the location and kind did not change, so form drafts survive.
func (r *Router) Resolve() Page {
	var page Page
	for i := 0; ; i++ {
		location := r.nav.Current()
		path, query := splitLocation(location)

		def, ok := r.routes[path]
		if !ok {
			page = Page{Kind: NotFound, Location: location, Title: NotFound.String()}
			break
		}

		if def.access != Public {
			r.notifyPending(location)
		}
		snap := r.auth.Refresh()

		if to := Decide(def.access, snap.Authenticated); to != "" && i < maxRedirects {
			r.nav.Replace(to)
			continue
		}

		kind := def.kind(query, snap.Authenticated)
		if cur := r.Current(); cur.Location == location && cur.Kind == kind {
			page = cur
			break
		}
		page = def.build(r, query, kind)
		page.Kind = kind
		page.Location = location
		page.Title = kind.String()
		break
	}

	r.mu.Lock()
	r.current = page
	r.mu.Unlock()
	return page
}

// Watch re-resolves the current location whenever the session changes
// and calls fn when that yields a different page.
func (r *Router) Watch(fn func(Page)) (stop func()) {
	return r.auth.Subscribe(func(service.Snapshot) {
		before := r.Current()
		after := r.Resolve()
		if after.Kind != before.Kind || after.Location != before.Location {
			fn(after)
		}
	})
}

func (r *Router) notifyPending(location string) {
	r.mu.Lock()
	fn := r.pending
	r.mu.Unlock()
	if fn != nil {
		fn(Page{Kind: Authenticating, Location: location, Title: Authenticating.String()})
	}
}

// splitLocation separates path and query, normalizing the path.
func splitLocation(location string) (string, url.Values) {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return location, url.Values{}
	}
	path := u.Path
	if path == "" {
		path = PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path, u.Query()
}

func rootKind(_ url.Values, authenticated bool) Kind {
	if authenticated {
		return Dashboard
	}
	return Welcome
}

func passwordUpdateKind(q url.Values, _ bool) Kind {
	if q.Get("token") == "" {
		return MissingToken
	}
	return PasswordUpdate
}

func buildRoot(r *Router, _ url.Values, k Kind) Page {
	if k == Dashboard {
		return Page{LogoutTo: PathRoot}
	}
	return Page{Forms: []form.Form{form.NewLogin(r.deps), form.NewRegister(r.deps)}}
}

func buildDashboard(*Router, url.Values, Kind) Page {
	return Page{LogoutTo: PathLogin}
}

func buildLogin(r *Router, _ url.Values, _ Kind) Page {
	return Page{Flash: r.flash.Pop(), Forms: []form.Form{form.NewLogin(r.deps)}}
}

func buildSignup(r *Router, q url.Values, _ Kind) Page {
	return Page{Forms: []form.Form{form.NewSignup(r.deps, q.Get("token"), q.Get("email"))}}
}

func buildPasswordReset(r *Router, _ url.Values, _ Kind) Page {
	return Page{Forms: []form.Form{form.NewPasswordReset(r.deps)}}
}

func buildPasswordUpdate(r *Router, q url.Values, k Kind) Page {
	if k == MissingToken {
		return Page{}
	}
	return Page{Forms: []form.Form{form.NewPasswordUpdate(r.deps, q.Get("token"))}}
}
