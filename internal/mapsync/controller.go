package mapsync

import (
	"context"
	"errors"
	"sync"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/store"
	"phonedeal-be/internal/transport"

	"go.uber.org/zap"
)

// Controller keeps one map session's scope in step with viewport events and
// runs a search pass after every change. Only the newest pass renders.
type Controller struct {
	search  store.Service
	widget  MapWidget
	session string

	mu         sync.Mutex
	state      State
	scope      store.Scope
	autoRadius bool
	boundsOnly bool
	viewport   *geo.Bounds
	pass       uint64
	cancel     context.CancelFunc
}

type Option func(*Controller)

func WithSession(id string) Option {
	return func(c *Controller) {
		c.session = id
	}
}

// WithQueryState seeds the controller from URL state.
func WithQueryState(q QueryState) Option {
	return func(c *Controller) {
		c.scope = q.Scope
		c.scope.Bounds = nil
		c.autoRadius = q.AutoRadius
		c.boundsOnly = q.BoundsOnly
	}
}

func NewController(search store.Service, widget MapWidget, opts ...Option) *Controller {
	c := &Controller{
		search:     search,
		widget:     widget,
		state:      Idle,
		scope:      store.DefaultScope(),
		autoRadius: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Scope returns a copy of the current scope.
func (c *Controller) Scope() store.Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// QueryState captures what the URL should show for this session.
func (c *Controller) QueryState() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return QueryState{Scope: c.snapshotLocked(), AutoRadius: c.autoRadius, BoundsOnly: c.boundsOnly}
}

// Locate sets the center from geolocation, or the default center when the
// location is unavailable, and runs the first pass.
func (c *Controller) Locate(ctx context.Context, p geo.Point, ok bool) ([]store.BestOffer, error) {
	c.mu.Lock()
	if !ok || !p.Valid() {
		p = store.DefaultCenter
	}
	c.scope.Center = p
	if c.state == Idle {
		c.transitionLocked(ctx, CenterReady)
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// OnViewportChanged handles a settled pan or zoom. The first one moves the
// session into Tracking for good. On an Idle session the viewport center
// serves as the located center, so the session passes through CenterReady.
func (c *Controller) OnViewportChanged(ctx context.Context, vp Viewport) ([]store.BestOffer, error) {
	c.mu.Lock()
	if c.state == Idle {
		c.transitionLocked(ctx, CenterReady)
	}
	if c.state != Tracking {
		c.transitionLocked(ctx, Tracking)
	}
	c.scope.Center = vp.Center
	b := vp.Bounds()
	c.viewport = &b
	if c.autoRadius {
		c.scope.RadiusMeters = geo.RadiusFromViewport(vp.Center, vp.NorthEast)
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// UpdateScope applies a filter change and reruns the search. Geometry stays
// owned by the controller: fn cannot switch bounds mode on.
func (c *Controller) UpdateScope(ctx context.Context, fn func(*store.Scope)) ([]store.BestOffer, error) {
	c.mu.Lock()
	fn(&c.scope)
	c.scope.Bounds = nil
	if c.scope.Mode == "" {
		c.scope.Mode = deal.ScopeAll
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

func (c *Controller) SetAutoRadius(ctx context.Context, on bool) ([]store.BestOffer, error) {
	c.mu.Lock()
	c.autoRadius = on
	if on && c.viewport != nil {
		c.scope.RadiusMeters = geo.RadiusFromViewport(c.scope.Center, c.viewport.NorthEast)
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// ApplyQuery replaces the filters and toggles with URL state in one pass.
// The center and viewport are kept.
func (c *Controller) ApplyQuery(ctx context.Context, q QueryState) ([]store.BestOffer, error) {
	c.mu.Lock()
	center := c.scope.Center
	c.scope = q.Scope
	c.scope.Center = center
	c.scope.Bounds = nil
	c.autoRadius = q.AutoRadius
	c.boundsOnly = q.BoundsOnly
	if c.autoRadius && c.viewport != nil {
		c.scope.RadiusMeters = geo.RadiusFromViewport(center, c.viewport.NorthEast)
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

func (c *Controller) SetBoundsOnly(ctx context.Context, on bool) ([]store.BestOffer, error) {
	c.mu.Lock()
	c.boundsOnly = on
	c.mu.Unlock()

	return c.Refresh(ctx)
}

var transitions = map[State]State{
	Idle:        CenterReady,
	CenterReady: Tracking,
}

func (c *Controller) transitionLocked(ctx context.Context, to State) {
	if transitions[c.state] != to {
		logger.FromCtx(ctx).Warn("invalid map session transition",
			zap.Stringer("from", c.state),
			zap.Stringer("to", to),
		)
		return
	}
	logger.FromCtx(ctx).Debug("map session state changed",
		zap.Stringer("from", c.state),
		zap.Stringer("to", to),
	)
	c.state = to
}

// Refresh starts a new pass, cancelling the one in flight. Before the
// center is known it does nothing.
func (c *Controller) Refresh(ctx context.Context) ([]store.BestOffer, error) {
	c.mu.Lock()
	if c.state == Idle {
		c.mu.Unlock()
		return nil, nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.pass++
	pass := c.pass
	pctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	scope := c.snapshotLocked()
	c.mu.Unlock()
	defer cancel()

	if c.session != "" && transport.SessionFrom(pctx) != c.session {
		pctx = transport.WithSession(pctx, c.session)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "MapSync"),
		zap.String("method", "Refresh"),
		zap.Uint64("pass", pass),
	)

	res, err := c.search.Search(pctx, scope, store.WithPartial(func(partial []store.BestOffer) {
		c.render(pass, false, partial)
	}))

	if err != nil {
		if !c.isCurrent(pass) && errors.Is(err, context.Canceled) {
			return nil, ErrStalePass
		}
		log.Warn("search pass failed", zap.Error(err))
		return nil, err
	}

	if !c.render(pass, true, res) {
		log.Debug("discarding superseded pass")
		return nil, ErrStalePass
	}
	return res, nil
}

// render draws a batch if pass is still the newest.
func (c *Controller) render(pass uint64, final bool, offers []store.BestOffer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pass != c.pass {
		return false
	}
	if c.widget != nil {
		c.widget.Render(Batch{Pass: pass, Final: final, Annotations: Annotations(offers)})
	}
	return true
}

func (c *Controller) isCurrent(pass uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pass == c.pass
}

func (c *Controller) snapshotLocked() store.Scope {
	s := c.scope
	s.Bounds = nil
	if c.boundsOnly && c.viewport != nil {
		b := *c.viewport
		s.Bounds = &b
	}
	return s
}

// Annotations turns best offers into map markers labelled with store name
// and price.
func Annotations(offers []store.BestOffer) []Annotation {
	out := make([]Annotation, 0, len(offers))
	for _, o := range offers {
		out = append(out, Annotation{
			StoreID:  o.Seller.ID,
			Position: o.Coordinates,
			Label:    o.Seller.Name + " " + deal.FormatPrice(o.Offer.Price),
		})
	}
	return out
}
