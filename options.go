package discovery

import "go.uber.org/zap"

// Viewport holds the camera defaults the engine uses when refitting.
type Viewport struct {
	// Center and Zoom are the default view shown when the filtered set is
	// empty.
	Center Coordinates
	Zoom   float64
	// DetailZoom is used when centering on a focused marker.
	DetailZoom float64
	// FitPadding and FitMaxZoom bound the refit after each sync, so a
	// single very close listing cannot force an absurdly tight zoom.
	FitPadding float64
	FitMaxZoom float64
}

type engineConfig struct {
	log       *zap.Logger
	viewport  Viewport
	callbacks Callbacks
	deepLink  string
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		log: zap.NewNop(),
		viewport: Viewport{
			Center:     Coordinates{Lon: 80.2707, Lat: 13.0827},
			Zoom:       11,
			DetailZoom: 15,
			FitPadding: 48,
			FitMaxZoom: 15,
		},
	}
}

// Option configures the Engine.
type Option func(*engineConfig)

// WithLogger sets the engine logger (default: no-op).
func WithLogger(log *zap.Logger) Option {
	return func(c *engineConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithViewport overrides the camera defaults.
func WithViewport(v Viewport) Option {
	return func(c *engineConfig) {
		def := c.viewport
		if v.Zoom <= 0 {
			v.Zoom = def.Zoom
		}
		if v.DetailZoom <= 0 {
			v.DetailZoom = def.DetailZoom
		}
		if v.FitPadding <= 0 {
			v.FitPadding = def.FitPadding
		}
		if v.FitMaxZoom <= 0 {
			v.FitMaxZoom = def.FitMaxZoom
		}
		c.viewport = v
	}
}

// WithCallbacks registers host UI callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(c *engineConfig) { c.callbacks = cb }
}

// WithDeepLink seeds the selection with a listing id (e.g. from a query
// parameter) after the first successful marker sync.
func WithDeepLink(listingID string) Option {
	return func(c *engineConfig) { c.deepLink = listingID }
}
