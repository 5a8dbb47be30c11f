package weatherbox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rmrobinson/weatherbox/lib/debounce"
	"github.com/rmrobinson/weatherbox/lib/stream"
	"github.com/rmrobinson/weatherbox/services/weather"
	"go.uber.org/zap"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before suggestions are requested.
	DefaultDebounce = 300 * time.Millisecond
	// MaxVisibleSuggestions caps the number of suggestions shown in the dropdown.
	MaxVisibleSuggestions = 5
	// LookupFailedMessage is shown for any failed weather lookup.
	LookupFailedMessage = "City not found or API error."
)

// Lookup is the weather backend used by the controller.
type Lookup interface {
	Suggest(ctx context.Context, query string) ([]weather.Place, error)
	GetCurrentReport(ctx context.Context, city string) (*weather.Report, error)
}

// Controller owns the state of a weather lookup widget: the typed query, the suggestions derived from it,
// and the outcome of the latest weather lookup. Every change is published to the source as a State snapshot.
//
// Requests run on their own goroutines. Each carries a sequence token and only the response to the
// most recently dispatched request of its kind is applied; stale responses are dropped.
type Controller struct {
	logger    *zap.Logger
	lookup    Lookup
	source    *stream.Source
	debouncer *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lock            sync.Mutex
	query           string
	suggestions     []weather.Place
	showSuggestions bool
	dropdown        Geometry
	field           Rect
	reference       Rect
	loading         bool
	errMsg          string
	report          *weather.Report

	suggestSeq uint64
	reportSeq  uint64
}

// NewController creates a new controller. Suggestions are requested once the query has been left
// unchanged for delay, as measured by the scheduler.
func NewController(logger *zap.Logger, lookup Lookup, source *stream.Source, scheduler debounce.Scheduler, delay time.Duration) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		logger:    logger,
		lookup:    lookup,
		source:    source,
		debouncer: debounce.NewDebouncer(scheduler, delay),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetQuery records the text typed by the user.
// An empty query clears the suggestions straight away; anything else schedules a suggestion lookup.
func (c *Controller) SetQuery(query string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if query == c.query {
		return
	}
	c.query = query

	if query == "" {
		c.debouncer.Cancel()
		c.clearSuggestions()
	} else {
		c.debouncer.Trigger(func() {
			c.requestSuggestions(query)
		})
	}

	c.publish()
}

// Submit looks up the weather for the current query. Blank queries are ignored.
func (c *Controller) Submit() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if strings.TrimSpace(c.query) == "" {
		c.logger.Debug("ignoring blank submit")
		return
	}
	c.requestReport(c.query)
}

// Select picks a suggestion: the query becomes the place's label, the suggestions are dismissed,
// and the weather for that exact label is looked up.
// The place is passed by value so a selection still applies if the dropdown was hidden in the meantime.
func (c *Controller) Select(place weather.Place) {
	c.lock.Lock()
	defer c.lock.Unlock()

	label := place.Label()
	c.logger.Debug("suggestion selected",
		zap.String("label", label),
	)

	c.query = label
	c.debouncer.Cancel()
	c.clearSuggestions()
	c.requestReport(label)
}

// Focus shows the dropdown again if there is anything to show.
func (c *Controller) Focus() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.setShowSuggestions(len(c.suggestions) > 0)
	c.publish()
}

// Blur hides the dropdown. The suggestions are kept so focusing the field again restores them.
func (c *Controller) Blur() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.setShowSuggestions(false)
	c.publish()
}

// SetAnchor records where the input field and the reference container currently are on screen.
// The dropdown position is derived from these the next time it is shown or its contents change.
func (c *Controller) SetAnchor(field Rect, reference Rect) {
	c.lock.Lock()
	c.field = field
	c.reference = reference
	c.lock.Unlock()
}

// State returns a snapshot of the current state.
func (c *Controller) State() *State {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.snapshot()
}

// Wait blocks until all in-flight requests have completed.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels any pending or in-flight work and waits for it to finish.
func (c *Controller) Close() {
	c.lock.Lock()
	c.cancel()
	c.lock.Unlock()

	c.debouncer.Cancel()
	c.wg.Wait()
}

func (c *Controller) requestSuggestions(query string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.ctx.Err() != nil {
		return
	}

	c.suggestSeq++
	seq := c.suggestSeq

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		places, err := c.lookup.Suggest(c.ctx, query)
		c.applySuggestions(seq, query, places, err)
	}()
}

func (c *Controller) applySuggestions(seq uint64, query string, places []weather.Place, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if seq != c.suggestSeq {
		c.logger.Debug("dropping stale suggestions",
			zap.String("query", query),
			zap.Uint64("seq", seq),
			zap.Uint64("latest_seq", c.suggestSeq),
		)
		return
	}

	if err != nil {
		c.logger.Debug("suggestion lookup failed",
			zap.String("query", query),
			zap.Error(err),
		)
		places = nil
	}

	c.suggestions = places
	c.setShowSuggestions(len(places) > 0)
	c.publish()
}

// requestReport must be called with the lock held.
func (c *Controller) requestReport(city string) {
	if c.ctx.Err() != nil {
		return
	}

	c.reportSeq++
	seq := c.reportSeq

	c.errMsg = ""
	c.report = nil
	c.loading = true
	c.publish()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		report, err := c.lookup.GetCurrentReport(c.ctx, city)
		c.applyReport(seq, city, report, err)
	}()
}

func (c *Controller) applyReport(seq uint64, city string, report *weather.Report, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if seq != c.reportSeq {
		c.logger.Debug("dropping stale report",
			zap.String("city", city),
			zap.Uint64("seq", seq),
		)
		return
	}

	c.loading = false
	if err != nil || report == nil {
		c.logger.Info("weather lookup failed",
			zap.String("city", city),
			zap.Error(err),
		)
		c.report = nil
		c.errMsg = LookupFailedMessage
	} else {
		c.report = report
		c.errMsg = ""
	}
	c.publish()
}

// clearSuggestions must be called with the lock held. Any in-flight suggestion lookup becomes stale.
func (c *Controller) clearSuggestions() {
	c.suggestSeq++
	c.suggestions = nil
	c.showSuggestions = false
}

// setShowSuggestions must be called with the lock held.
func (c *Controller) setShowSuggestions(show bool) {
	c.showSuggestions = show
	if show {
		c.dropdown = dropdownGeometry(c.field, c.reference)
	}
}

// publish must be called with the lock held so snapshots go out in the order the changes were made.
func (c *Controller) publish() {
	c.source.SendMessage(c.snapshot())
}

func (c *Controller) snapshot() *State {
	visible := c.suggestions
	if len(visible) > MaxVisibleSuggestions {
		visible = visible[:MaxVisibleSuggestions]
	}

	s := &State{
		Query:           c.query,
		MatchCount:      len(c.suggestions),
		ShowSuggestions: c.showSuggestions,
		Dropdown:        c.dropdown,
		Loading:         c.loading,
		Error:           c.errMsg,
		Report:          c.report,
	}
	if len(visible) > 0 {
		s.Suggestions = append([]weather.Place(nil), visible...)
	}
	return s
}
