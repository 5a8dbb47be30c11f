package weatherbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rmrobinson/weatherbox/lib/debounce"
	"github.com/rmrobinson/weatherbox/lib/stream"
	"github.com/rmrobinson/weatherbox/services/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errNotFound = errors.New("unexpected response status: 404")

type fakeFeed struct {
	lock sync.Mutex

	places  map[string][]weather.Place
	gates   map[string]chan struct{}
	reports map[string]*weather.Report

	placeQueries []string
	reportCities []string
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		places:  map[string][]weather.Place{},
		gates:   map[string]chan struct{}{},
		reports: map[string]*weather.Report{},
	}
}

func (ff *fakeFeed) gate(key string) chan struct{} {
	ff.lock.Lock()
	defer ff.lock.Unlock()

	ch := make(chan struct{})
	ff.gates[key] = ch
	return ch
}

func (ff *fakeFeed) wait(key string) {
	ff.lock.Lock()
	ch := ff.gates[key]
	ff.lock.Unlock()

	if ch != nil {
		<-ch
	}
}

func (ff *fakeFeed) GetCurrentReport(ctx context.Context, city string) (*weather.Report, error) {
	ff.lock.Lock()
	ff.reportCities = append(ff.reportCities, city)
	report := ff.reports[city]
	ff.lock.Unlock()

	ff.wait(city)
	if report == nil {
		return nil, errNotFound
	}
	return report, nil
}

func (ff *fakeFeed) FindPlaces(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	ff.lock.Lock()
	ff.placeQueries = append(ff.placeQueries, query)
	places, ok := ff.places[query]
	ff.lock.Unlock()

	ff.wait(query)
	if !ok {
		return nil, errors.New("connection refused")
	}
	return places, nil
}

func (ff *fakeFeed) queries() []string {
	ff.lock.Lock()
	defer ff.lock.Unlock()
	return append([]string(nil), ff.placeQueries...)
}

func (ff *fakeFeed) cities() []string {
	ff.lock.Lock()
	defer ff.lock.Unlock()
	return append([]string(nil), ff.reportCities...)
}

type harness struct {
	feed      *fakeFeed
	scheduler *debounce.ManualScheduler
	source    *stream.Source
	c         *Controller
}

func newHarness(t *testing.T) *harness {
	logger := zaptest.NewLogger(t)
	h := &harness{
		feed:      newFakeFeed(),
		scheduler: debounce.NewManualScheduler(),
		source:    stream.NewSource(logger),
	}
	h.c = NewController(logger, weather.NewAPI(logger, h.feed), h.source, h.scheduler, DefaultDebounce)
	t.Cleanup(h.c.Close)
	return h
}

// typeQuery sets the query and lets the debounce window elapse.
func (h *harness) typeQuery(q string) {
	h.c.SetQuery(q)
	h.scheduler.Advance(DefaultDebounce)
	h.c.Wait()
}

var kyiv = &weather.Report{
	Name:               "Kyiv",
	Country:            "UA",
	TemperatureCelsius: 20.4,
	FeelsLikeCelsius:   19.1,
	HumidityPercentage: 55,
	WindSpeedMPerSec:   3.2,
	Condition:          "Clear",
	Description:        "clear sky",
}

func TestRapidKeystrokesSendOneRequest(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Dn"] = []weather.Place{{Name: "Dnipro", Country: "UA"}}

	h.c.SetQuery("D")
	h.scheduler.Advance(150 * time.Millisecond)
	h.c.SetQuery("Dn")
	h.scheduler.Advance(299 * time.Millisecond)
	h.c.Wait()
	assert.Empty(t, h.feed.queries())

	h.scheduler.Advance(time.Millisecond)
	h.c.Wait()
	assert.Equal(t, []string{"Dn"}, h.feed.queries())
}

func TestSuggestionsForPrefix(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Dnipr"] = []weather.Place{{Name: "Dnipro", Country: "UA"}}

	h.typeQuery("Dnipr")

	s := h.c.State()
	require.Len(t, s.Suggestions, 1)
	assert.Equal(t, "Dnipro, UA", s.Suggestions[0].Label())
	assert.True(t, s.ShowSuggestions)
	assert.Equal(t, "Dnipr", s.Query)
}

func TestAtMostFiveSuggestionsVisible(t *testing.T) {
	h := newHarness(t)
	var places []weather.Place
	for i := 0; i < 8; i++ {
		places = append(places, weather.Place{Name: fmt.Sprintf("Springfield %d", i), Country: "US"})
	}
	h.feed.places["Spring"] = places

	h.typeQuery("Spring")

	s := h.c.State()
	assert.Len(t, s.Suggestions, MaxVisibleSuggestions)
	assert.Equal(t, 8, s.MatchCount)
	assert.Equal(t, "Springfield 0", s.Suggestions[0].Name)
}

func TestNoMatchesHidesDropdown(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Kyiv"] = []weather.Place{{Name: "Kiev", Country: "US"}}

	h.typeQuery("Kyiv")

	s := h.c.State()
	assert.Empty(t, s.Suggestions)
	assert.False(t, s.ShowSuggestions)
}

func TestSuggestionFailureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Ky"] = []weather.Place{{Name: "Kyiv", Country: "UA"}}
	h.typeQuery("Ky")
	require.True(t, h.c.State().ShowSuggestions)

	// no canned places for "Kyx" so the feed fails
	h.typeQuery("Kyx")

	s := h.c.State()
	assert.Empty(t, s.Suggestions)
	assert.False(t, s.ShowSuggestions)
	assert.Empty(t, s.Error)
}

func TestEmptyQueryClearsWithoutRequest(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Ky"] = []weather.Place{{Name: "Kyiv", Country: "UA"}}
	h.typeQuery("Ky")
	require.Len(t, h.c.State().Suggestions, 1)

	h.c.SetQuery("K")
	h.c.SetQuery("")
	h.scheduler.Advance(time.Second)
	h.c.Wait()

	s := h.c.State()
	assert.Empty(t, s.Suggestions)
	assert.False(t, s.ShowSuggestions)
	assert.Equal(t, []string{"Ky"}, h.feed.queries())
	assert.Equal(t, 0, h.scheduler.PendingCount())
}

func TestStaleSuggestionsAreDropped(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Kr"] = []weather.Place{{Name: "Krakow", Country: "PL"}, {Name: "Kropyvnytskyi", Country: "UA"}}
	h.feed.places["Kra"] = []weather.Place{{Name: "Kramatorsk", Country: "UA"}}
	slow := h.feed.gate("Kr")

	h.c.SetQuery("Kr")
	h.scheduler.Advance(DefaultDebounce)
	h.c.SetQuery("Kra")
	h.scheduler.Advance(DefaultDebounce)

	require.Eventually(t, func() bool {
		return h.c.State().MatchCount == 1
	}, time.Second, 5*time.Millisecond)

	close(slow)
	h.c.Wait()

	s := h.c.State()
	require.Len(t, s.Suggestions, 1)
	assert.Equal(t, "Kramatorsk", s.Suggestions[0].Name)
	// both lookups were dispatched; the goroutines may reach the feed in either order
	assert.ElementsMatch(t, []string{"Kr", "Kra"}, h.feed.queries())
}

func TestSubmitSuccess(t *testing.T) {
	h := newHarness(t)
	h.feed.reports["Kyiv"] = kyiv

	h.c.SetQuery("Kyiv")
	h.c.Submit()
	h.c.Wait()

	s := h.c.State()
	require.NotNil(t, s.Report)
	assert.Equal(t, "20°C", s.Report.TemperatureText())
	assert.Equal(t, "3 m/s", s.Report.WindSpeedText())
	assert.Empty(t, s.Error)
	assert.False(t, s.Loading)
}

func TestSubmitFailure(t *testing.T) {
	h := newHarness(t)

	h.c.SetQuery("Nonexistentville")
	h.c.Submit()
	h.c.Wait()

	s := h.c.State()
	assert.Nil(t, s.Report)
	assert.Equal(t, "City not found or API error.", s.Error)
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"Nonexistentville"}, h.feed.cities())
}

func TestSubmitClearsPreviousOutcome(t *testing.T) {
	h := newHarness(t)
	h.feed.reports["Kyiv"] = kyiv

	h.c.SetQuery("Nowhere")
	h.c.Submit()
	h.c.Wait()
	require.NotEmpty(t, h.c.State().Error)

	release := h.feed.gate("Kyiv")
	h.c.SetQuery("Kyiv")
	h.c.Submit()

	s := h.c.State()
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Nil(t, s.Report)

	close(release)
	h.c.Wait()

	s = h.c.State()
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.NotNil(t, s.Report)
}

func TestOnlyLatestReportApplied(t *testing.T) {
	h := newHarness(t)
	h.feed.reports["Kyiv"] = kyiv
	h.feed.reports["Lviv"] = &weather.Report{Name: "Lviv", Country: "UA", Condition: "Rain"}
	slow := h.feed.gate("Kyiv")

	h.c.SetQuery("Kyiv")
	h.c.Submit()
	h.c.SetQuery("Lviv")
	h.c.Submit()

	close(slow)
	h.c.Wait()

	s := h.c.State()
	require.NotNil(t, s.Report)
	assert.Equal(t, "Lviv", s.Report.Name)
}

func TestBlankSubmitIgnored(t *testing.T) {
	h := newHarness(t)

	h.c.Submit()
	h.c.SetQuery("   ")
	h.c.Submit()
	h.c.Wait()

	assert.Empty(t, h.feed.cities())
	assert.False(t, h.c.State().Loading)
}

func TestSelectFetchesQualifiedLabel(t *testing.T) {
	h := newHarness(t)
	springfield := weather.Place{Name: "Springfield", State: "Illinois", Country: "US"}
	h.feed.places["Springf"] = []weather.Place{springfield}
	h.feed.reports["Springfield, Illinois, US"] = &weather.Report{Name: "Springfield", Country: "US", Condition: "Clouds"}

	h.typeQuery("Springf")
	require.True(t, h.c.State().ShowSuggestions)

	h.c.Select(springfield)
	h.scheduler.Advance(time.Second)
	h.c.Wait()

	s := h.c.State()
	assert.Equal(t, "Springfield, Illinois, US", s.Query)
	assert.Empty(t, s.Suggestions)
	assert.False(t, s.ShowSuggestions)
	assert.NotNil(t, s.Report)
	assert.Equal(t, []string{"Springfield, Illinois, US"}, h.feed.cities())
	assert.Equal(t, []string{"Springf"}, h.feed.queries())
}

func TestSelectCancelsPendingSuggestions(t *testing.T) {
	h := newHarness(t)
	dnipro := weather.Place{Name: "Dnipro", Country: "UA"}
	h.feed.places["Dnipr"] = []weather.Place{dnipro}
	h.feed.reports["Dnipro, UA"] = &weather.Report{Name: "Dnipro", Country: "UA"}

	h.typeQuery("Dnipr")
	h.c.SetQuery("Dnipro")
	h.c.Select(dnipro)
	h.scheduler.Advance(time.Second)
	h.c.Wait()

	assert.Equal(t, []string{"Dnipr"}, h.feed.queries())
	assert.Equal(t, []string{"Dnipro, UA"}, h.feed.cities())
	assert.Equal(t, "Dnipro, UA", h.c.State().Query)
}

func TestSelectAfterBlur(t *testing.T) {
	h := newHarness(t)
	dnipro := weather.Place{Name: "Dnipro", Country: "UA"}
	h.feed.places["Dnipr"] = []weather.Place{dnipro}
	h.feed.reports["Dnipro, UA"] = &weather.Report{Name: "Dnipro", Country: "UA"}

	h.typeQuery("Dnipr")
	h.c.Blur()
	assert.False(t, h.c.State().ShowSuggestions)

	h.c.Select(dnipro)
	h.c.Wait()
	assert.Equal(t, []string{"Dnipro, UA"}, h.feed.cities())
}

func TestFocusRestoresDropdown(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Ky"] = []weather.Place{{Name: "Kyiv", Country: "UA"}}

	h.c.Focus()
	assert.False(t, h.c.State().ShowSuggestions)

	h.typeQuery("Ky")
	h.c.Blur()
	require.False(t, h.c.State().ShowSuggestions)
	assert.Len(t, h.c.State().Suggestions, 1)

	h.c.Focus()
	assert.True(t, h.c.State().ShowSuggestions)
}

func TestDropdownGeometry(t *testing.T) {
	h := newHarness(t)
	h.feed.places["Ky"] = []weather.Place{{Name: "Kyiv", Country: "UA"}}

	h.c.SetAnchor(Rect{X: 4, Y: 5, Width: 40, Height: 3}, Rect{X: 2, Y: 1, Width: 80, Height: 24})
	h.typeQuery("Ky")
	assert.Equal(t, Geometry{Top: 7, Left: 2, Width: 40}, h.c.State().Dropdown)

	// moving the field only takes effect the next time the dropdown is shown
	h.c.SetAnchor(Rect{X: 4, Y: 9, Width: 30, Height: 3}, Rect{X: 2, Y: 1, Width: 80, Height: 24})
	assert.Equal(t, Geometry{Top: 7, Left: 2, Width: 40}, h.c.State().Dropdown)

	h.c.Blur()
	h.c.Focus()
	assert.Equal(t, Geometry{Top: 11, Left: 2, Width: 30}, h.c.State().Dropdown)
}

func TestStatePublished(t *testing.T) {
	h := newHarness(t)
	sink := h.source.NewSink()
	defer sink.Close()

	h.c.SetQuery("K")

	select {
	case msg := <-sink.Messages():
		s, ok := msg.(*State)
		require.True(t, ok)
		assert.Equal(t, "K", s.Query)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
}

func TestReportAndErrorExclusive(t *testing.T) {
	h := newHarness(t)
	h.feed.reports["Kyiv"] = kyiv
	sink := h.source.NewSink()
	defer sink.Close()

	for _, city := range []string{"Kyiv", "Nowhere", "Kyiv"} {
		h.c.SetQuery(city)
		h.c.Submit()
		h.c.Wait()
	}

	for len(sink.Messages()) > 0 {
		s := (<-sink.Messages()).(*State)
		assert.False(t, s.Report != nil && s.Error != "", "both report and error set: %s", s)
	}
}
