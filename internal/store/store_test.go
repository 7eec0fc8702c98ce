package store_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

func TestDefaultState(t *testing.T) {
	t.Parallel()

	st := store.DefaultState()

	assert.Equal(t, filter.DefaultSelection(), st.Selection)
	assert.Equal(t, season.Past, st.Season)
	assert.Equal(t, season.PeriodAll, st.Period)
	assert.Equal(t, dataset.MetricDownloadsIndexed, st.UserMetric)
	assert.Equal(t, dataset.MetricAdOpportunities, st.AdvertiserMetric)
}

func TestDispatch_NotifiesOnChangeOnly(t *testing.T) {
	t.Parallel()

	s := store.New(store.DefaultState())

	var got []store.State

	unsubscribe := s.Subscribe(func(st store.State) { got = append(got, st) })

	s.Dispatch(store.SetCountry("JPN"), store.SetSystem(dataset.SystemAndroid))
	s.Dispatch(store.SetCountry("JPN"))

	require.Len(t, got, 1, "batched actions notify once and no-ops do not notify")
	assert.Equal(t, "JPN", got[0].Selection.Country)
	assert.Equal(t, dataset.SystemAndroid, got[0].Selection.System)

	unsubscribe()
	unsubscribe()
	s.Dispatch(store.SetSeason(season.Current))

	assert.Len(t, got, 1)
	assert.Equal(t, season.Current, s.State().Season)
}

func TestSetCategory_ResetsVertical(t *testing.T) {
	t.Parallel()

	s := store.New(store.DefaultState())

	s.Dispatch(store.SetVertical("Casual"))
	assert.Equal(t, "casual", s.State().Selection.Vertical)

	s.Dispatch(store.SetCategory(dataset.CategoryGaming))
	assert.Equal(t, "casual", s.State().Selection.Vertical, "same category keeps the vertical")

	s.Dispatch(store.SetCategory(dataset.CategoryConsumer))
	assert.Equal(t, dataset.VerticalAll, s.State().Selection.Vertical)
}

func TestApplyRecovery(t *testing.T) {
	t.Parallel()

	s := store.New(store.DefaultState())
	s.Dispatch(store.SetCategory(dataset.CategoryConsumer), store.SetVertical("finance"))

	st := s.Dispatch(store.ApplyRecovery(filter.Recovery{Category: dataset.CategoryConsumer, Vertical: dataset.VerticalAll}))

	assert.Equal(t, dataset.CategoryConsumer, st.Selection.Category)
	assert.Equal(t, dataset.VerticalAll, st.Selection.Vertical)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	t.Parallel()

	s := store.New(store.DefaultState())

	var (
		mu    sync.Mutex
		calls int
	)

	s.Subscribe(func(store.State) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			metric := dataset.MetricCPM
			if i%2 == 0 {
				metric = dataset.MetricCPI
			}

			s.Dispatch(store.SetAdvertiserMetric(metric))
			_ = s.State()
		}()
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	assert.Positive(t, calls)
	assert.LessOrEqual(t, calls, 50)
}

func TestPatch_Apply(t *testing.T) {
	t.Parallel()

	base := store.DefaultState()
	base.Selection.Vertical = "casual"

	st, err := store.Patch{
		System:           "android",
		Country:          "JPN",
		Category:         "non-gaming",
		Vertical:         "Consumer-All",
		Season:           "Current",
		Period:           "q4",
		AdvertiserMetric: dataset.MetricCPM,
	}.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, dataset.SystemAndroid, st.Selection.System)
	assert.Equal(t, "JPN", st.Selection.Country)
	assert.Equal(t, dataset.CategoryConsumer, st.Selection.Category)
	assert.Equal(t, dataset.VerticalAll, st.Selection.Vertical)
	assert.Equal(t, season.Current, st.Season)
	assert.Equal(t, season.PeriodID("q4"), st.Period)
	assert.Equal(t, dataset.MetricCPM, st.AdvertiserMetric)
	assert.Equal(t, "casual", base.Selection.Vertical, "base is not mutated")
}

func TestPatch_VerticalSurvivesCategoryChange(t *testing.T) {
	t.Parallel()

	st, err := store.Patch{Category: "consumer", Vertical: "shopping"}.Apply(store.DefaultState())
	require.NoError(t, err)

	assert.Equal(t, "shopping", st.Selection.Vertical)
}

func TestPatch_ResetVertical(t *testing.T) {
	t.Parallel()

	base := store.DefaultState()
	base.Selection.Vertical = "casual"

	st, err := store.Patch{ResetVertical: true}.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, dataset.VerticalAll, st.Selection.Vertical)
}

func TestPatch_Errors(t *testing.T) {
	t.Parallel()

	_, err := store.Patch{System: "windows"}.Apply(store.DefaultState())
	require.ErrorIs(t, err, dataset.ErrUnknownSystem)

	_, err = store.Patch{Category: "toys"}.Apply(store.DefaultState())
	require.ErrorIs(t, err, dataset.ErrUnknownCategory)

	_, err = store.Patch{Season: "next"}.Apply(store.DefaultState())
	require.ErrorIs(t, err, season.ErrUnknownSeason)

	actions, err := store.Patch{}.Actions()
	require.NoError(t, err)
	assert.Empty(t, actions)
}
