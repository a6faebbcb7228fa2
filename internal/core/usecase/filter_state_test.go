package usecase

import (
	"context"
	"session-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPriceBounds = domain.RangeBounds{Floor: 0, Ceiling: 100_000_000}
	testAreaBounds  = domain.RangeBounds{Floor: 0, Ceiling: 10_000}
)

func TestFilterState_PresetScenario(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	assert.Equal(t, 0, state.ActiveFilterCount())
	assert.False(t, state.IsDirty())

	state.UpdateFilters(domain.FiltersPatch{MinPrice: domain.Patch(domain.Int64(500_000))})
	assert.Equal(t, 1, state.ActiveFilterCount())
	assert.True(t, state.IsDirty())

	filters, err := state.ApplyPreset(context.Background(), domain.PresetLuxuryVillas)
	require.NoError(t, err)

	preset, err := domain.PresetByName(domain.PresetLuxuryVillas)
	require.NoError(t, err)
	assert.Equal(t, preset.Filters, filters)
	assert.Equal(t, preset.Filters, state.Filters())
	assert.Equal(t, 5, state.ActiveFilterCount())
}

func TestFilterState_TogglePropertyTypeTwiceRestoresMembership(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)

	for _, pt := range []domain.PropertyType{domain.PropertyTypeVilla, domain.PropertyTypeStudio} {
		before := state.Filters().HasPropertyType(pt)

		_, err := state.TogglePropertyType(pt)
		require.NoError(t, err)
		assert.NotEqual(t, before, state.Filters().HasPropertyType(pt))

		_, err = state.TogglePropertyType(pt)
		require.NoError(t, err)
		assert.Equal(t, before, state.Filters().HasPropertyType(pt))
	}

	_, err := state.TogglePropertyType("castle")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFilterState_ToggleAmenity(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)

	filters, err := state.ToggleAmenity("gym")
	require.NoError(t, err)
	assert.Equal(t, []string{"gym"}, filters.Amenities)

	filters, err = state.ToggleAmenity("gym")
	require.NoError(t, err)
	assert.Empty(t, filters.Amenities)

	_, err = state.ToggleAmenity("")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFilterState_ResetZeroesCount(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	_, err := state.ApplyPreset(context.Background(), domain.PresetBudgetApartments)
	require.NoError(t, err)
	state.SetPriceRange(domain.Range{Min: domain.Int64(100)})
	require.NotZero(t, state.ActiveFilterCount())

	state.ResetFilters()

	assert.Equal(t, 0, state.ActiveFilterCount())
	assert.False(t, state.IsDirty())
	assert.Equal(t, domain.DefaultFilters(), state.Filters())
	assert.True(t, state.Snapshot().PriceRange.IsEmpty())
}

func TestFilterState_UnknownPresetLeavesStateUntouched(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	state.UpdateFilters(domain.FiltersPatch{Location: domain.Patch("Pune")})

	_, err := state.ApplyPreset(context.Background(), "penthouses_on_mars")
	assert.ErrorIs(t, err, domain.ErrUnknownPreset)
	assert.Equal(t, "Pune", state.Filters().Location)
}

func TestFilterState_MergeDoesNotValidate(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	state.UpdateFilters(domain.FiltersPatch{
		MinPrice: domain.Patch(domain.Int64(900)),
		MaxPrice: domain.Patch(domain.Int64(100)),
	})
	assert.Equal(t, int64(900), *state.Filters().MinPrice)

	_, err := state.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestFilterState_SubmitFoldsTouchedRanges(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	state.UpdateFilters(domain.FiltersPatch{
		Location:  domain.Patch("  Navi   Mumbai "),
		Amenities: domain.Patch([]string{"Gym", "gym", "Parking"}),
	})
	state.SetPriceRange(domain.Range{Min: domain.Int64(1_000_000), Max: domain.Int64(100_000_000)})

	filters, err := state.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "navi mumbai", filters.Location)
	assert.Equal(t, []string{"gym", "parking"}, filters.Amenities)
	require.NotNil(t, filters.MinPrice)
	assert.Equal(t, int64(1_000_000), *filters.MinPrice)
	// без OpenEnded крайнее значение слайдера сохраняется буквально
	require.NotNil(t, filters.MaxPrice)
	assert.Equal(t, int64(100_000_000), *filters.MaxPrice)
	assert.Nil(t, filters.MinArea, "untouched area range is not folded")
}

func TestFilterState_SubmitOpenEndedSentinel(t *testing.T) {
	openEnded := domain.RangeBounds{Floor: 0, Ceiling: 100_000_000, OpenEnded: true}
	state := NewFilterState(openEnded, testAreaBounds)
	state.SetPriceRange(domain.Range{Min: domain.Int64(0), Max: domain.Int64(100_000_000)})

	filters, err := state.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, filters.MinPrice)
	assert.Nil(t, filters.MaxPrice)
}

func TestFilterState_SubmitRejectsInvertedRange(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	state.SetAreaRange(domain.Range{Min: domain.Int64(2_000), Max: domain.Int64(500)})

	_, err := state.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	assert.Nil(t, state.Filters().MinArea, "failed submit keeps the record unchanged")
}

func TestFilterState_SetFiltersClearsPendingRanges(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	state.SetPriceRange(domain.Range{Max: domain.Int64(5_000)})

	state.SetFilters(domain.DefaultFilters().Merge(domain.FiltersPatch{Bedrooms: domain.Patch(domain.Int(3))}))

	filters, err := state.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, filters.MaxPrice)
	assert.Equal(t, 3, *filters.Bedrooms)
}

func TestFilterState_PatchedBoundsOverridePendingRange(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	state.SetPriceRange(domain.Range{Min: domain.Int64(1_000), Max: domain.Int64(5_000)})
	state.SetAreaRange(domain.Range{Min: domain.Int64(50), Max: domain.Int64(80)})

	first, err := state.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), *first.MaxPrice)

	state.UpdateFilters(domain.FiltersPatch{MaxPrice: domain.Patch(domain.Int64(9_000))})

	filters, err := state.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, filters.MaxPrice)
	assert.Equal(t, int64(9_000), *filters.MaxPrice)
	// нижняя граница осталась от первого Submit, патч ее не трогал
	require.NotNil(t, filters.MinPrice)
	assert.Equal(t, int64(1_000), *filters.MinPrice)
	assert.True(t, state.Snapshot().PriceRange.IsEmpty(), "pending price range is dropped")
	assert.False(t, state.Snapshot().AreaRange.IsEmpty())
	// диапазон площади патч не затрагивал
	require.NotNil(t, filters.MinArea)
	assert.Equal(t, int64(50), *filters.MinArea)
}

func TestFilterState_ToggleAmenityIgnoresCase(t *testing.T) {
	state := NewFilterState(testPriceBounds, testAreaBounds)
	_, err := state.ApplyPreset(context.Background(), domain.PresetBudgetApartments)
	require.NoError(t, err)
	require.True(t, state.Filters().HasAmenity("parking"))

	filters, err := state.ToggleAmenity("Parking")
	require.NoError(t, err)
	assert.False(t, filters.HasAmenity("parking"))
	assert.NotContains(t, filters.Amenities, "Parking")

	filters, err = state.ToggleAmenity(" PARKING ")
	require.NoError(t, err)
	assert.Equal(t, 1, countOf(filters.Amenities, "parking"))

	_, err = state.ToggleAmenity("   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func countOf(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
