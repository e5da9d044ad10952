package spending

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

func sub(name, category string, price float64) models.Subscription {
	return models.Subscription{
		Name:     name,
		Category: category,
		Price:    price,
		Currency: "USD",
	}
}

func TestTotalMonthly(t *testing.T) {
	tests := []struct {
		name string
		subs []models.Subscription
		want float64
	}{
		{
			name: "empty collection",
			subs: nil,
			want: 0,
		},
		{
			name: "single subscription",
			subs: []models.Subscription{sub("Netflix", "Entertainment", 15.99)},
			want: 15.99,
		},
		{
			name: "sum over categories",
			subs: []models.Subscription{
				sub("Netflix", "Entertainment", 15.99),
				sub("Spotify", "Music", 9.99),
				sub("iCloud", "Cloud Storage", 2.99),
			},
			want: 28.97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalMonthly(tt.subs), 1e-9)
		})
	}
}

func TestTotalMonthly_OrderInvariant(t *testing.T) {
	subs := []models.Subscription{
		sub("Netflix", "Entertainment", 15.99),
		sub("Spotify", "Music", 9.99),
		sub("Notion", "Productivity", 8.00),
	}
	reversed := []models.Subscription{subs[2], subs[1], subs[0]}

	assert.InDelta(t, TotalMonthly(subs), TotalMonthly(reversed), 1e-9)
}

func TestByCategory(t *testing.T) {
	subs := []models.Subscription{
		sub("Spotify", "Music", 9.99),
		sub("Netflix", "Entertainment", 15.99),
	}

	rows := ByCategory(subs)
	require.Len(t, rows, 2)

	assert.Equal(t, "Entertainment", rows[0].Category)
	assert.InDelta(t, 15.99, rows[0].Amount, 1e-9)
	assert.InDelta(t, 15.99/25.98, rows[0].Share, 1e-9)

	assert.Equal(t, "Music", rows[1].Category)
	assert.InDelta(t, 9.99, rows[1].Amount, 1e-9)
	assert.InDelta(t, 9.99/25.98, rows[1].Share, 1e-9)
}

func TestByCategory_Empty(t *testing.T) {
	assert.Nil(t, ByCategory(nil))
	assert.Nil(t, ByCategory([]models.Subscription{}))
}

func TestByCategory_SumsMatchTotal(t *testing.T) {
	subs := []models.Subscription{
		sub("Netflix", "Entertainment", 15.99),
		sub("Disney+", "Entertainment", 7.99),
		sub("Spotify", "Music", 9.99),
		sub("Apple Music", "Music", 10.99),
		sub("Dropbox", "Cloud Storage", 11.99),
	}

	rows := ByCategory(subs)

	var amounts, shares float64
	for _, row := range rows {
		amounts += row.Amount
		shares += row.Share
	}
	assert.InDelta(t, TotalMonthly(subs), amounts, 1e-9)
	assert.InDelta(t, 1.0, shares, 1e-9)
}

func TestByCategory_TieBreakByName(t *testing.T) {
	subs := []models.Subscription{
		sub("Spotify", "Music", 9.99),
		sub("Netflix", "Entertainment", 9.99),
		sub("Duolingo", "Education", 9.99),
	}

	rows := ByCategory(subs)
	require.Len(t, rows, 3)
	assert.Equal(t, "Education", rows[0].Category)
	assert.Equal(t, "Entertainment", rows[1].Category)
	assert.Equal(t, "Music", rows[2].Category)
}

func TestByCategory_ZeroPrices(t *testing.T) {
	// Нулевые цены допустимы: строки есть, доли не считаются.
	subs := []models.Subscription{
		sub("Freebie", "Other", 0),
		sub("Trial", "Gaming", 0),
	}

	rows := ByCategory(subs)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Zero(t, row.Amount)
		assert.Zero(t, row.Share)
		assert.False(t, math.IsNaN(row.Share))
	}
	// При равных (нулевых) суммах порядок по названию.
	assert.Equal(t, "Gaming", rows[0].Category)
	assert.Equal(t, "Other", rows[1].Category)
}

func TestCategoryColor_Stable(t *testing.T) {
	for _, category := range models.Categories {
		first := CategoryColor(category)
		assert.Equal(t, first, CategoryColor(category))
		assert.GreaterOrEqual(t, first.R, 0.0)
		assert.LessOrEqual(t, first.R, 1.0)
	}
}
