package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":     1,
		"abc":  1,
		"0":    1,
		"-3":   1,
		"1":    1,
		"2":    2,
		"1.5":  1,
		"9999": 9999,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePage(raw), "raw=%q", raw)
	}
}

func TestPaginate_ThirteenItemsTenPerPage(t *testing.T) {
	t.Parallel()

	items := seq(13)

	first := Paginate(items, 1, 10)
	assert.Equal(t, 10, first.Len())
	assert.Equal(t, 2, first.TotalPages)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.NextNumber())

	second := Paginate(items, 2, 10)
	assert.Equal(t, 3, second.Len())
	assert.Equal(t, []int{11, 12, 13}, second.Items)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
	assert.Equal(t, 1, second.PreviousNumber())
	assert.Equal(t, []int{1, 2}, second.Pages())
}

func TestPaginate_PageSizes(t *testing.T) {
	t.Parallel()

	for _, total := range []int{1, 9, 10, 11, 20, 25, 31} {
		size := 10
		page := Paginate(seq(total), 1, size)
		for n := 1; n <= page.TotalPages; n++ {
			got := Paginate(seq(total), n, size).Len()
			if n < page.TotalPages {
				assert.Equal(t, size, got, "total=%d page=%d", total, n)
				continue
			}
			want := total % size
			if want == 0 {
				want = size
			}
			assert.Equal(t, want, got, "total=%d last page", total)
		}
	}
}

func TestPaginate_OutOfRangeRequests(t *testing.T) {
	t.Parallel()

	items := seq(13)

	beyond := Paginate(items, 50, 10)
	assert.Equal(t, 2, beyond.Number)
	assert.Equal(t, 3, beyond.Len())

	zero := Paginate(items, 0, 10)
	assert.Equal(t, 1, zero.Number)
	assert.Equal(t, 10, zero.Len())

	negative := Paginate(items, -4, 10)
	assert.Equal(t, 1, negative.Number)
}

func TestPaginate_Empty(t *testing.T) {
	t.Parallel()

	page := Paginate([]string(nil), 3, 10)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.Len())
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasOtherPages())
}

func TestLocate(t *testing.T) {
	t.Parallel()

	w := Locate(25, 3, 10)
	assert.Equal(t, Window{Number: 3, Offset: 20, Limit: 10, TotalPages: 3}, w)

	w = Locate(25, 7, 10)
	assert.Equal(t, 3, w.Number)

	w = Locate(5, 1, 0)
	assert.Equal(t, 5, w.TotalPages)
}
