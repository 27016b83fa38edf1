package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func parseValues(t *testing.T, rawQuery string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	return values
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     bson.M
	}{
		{
			name:     "string equality",
			rawQuery: "category=tech",
			want:     bson.M{"category": "tech"},
		},
		{
			name:     "numeric and boolean coercion",
			rawQuery: "views=3&score=1.5&visible=true&image=null",
			want:     bson.M{"views": int64(3), "score": 1.5, "visible": true, "image": nil},
		},
		{
			name:     "comma list becomes $in",
			rawQuery: "category=tech,design",
			want:     bson.M{"category": bson.M{"$in": []interface{}{"tech", "design"}}},
		},
		{
			name:     "pagination controls are not criteria",
			rawQuery: "limit=5&skip=10&sort=-createdAt&fields=text&category=tech",
			want:     bson.M{"category": "tech"},
		},
		{
			name:     "empty query",
			rawQuery: "",
			want:     bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(parseValues(t, tt.rawQuery), 10)
			assert.Equal(t, tt.want, q.Criteria)
		})
	}
}

func TestParseWindow(t *testing.T) {
	q := Parse(parseValues(t, "limit=5&skip=20"), 10)
	assert.Equal(t, int64(5), q.Limit)
	assert.Equal(t, int64(20), q.Skip)

	q = Parse(parseValues(t, ""), 10)
	assert.Equal(t, int64(10), q.Limit)
	assert.Equal(t, int64(0), q.Skip)

	// offset is an alias for skip
	q = Parse(parseValues(t, "offset=15"), 10)
	assert.Equal(t, int64(15), q.Skip)

	// nonsense values fall back to defaults
	q = Parse(parseValues(t, "limit=-3&skip=abc"), 10)
	assert.Equal(t, int64(10), q.Limit)
	assert.Equal(t, int64(0), q.Skip)
}

func TestParseSortAndFields(t *testing.T) {
	q := Parse(parseValues(t, "sort=-createdAt,title&fields=text,-image"), 10)

	assert.Equal(t, bson.D{
		{Key: "createdAt", Value: int32(-1)},
		{Key: "title", Value: int32(1)},
	}, q.Sort)

	assert.Equal(t, bson.D{
		{Key: "text", Value: int32(1)},
		{Key: "image", Value: int32(0)},
	}, q.Projection)
}

func TestNumberOfPages(t *testing.T) {
	tests := []struct {
		total int64
		limit string
		want  int64
	}{
		{total: 10, limit: "3", want: 4},
		{total: 9, limit: "3", want: 3},
		{total: 1, limit: "10", want: 1},
		{total: 0, limit: "10", want: 0},
	}

	for _, tt := range tests {
		q := Parse(parseValues(t, "limit="+tt.limit), 10)
		assert.Equal(t, tt.want, q.NumberOfPages(tt.total), "total=%d limit=%s", tt.total, tt.limit)
	}
}

func TestLinks(t *testing.T) {
	q := Parse(parseValues(t, "category=tech&limit=10&skip=10"), 10)
	links := q.Links("/posts", 25)

	requireSkip := func(link string, wantSkip string) {
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, wantSkip, u.Query().Get("skip"))
		assert.Equal(t, "10", u.Query().Get("limit"))
		assert.Equal(t, "tech", u.Query().Get("category"))
	}

	requireSkip(links["first"], "0")
	requireSkip(links["prev"], "0")
	requireSkip(links["next"], "20")
	requireSkip(links["last"], "20")
}

func TestLinksAtBoundaries(t *testing.T) {
	// first page: no prev
	q := Parse(parseValues(t, "limit=10&skip=0"), 10)
	links := q.Links("/posts", 25)
	assert.NotContains(t, links, "prev")
	assert.Contains(t, links, "next")

	// last page: no next
	q = Parse(parseValues(t, "limit=10&skip=20"), 10)
	links = q.Links("/posts", 25)
	assert.Contains(t, links, "prev")
	assert.NotContains(t, links, "next")

	// single page
	q = Parse(parseValues(t, "limit=10"), 10)
	links = q.Links("/posts", 5)
	assert.NotContains(t, links, "prev")
	assert.NotContains(t, links, "next")
}

// Walking every page by bumping skip covers each element exactly once.
func TestPageWalkCoversAll(t *testing.T) {
	const total = int64(23)
	q := Parse(parseValues(t, "limit=5"), 10)

	pages := q.NumberOfPages(total)
	require.Equal(t, int64(5), pages)

	covered := int64(0)
	for page := int64(0); page < pages; page++ {
		start := page * q.Limit
		end := start + q.Limit
		if end > total {
			end = total
		}
		covered += end - start
	}
	assert.Equal(t, total, covered)
}

func TestFindOptions(t *testing.T) {
	q := Parse(parseValues(t, "limit=5&skip=20&sort=-createdAt&fields=text"), 10)
	opts := q.FindOptions()

	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(5), *opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(20), *opts.Skip)
	assert.NotNil(t, opts.Sort)
	assert.NotNil(t, opts.Projection)
}
