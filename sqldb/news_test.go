package sqldb

import (
	"testing"

	"clubsite/core"
	"github.com/stretchr/testify/require"
)

func TestNewsOrder(t *testing.T) {

	newsDB := NewNewsDB(testDB(t))

	// inserted out of order on purpose
	for _, n := range []core.News{
		{Title: "old", Created: 100, AuthorID: 1},
		{Title: "newest", Created: 300, AuthorID: 1},
		{Title: "middle", Created: 200, AuthorID: 1},
	} {
		_, err := newsDB.InsertNews(n)
		require.NoError(t, err)
	}

	all, err := newsDB.GetAllNews()
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "newest", all[0].Title)
	require.Equal(t, "middle", all[1].Title)
	require.Equal(t, "old", all[2].Title)
}

func TestUpdateNews(t *testing.T) {

	newsDB := NewNewsDB(testDB(t))

	n, err := newsDB.InsertNews(core.News{
		Title:       "Summer party",
		ImageFile:   "party.jpg",
		Description: "Save the date!",
		AuthorID:    1,
	})
	require.NoError(t, err)
	require.NotZero(t, n.Created)

	n.Title = "Summer party (postponed)"
	n.ImageFile = "rain.jpg"
	require.NoError(t, newsDB.UpdateNews(n))

	got, err := newsDB.GetNews(n.ID)
	require.NoError(t, err)
	require.Equal(t, "Summer party (postponed)", got.Title)
	require.Equal(t, "rain.jpg", got.ImageFile)
	require.Equal(t, n.Created, got.Created) // created_at is immutable
	require.Equal(t, 1, got.AuthorID)
}

func TestGetNewsNotFound(t *testing.T) {

	newsDB := NewNewsDB(testDB(t))

	_, err := newsDB.GetNews(42)
	require.Equal(t, core.ErrNotFound, err)
}
