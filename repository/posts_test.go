package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yatube/models"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAllOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")

	seedPost(t, db, author, nil, "oldest", baseTime)
	seedPost(t, db, author, nil, "middle", baseTime.Add(time.Hour))
	seedPost(t, db, author, nil, "newest", baseTime.Add(2*time.Hour))

	posts, page, err := repo.All(1)
	require.NoError(t, err)

	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Text)
	assert.Equal(t, "middle", posts[1].Text)
	assert.Equal(t, "oldest", posts[2].Text)
	assert.Equal(t, int64(3), page.Total)
}

func TestAllPreloadsAuthorAndGroup(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "anna")
	group := seedGroup(t, db, "Cats", "cats")

	seedPost(t, db, author, &group, "a cat post", baseTime)

	posts, _, err := repo.All(1)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, "anna", posts[0].User.Username)
	require.NotNil(t, posts[0].Group)
	assert.Equal(t, "cats", posts[0].Group.Slug)
}

func TestAllPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")
	seedPosts(t, db, author, 13, baseTime)

	first, page, err := repo.All(1)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)

	second, page, err := repo.All(2)
	require.NoError(t, err)
	assert.Len(t, second, 3)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	// a page number past the end clamps to the last page
	clamped, page, err := repo.All(99)
	require.NoError(t, err)
	assert.Len(t, clamped, 3)
	assert.Equal(t, 2, page.Number)
}

func TestByGroupFiltersAndReportsIndexes(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "Dogs", "dogs")
	other := seedGroup(t, db, "Cats", "cats")

	for i := 0; i < 4; i++ {
		seedPost(t, db, author, &group, "dog post", baseTime.Add(time.Duration(i)*time.Minute))
	}
	seedPost(t, db, author, &other, "cat post", baseTime)
	seedPost(t, db, author, nil, "ungrouped", baseTime)

	got, posts, page, err := repo.ByGroup("dogs", 1)
	require.NoError(t, err)

	assert.Equal(t, group.ID, got.ID)
	assert.Len(t, posts, 4)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.StartIndex)
	assert.Equal(t, 4, page.EndIndex)
}

func TestByGroupUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)

	_, _, _, err := repo.ByGroup("no-such-group", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestByGroupEmptyGroup(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	seedGroup(t, db, "Empty", "empty")

	got, posts, page, err := repo.ByGroup("empty", 1)
	require.NoError(t, err)

	assert.Equal(t, "empty", got.Slug)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), page.Total)
}

func TestByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	leo := seedUser(t, db, "leo")
	anna := seedUser(t, db, "anna")

	seedPost(t, db, leo, nil, "by leo", baseTime)
	seedPost(t, db, anna, nil, "by anna", baseTime)

	author, posts, _, err := repo.ByAuthor("leo", 1)
	require.NoError(t, err)

	assert.Equal(t, leo.ID, author.ID)
	require.Len(t, posts, 1)
	assert.Equal(t, "by leo", posts[0].Text)

	_, _, _, err = repo.ByAuthor("nobody", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchMatchesAnyWordCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")

	seedPost(t, db, author, nil, "Walking the DOG in the park", baseTime)
	seedPost(t, db, author, nil, "my cat sleeps all day", baseTime.Add(time.Minute))
	seedPost(t, db, author, nil, "nothing relevant here", baseTime.Add(2*time.Minute))

	posts, _, err := repo.Search("dog cat", 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, _, err = repo.Search("CAT", 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Contains(t, posts[0].Text, "cat")
}

func TestSearchTreatsWildcardsAsLiterals(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")

	seedPost(t, db, author, nil, "sale is 100% real", baseTime)
	seedPost(t, db, author, nil, "number 1009 here", baseTime.Add(time.Minute))
	seedPost(t, db, author, nil, "var snake_case used", baseTime.Add(2*time.Minute))
	seedPost(t, db, author, nil, "word snakeXcase trick", baseTime.Add(3*time.Minute))

	posts, _, err := repo.Search("100%", 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "sale is 100% real", posts[0].Text)

	posts, _, err = repo.Search("snake_case", 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "var snake_case used", posts[0].Text)

	posts, _, err = repo.Search("wow!", 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestSearchEmptyQueryReturnsEverything(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")
	seedPosts(t, db, author, 3, baseTime)

	posts, _, err := repo.Search("", 1)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	posts, _, err = repo.Search("   ", 1)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestSearchNoMatches(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")
	seedPost(t, db, author, nil, "hello world", baseTime)

	posts, page, err := repo.Search("zebra", 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), page.Total)
}

func TestFeedOnlyFollowedAuthors(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	follows := NewFollowRepository(db)

	reader := seedUser(t, db, "reader")
	followed := seedUser(t, db, "followed")
	stranger := seedUser(t, db, "stranger")

	seedPost(t, db, followed, nil, "from followed", baseTime)
	seedPost(t, db, stranger, nil, "from stranger", baseTime)

	require.NoError(t, follows.Follow(reader.ID, followed.ID))

	posts, _, err := repo.Feed(reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from followed", posts[0].Text)
}

func TestFeedEmptyWhenFollowedAuthorHasNoPosts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	follows := NewFollowRepository(db)

	reader := seedUser(t, db, "reader")
	silent := seedUser(t, db, "silent")
	require.NoError(t, follows.Follow(reader.ID, silent.ID))

	posts, page, err := repo.Feed(reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), page.Total)
}

func TestFeedEmptyWhenFollowingNobody(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	seedPost(t, db, author, nil, "unseen", baseTime)

	posts, page, err := repo.Feed(reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), page.Total)
}

func TestSavedByListsOnlyOwnBookmarks(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	bookmarks := NewBookmarkRepository(db)

	leo := seedUser(t, db, "leo")
	anna := seedUser(t, db, "anna")
	saved := seedPost(t, db, leo, nil, "saved by anna", baseTime)
	seedPost(t, db, leo, nil, "not saved", baseTime.Add(time.Minute))

	require.NoError(t, bookmarks.Save(anna.ID, saved.ID))

	posts, _, err := repo.SavedBy(anna.ID, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, saved.ID, posts[0].ID)

	posts, _, err = repo.SavedBy(leo.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetAnnotatesCommentsCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")
	post := seedPost(t, db, author, nil, "commented", baseTime)
	other := seedPost(t, db, author, nil, "quiet", baseTime.Add(time.Minute))

	seedComment(t, db, post, author, "first")
	seedComment(t, db, post, author, "second")

	got, err := repo.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CommentsCount)
	assert.Equal(t, "leo", got.User.Username)

	quiet, err := repo.Get(other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), quiet.CommentsCount)
}

func TestGetUnknownPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)

	_, err := repo.Get(12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateKeepsPubDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	author := seedUser(t, db, "leo")
	post := seedPost(t, db, author, nil, "original", baseTime)

	loaded, err := repo.Get(post.ID)
	require.NoError(t, err)

	loaded.Text = "edited"
	require.NoError(t, repo.Update(&loaded))

	reloaded, err := repo.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded.Text)
	assert.True(t, reloaded.PubDate.Equal(post.PubDate))
}

func TestDeleteCascadesCommentsAndBookmarks(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, 10)
	bookmarks := NewBookmarkRepository(db)

	author := seedUser(t, db, "leo")
	reader := seedUser(t, db, "anna")
	post := seedPost(t, db, author, nil, "doomed", baseTime)
	kept := seedPost(t, db, author, nil, "kept", baseTime.Add(time.Minute))

	seedComment(t, db, post, reader, "will vanish")
	seedComment(t, db, kept, reader, "will stay")
	require.NoError(t, bookmarks.Save(reader.ID, post.ID))

	require.NoError(t, repo.Delete(&post))

	_, err := repo.Get(post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments int64
	db.Model(&models.Comment{}).Count(&comments)
	assert.Equal(t, int64(1), comments)

	saved, _ := bookmarks.IsSaved(reader.ID, post.ID)
	assert.False(t, saved)
}
