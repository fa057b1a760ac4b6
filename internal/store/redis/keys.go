package redis

const (
	// KeyPrefixCategory is the prefix for category records (JSON)
	KeyPrefixCategory = "webmark:category:"
	// KeyPrefixBookmark is the prefix for bookmark records (JSON)
	KeyPrefixBookmark = "webmark:bookmark:"
	// KeyPrefixUser is the prefix for per-user indexes and aggregates
	KeyPrefixUser = "webmark:user:"

	// KeyAllCategories is the set of every category ID
	KeyAllCategories = "webmark:categories:all"
	// KeyAllBookmarks is the set of every bookmark ID
	KeyAllBookmarks = "webmark:bookmarks:all"
	// KeyAllUsers is the set of users that own data or clicked something
	KeyAllUsers = "webmark:users:all"
	// KeySnapshots is the list of global statistics snapshots, newest first
	KeySnapshots = "webmark:stats:snapshots"
)

// CategoryKey returns the Redis key for a category record
func CategoryKey(id string) string {
	return KeyPrefixCategory + id
}

// CategoryBookmarksKey returns the sorted set of a category's bookmark IDs.
// The score is the bookmark order.
func CategoryBookmarksKey(categoryID string) string {
	return KeyPrefixCategory + categoryID + ":bookmarks"
}

// BookmarkKey returns the Redis key for a bookmark record
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// UserCategoriesKey returns the sorted set of a user's category IDs.
// The score is the category order.
func UserCategoriesKey(userID string) string {
	return KeyPrefixUser + userID + ":categories"
}

// UserStatsKey returns the hash holding a user's usage aggregate
func UserStatsKey(userID string) string {
	return KeyPrefixUser + userID + ":stats"
}
