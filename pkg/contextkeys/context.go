package contextkeys

// Custom key type avoids collisions with other context users.
type contextKey string

// DBContextKey is the key under which middleware stores the *gorm.DB handle.
const DBContextKey = contextKey("db")
