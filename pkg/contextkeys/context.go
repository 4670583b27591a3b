package contextkeys

// Custom key type so values set by this package cannot collide with
// values set by other packages sharing the same context.
type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB handle
// (the shared pool, or a transaction in tests) is stored.
const DBContextKey = contextKey("db")

// IdentityContextKey is the key under which the verified session claims of
// the current request are stored. Absent means the request is anonymous.
const IdentityContextKey = contextKey("identity")
