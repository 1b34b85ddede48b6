// Package tokenstore persists the session token, role and expiry between runs.
//
// It is the terminal counterpart of browser local storage: three keys, token,
// role and tokenExpiry (epoch milliseconds), written together and cleared
// together. Stores do not validate what they hold; decoding and expiry checks
// belong to the session manager.
//
// # Architecture
//
// Store is a three-method interface (Save, Read, Clear) with a Record value.
// Three drivers implement it:
//
//   - MemoryStore keeps the record in process memory. Nothing survives a restart.
//   - FileStore writes a small JSON document, replacing it atomically with a
//     rename so a reader never sees half of a save. The file is created with
//     0600 permissions.
//   - RedisStore keeps a hash written inside MULTI/EXEC; the hash expires
//     together with the token. Several terminals pointed at the same key share
//     one login.
//
// A record is all or nothing. Read returns ErrNotFound unless every field is
// present, and Clear removes every field at once.
//
// # Usage
//
//	store, err := tokenstore.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if c, ok := store.(io.Closer); ok {
//		defer c.Close()
//	}
//
//	rec, err := store.Read(ctx)
//	switch {
//	case errors.Is(err, tokenstore.ErrNotFound):
//		// nobody is logged in
//	case errors.Is(err, tokenstore.ErrCorrupted):
//		// clear it and start anonymous
//	}
//
// # Error Handling
//
//	ErrNotFound       no complete record is stored
//	ErrCorrupted      a record exists but cannot be decoded
//	ErrUnknownDriver  Open was given a driver other than memory, file or redis
//	ErrRedisNotReady  redis did not answer a PING within the retry budget
//
// # Configuration
//
//	TOKEN_STORE_DRIVER                 memory, file or redis (default file)
//	TOKEN_STORE_PATH                   file driver path (default DefaultPath)
//	TOKEN_STORE_REDIS_URL              redis URL (default redis://localhost:6379/0)
//	TOKEN_STORE_REDIS_KEY              hash key (default pharmakit:session)
//	TOKEN_STORE_REDIS_RETRY_ATTEMPTS   PING attempts at startup (default 3)
//	TOKEN_STORE_REDIS_RETRY_INTERVAL   pause between attempts (default 1s)
//	TOKEN_STORE_REDIS_CONNECT_TIMEOUT  total startup budget (default 10s)
//
// DefaultPath is pharmakit/session.json under os.UserConfigDir.
//
// # Testing Helpers
//
// MemoryStore is the store of choice in tests of code that depends on a
// Store. RedisStore accepts any redis.UniversalClient, so it runs against
// miniredis without a server.
package tokenstore
