// Package devbackend is a reference implementation of the console backend's
// auth endpoints: POST /api/login, POST /api/logout and GET /api/me.
//
// An admin account is checked against an argon2id digest. Sessions are HS256
// JWTs registered in Redis so logout can revoke them, and failed logins are
// throttled with Redis fixed-window counters. It serves integration tests
// and `gosession dev-backend`; it is not a production server.
package devbackend
