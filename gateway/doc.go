// Package gateway implements goSession.Gateway over the console backend's
// HTTP API.
//
// The backend wraps every payload in {"data": ...} and every failure in
// {"error": "..."}. Session credentials travel in a cookie jar, as a browser
// would send them, plus an optional static bearer token.
package gateway
