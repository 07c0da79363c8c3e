package common

// TokenLifetimeSeconds is the fixed lifetime the platform grants an access
// token, counted from its created_at timestamp.
const TokenLifetimeSeconds = 7200

// DisplayTimeLayout is used when showing token timestamps to the inspector.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// SessionCookieName carries the signed session id in the browser.
const SessionCookieName = "fieldcheck_session"
