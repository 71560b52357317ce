// Package bgg implements a polite client for the BoardGameGeek XML API v2.
// Things are fetched in ID batches; the API answers 202 while a request is
// still being prepared server-side, so the client retries with backoff.
package bgg
