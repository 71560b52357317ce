package bgg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catanXML = `<?xml version="1.0" encoding="utf-8"?>
<items>
  <item type="boardgame" id="13">
    <thumbnail>https://example.com/thumb.jpg</thumbnail>
    <image>https://example.com/full.jpg</image>
    <name type="primary" sortindex="1" value="CATAN"/>
    <name type="alternate" sortindex="1" value="Catan"/>
    <yearpublished value="1995"/>
    <minplayers value="3"/>
    <maxplayers value="4"/>
    <playingtime value="120"/>
    <minplaytime value="60"/>
    <maxplaytime value="120"/>
    <minage value="10"/>
    <link type="boardgamecategory" id="1026" value="Negotiation"/>
    <link type="boardgamecategory" id="1021" value="Economic"/>
    <link type="boardgamemechanic" id="2072" value="Dice Rolling"/>
    <link type="boardgamepublisher" id="37" value="KOSMOS"/>
    <link type="boardgamedesigner" id="11" value="Klaus Teuber"/>
    <statistics page="1">
      <ratings>
        <usersrated value="108975"/>
        <average value="7.14094"/>
      </ratings>
    </statistics>
  </item>
</items>`

func testClient(t *testing.T, handler http.Handler, opts Options) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts.BaseURL = server.URL
	if opts.RequestDelay == 0 {
		opts.RequestDelay = time.Millisecond
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	return NewClient(server.Client(), opts)
}

func TestFetchIDs_ParsesItems(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "13", r.URL.Query().Get("id"))
		assert.Equal(t, "1", r.URL.Query().Get("stats"))
		w.Write([]byte(catanXML))
	}), Options{})

	table, err := client.FetchIDs(context.Background(), []int{13})
	require.NoError(t, err)
	require.Len(t, table, 1)

	catan := table[0]
	assert.Equal(t, 13, catan.ID)
	assert.Equal(t, "CATAN", catan.Name)
	assert.Equal(t, 1995, catan.YearPublished)
	assert.Equal(t, 3, catan.MinPlayers)
	assert.Equal(t, 4, catan.MaxPlayers)
	assert.Equal(t, 120, catan.PlayingTime)
	assert.Equal(t, 10, catan.MinAge)
	assert.Equal(t, 108975, catan.UsersRated)
	assert.InDelta(t, 7.14094, catan.AverageRating, 1e-9)
	assert.Equal(t, []string{"Negotiation", "Economic"}, catan.Category)
	assert.Equal(t, []string{"Dice Rolling"}, catan.Mechanic)
	assert.Equal(t, []string{"KOSMOS"}, catan.Publisher)
	assert.Equal(t, []string{"Klaus Teuber"}, catan.Designer)
}

func TestFetchIDs_RetriesQueuedResponse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.Write([]byte(catanXML))
	}), Options{})

	table, err := client.FetchIDs(context.Background(), []int{13})
	require.NoError(t, err)
	assert.Len(t, table, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchIDs_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}), Options{MaxRetries: 2})

	_, err := client.FetchIDs(context.Background(), []int{13})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "giving up after 2 attempts")
}

func TestFetchRange_Batches(t *testing.T) {
	t.Parallel()

	var gotIDs []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = append(gotIDs, r.URL.Query().Get("id"))
		w.Write([]byte(`<items></items>`))
	}), Options{BatchSize: 2})

	_, err := client.FetchRange(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"1,2", "3,4", "5"}, gotIDs)
}

func TestFetchRange_RejectsInvalidRange(t *testing.T) {
	t.Parallel()

	client := NewClient(http.DefaultClient, Options{})
	_, err := client.FetchRange(context.Background(), 10, 5)
	require.Error(t, err)
}

func TestFetchIDs_CancelledContext(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}), Options{RetryDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchIDs(ctx, []int{13})
	require.ErrorIs(t, err, context.Canceled)
}
