// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/parastaking/api/restutil"
	"github.com/vechain/parastaking/builtin/staker"
	"github.com/vechain/parastaking/co"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/metrics"
	"github.com/vechain/parastaking/node"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
	writeWait  = 10 * time.Second
)

// BlockFeed delivers processed blocks to subscribers.
type BlockFeed interface {
	SubscribeBlocks(ch chan *node.Block)
	UnsubscribeBlocks(ch chan *node.Block)
}

// EventMessage is one engine event as sent to subscribers.
type EventMessage struct {
	Block uint32       `json:"block"`
	Name  string       `json:"name"`
	Event staker.Event `json:"event"`
}

type Subscriptions struct {
	feed     BlockFeed
	upgrader *websocket.Upgrader
	backlog  int
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the websocket endpoints. backlog bounds the blocks buffered per connection.
func New(feed BlockFeed, allowedOrigins []string, backlog int) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		backlog: backlog,
		done:    make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	names := make(map[string]bool)
	for _, name := range req.URL.Query()["name"] {
		names[name] = true
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": "events"})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": "events"})

	ch := make(chan *node.Block, s.backlog)
	s.feed.SubscribeBlocks(ch)
	defer s.feed.UnsubscribeBlocks(ch)

	var goes co.Goes
	closed := make(chan struct{})
	goes.Go(func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	})
	defer func() {
		conn.Close()
		goes.Wait()
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "service closed"),
				time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case blk := <-ch:
			for _, ev := range blk.Events {
				if len(names) > 0 && !names[ev.Name()] {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(&EventMessage{Block: blk.Number, Name: ev.Name(), Event: ev}); err != nil {
					logger.Debug("write failed", "err", err)
					return nil
				}
			}
		}
	}
}

// Close disconnects every subscriber and waits for the handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
