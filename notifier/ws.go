// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notifier

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/middleware"
)

// ServeWS handles GET /client/hubs/polls.
// The access token from Negotiate is read from the access_token query
// parameter or a Bearer Authorization header.
func (n *Notifier) ServeWS(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ValidateAccessToken(n.cfg.Tokens, accessTokenFromRequest(r), HubName)
	if err != nil {
		n.logger.Warn("websocket unauthorized",
			"remote", middleware.GetClientIP(r),
			"error", err,
		)
		message := "Invalid access token"
		if errors.Is(err, auth.ErrExpiredToken) {
			message = "Access token expired"
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, message)
		return
	}

	// Origins are not restricted, matching the CORS policy for the REST routes
	server := websocket.Server{
		Handler: func(conn *websocket.Conn) {
			n.serveConn(conn, claims.ConnectionID)
		},
	}
	server.ServeHTTP(w, r)
}

func (n *Notifier) serveConn(conn *websocket.Conn, connectionID string) {
	defer conn.Close()

	sub := newSubscriber(connectionID, n.cfg.SubscriberBuffer)
	if !n.attach(conn.Request().Context(), sub) {
		n.logger.Info("rejecting subscriber after shutdown", "connection_id", connectionID)
		return
	}
	defer n.remove(sub)

	n.logger.Info("subscriber connected", "connection_id", connectionID)

	// Client frames are ignored; reading only detects disconnects
	go func() {
		_, _ = io.Copy(io.Discard, conn)
		sub.close()
	}()

	for {
		select {
		case <-sub.done:
			n.logger.Info("subscriber disconnected", "connection_id", connectionID)
			return
		case frame := <-sub.out:
			if err := conn.SetWriteDeadline(time.Now().Add(n.cfg.WriteTimeout)); err != nil {
				n.logger.Warn("failed to set write deadline", "connection_id", connectionID, "error", err)
			}
			if err := websocket.Message.Send(conn, string(frame)); err != nil {
				n.logger.Warn("failed to deliver broadcast", "connection_id", connectionID, "error", err)
				return
			}
		}
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("access_token")); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
