// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The chat frontend is served from a different origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 16 * 1024
)

// Inbound and outbound frame types of the chat wire protocol.
const (
	frameUserMessage      = "user_message"
	frameStatus           = "status"
	frameAssistantMessage = "assistant_message"
	frameError            = "error"
)

// wsFrame covers every frame shape on the wire; unused fields are omitted.
type wsFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	key := callerKey(c)
	log.WithField("caller", key).Info("websocket session opened")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("websocket read: %v", err)
			}
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Type != frameUserMessage {
			s.writeFrame(conn, wsFrame{Type: frameError, Text: "message invalide"})
			continue
		}
		if frame.Text == "" {
			continue
		}

		s.serveTurn(c, conn, key, frame.Text)
	}
}

// serveTurn runs one pipeline turn and relays status frames while the
// search is in flight. The answer goes out as one assistant_message frame
// once complete.
func (s *Server) serveTurn(c *gin.Context, conn *websocket.Conn, key, text string) {
	onStatus := func(status string) {
		s.writeFrame(conn, wsFrame{Type: frameStatus, Value: status})
	}

	resp, err := s.pipeline.Handle(c.Request.Context(), key, text, onStatus, nil)
	if err != nil {
		log.Errorf("websocket turn failed: %v", err)
		s.writeFrame(conn, wsFrame{Type: frameError, Text: "désolé, je n'arrive pas à répondre pour le moment"})
		return
	}
	s.writeFrame(conn, wsFrame{Type: frameAssistantMessage, Text: resp.Answer})
}

func (s *Server) writeFrame(conn *websocket.Conn, frame wsFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Errorf("websocket frame encode failed: %v", err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debugf("websocket write: %v", err)
	}
}
