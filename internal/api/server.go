// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package api exposes the chat pipeline over HTTP and WebSocket using gin.
// The WebSocket endpoint speaks the wire protocol of the original web
// frontend: user_message frames in, status and assistant_message frames out.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/esprit-tdah/tdai/internal/config"
	"github.com/esprit-tdah/tdai/internal/pipeline"
)

// Server hosts the HTTP and WebSocket API.
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	engine   *gin.Engine
	httpSrv  *http.Server
}

// NewServer builds the server and registers its routes.
func NewServer(cfg *config.Config, p *pipeline.Pipeline) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{cfg: cfg, pipeline: p, engine: engine}

	engine.GET("/healthz", s.handleHealth)
	authed := engine.Group("/", s.accessMiddleware())
	authed.POST("/v1/chat", s.handleChat)
	authed.GET("/ws", s.handleWebSocket)

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// Handler exposes the gin engine, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// accessMiddleware enforces the optional shared access secret. Clients
// present it in the Authorization header as "Bearer <secret>" or in the
// "secret" query parameter (WebSocket clients cannot set headers).
func (s *Server) accessMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.Query("secret")
		if presented == "" {
			const prefix = "Bearer "
			if h := c.GetHeader("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
				presented = h[len(prefix):]
			}
		}
		if !s.cfg.CheckAccessSecret(presented) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access secret"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// chatRequest is the POST /v1/chat body.
type chatRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing text field"})
		return
	}

	resp, err := s.pipeline.Handle(c.Request.Context(), callerKey(c), req.Text, nil, nil)
	if err != nil {
		log.Errorf("chat turn failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream completion failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// callerKey identifies a caller by network address. Conversations from
// the same address share history.
func callerKey(c *gin.Context) string {
	return c.ClientIP()
}
