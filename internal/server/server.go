package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// maxRequestBytes bounds a single request line so a runaway client
// cannot exhaust memory. Large file payloads fit comfortably under it.
const maxRequestBytes = 64 * 1024 * 1024

// Request is one wire request.
type Request struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Response is one wire response. Exactly one of Result and Error is set.
type Response struct {
	ID     string     `json:"id"`
	Result any        `json:"result,omitempty"`
	Error  *WireError `json:"error,omitempty"`
}

// WireError is the serialized form of a failed call.
type WireError struct {
	Message string `json:"message"`
}

// Server reads newline-delimited JSON requests and writes one response
// line per request. Requests run sequentially in arrival order; callers
// wanting concurrency open multiple connections.
type Server struct {
	registry *Registry
	log      *logrus.Logger

	mu  sync.Mutex
	out *bufio.Writer
}

// New creates a Server over the given registry.
func New(registry *Registry, log *logrus.Logger) *Server {
	if registry == nil {
		panic("registry is required")
	}
	if log == nil {
		panic("log is required")
	}
	return &Server{registry: registry, log: log}
}

// Serve processes requests from r until EOF or context cancellation.
// Malformed lines produce an error response when an id can be recovered
// and are logged and skipped otherwise; they never stop the loop.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = bufio.NewWriter(w)
	defer s.out.Flush()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("dropping malformed request line")
			continue
		}

		s.handle(ctx, &req)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("transport read failed: %w", err)
	}
	return nil
}

func (s *Server) handle(ctx context.Context, req *Request) {
	log := s.log.WithFields(logrus.Fields{
		"id":   req.ID,
		"tool": req.Tool,
	})

	if req.Tool == "" {
		s.reply(log, &Response{ID: req.ID, Error: &WireError{Message: "tool is required"}})
		return
	}

	// Discovery verb: list every tool with its schema.
	if req.Tool == "tools" {
		s.reply(log, &Response{ID: req.ID, Result: s.registry.Declarations()})
		return
	}

	tool, ok := s.registry.Get(req.Tool)
	if !ok {
		s.reply(log, &Response{ID: req.ID, Error: &WireError{
			Message: fmt.Sprintf("unknown tool: %s", req.Tool),
		}})
		return
	}

	result, err := tool.Call(ctx, req.Args)
	if err != nil {
		log.WithError(err).Info("tool call failed")
		s.reply(log, &Response{ID: req.ID, Error: &WireError{Message: err.Error()}})
		return
	}

	log.Debug("tool call succeeded")
	s.reply(log, &Response{ID: req.ID, Result: result})
}

func (s *Server) reply(log *logrus.Entry, resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		// Result failed to serialize; the request still needs an answer.
		log.WithError(err).Error("failed to marshal response")
		data, _ = json.Marshal(&Response{
			ID:    resp.ID,
			Error: &WireError{Message: "internal error: response serialization failed"},
		})
	}

	if _, err := s.out.Write(append(data, '\n')); err != nil {
		log.WithError(err).Error("failed to write response")
		return
	}
	if err := s.out.Flush(); err != nil {
		log.WithError(err).Error("failed to flush response")
	}
}
