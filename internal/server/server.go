// Package server exposes the try-on pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/config"
	"github.com/Faultbox/fitmirror/internal/garment"
	"github.com/Faultbox/fitmirror/internal/pipeline"
	"github.com/Faultbox/fitmirror/internal/tasks"
)

const maxUploadBytes = 32 << 20

// Server handles try-on HTTP requests and serves result artifacts.
type Server struct {
	cfg      *config.Config
	catalog  *garment.Catalog
	pipeline *pipeline.Pipeline
	tasks    *tasks.Manager
	log      *zap.Logger
}

// New creates a Server. A nil logger disables logging.
func New(cfg *config.Config, catalog *garment.Catalog, p *pipeline.Pipeline, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		catalog:  catalog,
		pipeline: p,
		tasks:    tasks.NewManager(),
		log:      log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /garments", s.handleGarments)
	mux.HandleFunc("POST /tryon", s.handleTryOn)
	mux.HandleFunc("GET /result/{id}", s.handleResult)
	mux.Handle("GET /results/", http.StripPrefix("/results/",
		http.FileServer(http.Dir(s.cfg.ResultDir()))))
	return mux
}

// Run serves HTTP on the configured listen address until the listener
// fails.
func (s *Server) Run() error {
	s.log.Info("http server listening", zap.String("addr", s.cfg.Server.Listen))
	return http.ListenAndServe(s.cfg.Server.Listen, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGarments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"garments": s.catalog.List()})
}

func (s *Server) handleTryOn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	garmentID := r.FormValue("garment_id")
	if garmentID == "" {
		s.writeError(w, http.StatusBadRequest, "garment_id is required")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "image upload is required")
		return
	}
	defer file.Close()

	taskID := s.tasks.Create()
	inputPath, err := s.saveUpload(taskID, header.Filename, file)
	if err != nil {
		s.log.Error("failed to store upload", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	go s.process(taskID, pipeline.Request{
		ImagePath: inputPath,
		OutputDir: filepath.Join(s.cfg.ResultDir(), taskID),
		GarmentID: garmentID,
		SizeID:    r.FormValue("size"),
		ColorID:   r.FormValue("color"),
	})

	s.writeJSON(w, http.StatusOK, map[string]string{"task_id": taskID})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.PathValue("id"))
	if errors.Is(err, tasks.ErrTaskNotFound) {
		s.writeError(w, http.StatusNotFound, "task not found")
		return
	}

	payload := map[string]any{
		"status": task.Status,
		"error":  task.Error,
	}
	for key, value := range task.Result {
		payload[key] = value
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// process runs the pipeline for one accepted upload and records the
// outcome in the task registry.
func (s *Server) process(taskID string, req pipeline.Request) {
	if err := s.tasks.Start(taskID); err != nil {
		s.log.Error("failed to start task", zap.String("task", taskID), zap.Error(err))
		return
	}
	artifacts, err := s.pipeline.Run(req)
	if err != nil {
		s.log.Warn("try-on task failed", zap.String("task", taskID), zap.Error(err))
		s.tasks.Fail(taskID, err)
		return
	}
	s.tasks.Complete(taskID, map[string]any{
		"preview_url": fmt.Sprintf("/results/%s/preview.svg", taskID),
		"model_url":   fmt.Sprintf("/results/%s/scene.gltf", taskID),
		"metadata":    artifacts.Metadata,
	})
}

func (s *Server) saveUpload(taskID, filename string, src io.Reader) (string, error) {
	dir := filepath.Join(s.cfg.InputDir(), taskID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
