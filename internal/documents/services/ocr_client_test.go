package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitJobReturnsJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/jobs", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "ficha.pdf", header.Filename)
		assert.Equal(t, "application/pdf", r.FormValue("content_type"))

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"job_id":"job-123","status":"PROCESSING"}`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL)
	jobID, err := client.SubmitJob(context.Background(), "ficha.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "job-123", jobID)
}

func TestSubmitJobRejectsEmptyJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"PROCESSING"}`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL)
	_, err := client.SubmitJob(context.Background(), "ficha.pdf", "application/pdf", strings.NewReader("x"))

	assert.Error(t, err)
}

func TestSubmitJobServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL)
	_, err := client.SubmitJob(context.Background(), "ficha.pdf", "application/pdf", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestJobStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs/job-123", r.URL.Path)
		w.Write([]byte(`{"job_id":"job-123","status":"DONE","text":"Paciente relata dor lombar","confidence":0.97}`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL)
	job, err := client.JobStatus(context.Background(), "job-123")

	require.NoError(t, err)
	assert.Equal(t, "DONE", job.Status)
	assert.Equal(t, "Paciente relata dor lombar", job.Text)
	assert.InDelta(t, 0.97, job.Confidence, 1e-9)
}

func TestJobStatusNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL)
	_, err := client.JobStatus(context.Background(), "missing")

	assert.Error(t, err)
}
