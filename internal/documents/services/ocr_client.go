package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRClient talks to the external OCR service over HTTP. The engine itself
// is opaque: we send the file, get a job id back, and poll for the result.
type OCRClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewOCRClient(baseURL string) *OCRClient {
	return &OCRClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OCRJob is the state reported by the OCR service for one submission.
type OCRJob struct {
	JobID      string  `json:"job_id"`
	Status     string  `json:"status"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// SubmitJob uploads the document as multipart form data and returns the
// job id assigned by the OCR service.
func (c *OCRClient) SubmitJob(ctx context.Context, fileName, contentType string, file io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.WriteField("content_type", contentType); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/jobs", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	var job OCRJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", err
	}
	if job.JobID == "" {
		return "", fmt.Errorf("ocr service returned empty job id")
	}
	return job.JobID, nil
}

// JobStatus fetches the current state of a submitted job.
func (c *OCRClient) JobStatus(ctx context.Context, jobID string) (*OCRJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	var job OCRJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}
