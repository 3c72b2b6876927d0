// Package client implements workbook.Persister over the quotedesk HTTP
// API. It is the transport the edit buffer talks to; all state lives on
// the other side.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkamath/quotedesk/internal/workbook"
)

const (
	defaultTimeout = 30 * time.Second

	// DefaultUploadTimeout bounds multipart uploads when the caller
	// passes no explicit value to New.
	DefaultUploadTimeout = 60 * time.Second
)

type Client struct {
	baseURL       string
	token         string
	uploadTimeout time.Duration
	http          *http.Client
	log           zerolog.Logger
}

// New builds a client for the given API endpoint. uploadTimeout bounds
// multipart uploads and normally comes from QuotesConfig.UploadTimeout;
// zero selects DefaultUploadTimeout.
func New(baseURL, token string, uploadTimeout time.Duration, log zerolog.Logger) *Client {
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		uploadTimeout: uploadTimeout,
		http:          &http.Client{},
		log:           log,
	}
}

func (c *Client) FetchQuotes(ctx context.Context, enquiryID string) ([]workbook.QuoteVersion, error) {
	var versions []workbook.QuoteVersion
	path := fmt.Sprintf("/enquiries/%s/quotes", url.PathEscape(enquiryID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) CreateQuote(ctx context.Context, enquiryID string, quote workbook.QuoteVersion, attachments []workbook.Upload) (workbook.QuoteVersion, error) {
	var created workbook.QuoteVersion
	path := fmt.Sprintf("/enquiries/%s/quotes", url.PathEscape(enquiryID))

	if len(attachments) == 0 {
		if err := c.doJSON(ctx, http.MethodPost, path, quote, &created); err != nil {
			return workbook.QuoteVersion{}, err
		}
		return created, nil
	}

	payload, err := json.Marshal(quote)
	if err != nil {
		return workbook.QuoteVersion{}, err
	}
	body, contentType, err := multipartBody("payload", payload, "attachments", attachments)
	if err != nil {
		return workbook.QuoteVersion{}, err
	}
	if err := c.doMultipart(ctx, http.MethodPost, path, body, contentType, &created); err != nil {
		return workbook.QuoteVersion{}, err
	}
	return created, nil
}

func (c *Client) UpdateQuote(ctx context.Context, quoteID string, cs workbook.Changeset, attachment *workbook.Upload) error {
	path := fmt.Sprintf("/quotes/%s", url.PathEscape(quoteID))

	if attachment == nil {
		return c.doJSON(ctx, http.MethodPatch, path, cs, nil)
	}

	payload, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	body, contentType, err := multipartBody("changeset", payload, "attachment", []workbook.Upload{*attachment})
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPatch, path, body, contentType, nil)
}

func (c *Client) SaveVendor(ctx context.Context, quoteID string, itemIndex, vendorIndex int, vendor workbook.VendorAssignment) error {
	path := fmt.Sprintf("/quotes/%s/vendors", url.PathEscape(quoteID))
	req := map[string]interface{}{
		"itemIndex":   itemIndex,
		"vendorIndex": vendorIndex,
		"vendor":      vendor,
	}
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) DeleteVendor(ctx context.Context, quoteID string, itemIndex int, vendorID string) error {
	path := fmt.Sprintf("/quotes/%s/items/%d/vendors/%s", url.PathEscape(quoteID), itemIndex, url.PathEscape(vendorID))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) DeleteAttachment(ctx context.Context, quoteID string, attachmentIndex int) error {
	path := fmt.Sprintf("/quotes/%s/attachments/%s", url.PathEscape(quoteID), strconv.Itoa(attachmentIndex))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) UpdateStatus(ctx context.Context, quoteID string, status workbook.QuoteStatus) error {
	path := fmt.Sprintf("/quotes/%s/status", url.PathEscape(quoteID))
	return c.doJSON(ctx, http.MethodPatch, path, map[string]string{"status": string(status)}, nil)
}

func (c *Client) ListMembers(ctx context.Context) ([]workbook.Member, error) {
	var members []workbook.Member
	if err := c.doJSON(ctx, http.MethodGet, "/members/vendors", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, defaultTimeout, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, body *bytes.Buffer, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req, c.uploadTimeout, out)
}

type sendResult struct {
	resp *http.Response
	err  error
}

// send waits for the response up to the timeout. On timeout it stops
// waiting and reports failure without cancelling the request; the remote
// side-effect may still complete and its result is discarded.
func (c *Client) send(req *http.Request, timeout time.Duration, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	results := make(chan sendResult, 1)
	go func() {
		resp, err := c.http.Do(req)
		results <- sendResult{resp: resp, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result sendResult
	select {
	case result = <-results:
	case <-timer.C:
		go drainResult(results)
		return fmt.Errorf("timed out after %s waiting for %s %s", timeout, req.Method, req.URL.Path)
	}
	if result.err != nil {
		return result.err
	}
	resp := result.resp
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := decodeError(resp)
		c.log.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.Path).Msg("request rejected")
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func drainResult(results chan sendResult) {
	if result := <-results; result.resp != nil {
		_, _ = io.Copy(io.Discard, result.resp.Body)
		result.resp.Body.Close()
	}
}

func decodeError(resp *http.Response) error {
	var apiError struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiError); err == nil && apiError.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, apiError.Error)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}

func multipartBody(fieldName string, payload []byte, fileField string, uploads []workbook.Upload) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField(fieldName, string(payload)); err != nil {
		return nil, "", err
	}
	for _, upload := range uploads {
		part, err := writer.CreateFormFile(fileField, upload.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(upload.Content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
