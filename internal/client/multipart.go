package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

// FilePart is one file field of a multipart form.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// Form is a multipart/form-data body.
type Form struct {
	Fields map[string]string
	Files  []FilePart
}

// DownloadInfo describes a downloaded payload.
type DownloadInfo struct {
	ContentType string
	FileName    string
	Size        int64
}

// Upload sends form as multipart/form-data and decodes a JSON response into out.
// r.Body is ignored.
func (c *Client) Upload(ctx context.Context, r Request, form Form, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range form.Fields {
		if err := mw.WriteField(name, value); err != nil {
			return apperrors.Validation("invalid form field "+name, err)
		}
	}
	for _, f := range form.Files {
		if f.Content == nil {
			continue
		}
		part, err := mw.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return apperrors.Validation("invalid form file "+f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return apperrors.Validation("read form file "+f.FileName, err)
		}
	}
	if err := mw.Close(); err != nil {
		return apperrors.Validation("invalid form", err)
	}

	r.Header = cloneHeader(r.Header)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(ctx, r, &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.reject(ctx, apperrors.Transport(err), r.Public)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Decode(fmt.Errorf("decode %s %s: %w", r.Method, r.Path, err))
	}
	return nil
}

// Download streams a successful response body into w.
func (c *Client) Download(ctx context.Context, r Request, w io.Writer) (DownloadInfo, error) {
	r.Header = cloneHeader(r.Header)
	r.Header.Set("Accept", "*/*")

	resp, err := c.send(ctx, r, nil)
	if err != nil {
		return DownloadInfo{}, err
	}
	defer resp.Body.Close()

	info := DownloadInfo{ContentType: resp.Header.Get("Content-Type")}
	if _, params, perr := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); perr == nil {
		info.FileName = params["filename"]
	}

	n, err := io.Copy(w, resp.Body)
	info.Size = n
	if err != nil {
		return info, c.reject(ctx, apperrors.Transport(err), r.Public)
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if want, perr := strconv.ParseInt(cl, 10, 64); perr == nil && want != n {
			return info, c.reject(ctx, apperrors.Transport(io.ErrUnexpectedEOF), r.Public)
		}
	}
	return info, nil
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h.Clone()
}
