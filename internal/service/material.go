package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/zdaf-zdaf/group-platform/internal/client"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

// MaterialAPI calls the learning material endpoints.
type MaterialAPI struct {
	client *client.Client
}

// NewMaterialAPI constructs a MaterialAPI.
func NewMaterialAPI(c *client.Client) *MaterialAPI {
	return &MaterialAPI{client: c}
}

// List returns materials matching f.
func (m *MaterialAPI) List(ctx context.Context, f model.MaterialFilter) ([]model.Material, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	var out []model.Material
	if err := m.client.Do(ctx, client.Request{Path: "materials/", Query: q}, &out); err != nil {
		return nil, apperrors.WithFallback(err, "获取学习资料失败")
	}
	return out, nil
}

// Create uploads a new material.
func (m *MaterialAPI) Create(ctx context.Context, in model.MaterialUpload) (model.Material, error) {
	if len(in.File) == 0 {
		return model.Material{}, apperrors.Validation("file is required", nil)
	}
	return m.upload(ctx, http.MethodPost, "materials/", in, "上传学习资料失败")
}

// Update replaces a material's metadata and, when in.File is set, its file.
func (m *MaterialAPI) Update(ctx context.Context, id int64, in model.MaterialUpload) (model.Material, error) {
	return m.upload(ctx, http.MethodPut, materialPath(id), in, "更新学习资料失败")
}

// Delete removes a material.
func (m *MaterialAPI) Delete(ctx context.Context, id int64) error {
	err := m.client.Do(ctx, client.Request{Method: http.MethodDelete, Path: materialPath(id)}, nil)
	return apperrors.WithFallback(err, "删除学习资料失败")
}

// Download streams the material file into w.
func (m *MaterialAPI) Download(ctx context.Context, id int64, w io.Writer) (client.DownloadInfo, error) {
	info, err := m.client.Download(ctx, client.Request{Path: materialPath(id) + "download/"}, w)
	if err != nil {
		return info, apperrors.WithFallback(err, "下载学习资料失败")
	}
	return info, nil
}

func (m *MaterialAPI) upload(ctx context.Context, method, path string, in model.MaterialUpload, fallback string) (model.Material, error) {
	if err := validatePayload(in); err != nil {
		return model.Material{}, err
	}
	form := client.Form{
		Fields: map[string]string{
			"title":       in.Title,
			"description": in.Description,
			"type":        string(in.Type),
		},
	}
	if len(in.File) > 0 {
		form.Files = []client.FilePart{{Field: "file", FileName: in.FileName, Content: bytes.NewReader(in.File)}}
	}
	var out model.Material
	if err := m.client.Upload(ctx, client.Request{Method: method, Path: path}, form, &out); err != nil {
		return model.Material{}, apperrors.WithFallback(err, fallback)
	}
	return out, nil
}

func materialPath(id int64) string {
	return fmt.Sprintf("materials/%d/", id)
}
